package user

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/dindin/internal/dashboard"
	"github.com/MrJamesThe3rd/dindin/internal/http/auth"
	"github.com/MrJamesThe3rd/dindin/internal/http/respond"
	"github.com/MrJamesThe3rd/dindin/internal/ledger"
)

type Handler struct {
	svc *dashboard.Service
}

func NewHandler(svc *dashboard.Service) *Handler {
	return &Handler{svc: svc}
}

// Routes mounts sign-up, which is public, and the caller's own profile.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.signUp)

	r.Group(func(r chi.Router) {
		r.Use(auth.Authenticate)
		r.Get("/me", h.profile)
		r.Put("/me", h.updateProfile)
	})
}

type userRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Password string `json:"password"`
}

type userResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

func toUserResponse(u ledger.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone, Address: u.Address}
}

type signUpResponse struct {
	Token     string       `json:"token"`
	User      userResponse `json:"user"`
	ExpiresAt *time.Time   `json:"expires_at,omitempty"`
}

func (h *Handler) signUp(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Message(w, http.StatusBadRequest, err.Error())
		return
	}

	sess, err := h.svc.SignUp(r.Context(), dashboard.NewUser{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
		Password: req.Password,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := signUpResponse{Token: sess.Token, User: toUserResponse(sess.User)}
	if !sess.ExpiresAt.IsZero() {
		resp.ExpiresAt = new(sess.ExpiresAt)
	}

	respond.JSON(w, http.StatusCreated, resp)
}

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.Profile(r.Context(), auth.Session(r))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toUserResponse(u))
}

// updateProfile keeps the current password when none is sent.
func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Message(w, http.StatusBadRequest, err.Error())
		return
	}

	sess, err := h.svc.UpdateProfile(r.Context(), auth.Session(r), dashboard.ProfileUpdate{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
		Password: req.Password,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toUserResponse(sess.User))
}
