package auth

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/dindin/internal/dashboard"
	"github.com/MrJamesThe3rd/dindin/internal/http/respond"
	"github.com/MrJamesThe3rd/dindin/internal/session"
)

type Handler struct {
	svc *dashboard.Service
}

func NewHandler(svc *dashboard.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.login)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	User      userResponse `json:"user"`
	ExpiresAt *time.Time   `json:"expires_at,omitempty"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Message(w, http.StatusBadRequest, err.Error())
		return
	}

	sess, err := h.svc.Login(r.Context(), dashboard.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := loginResponse{
		Token: sess.Token,
		User:  userResponse{ID: sess.User.ID, Name: sess.User.Name, Email: sess.User.Email},
	}

	if !sess.ExpiresAt.IsZero() {
		resp.ExpiresAt = new(sess.ExpiresAt)
	}

	respond.JSON(w, http.StatusOK, resp)
}

// Authenticate requires a bearer token and puts its session in the request context.
func Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			respond.Error(w, r, session.ErrNoSession)
			return
		}

		sess, err := session.FromToken(strings.TrimSpace(token))
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), sess)))
	})
}

// Session returns the session Authenticate attached to r.
func Session(r *http.Request) session.Session {
	s, _ := session.FromContext(r.Context())
	return s
}
