package http_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/dindin/internal/dashboard"
	apihttp "github.com/MrJamesThe3rd/dindin/internal/http"
	"github.com/MrJamesThe3rd/dindin/internal/http/account"
	"github.com/MrJamesThe3rd/dindin/internal/http/auth"
	"github.com/MrJamesThe3rd/dindin/internal/http/transaction"
	"github.com/MrJamesThe3rd/dindin/internal/http/user"
	"github.com/MrJamesThe3rd/dindin/internal/ledger"
	"github.com/MrJamesThe3rd/dindin/internal/remote"
	"github.com/MrJamesThe3rd/dindin/internal/statement"
)

var now = time.Date(2024, 10, 15, 12, 0, 0, 0, time.UTC)

type fixture struct {
	router       http.Handler
	accounts     *dashboard.MockAccountSource
	transactions *dashboard.MockTransactionSource
	users        *dashboard.MockUserSource
	auth         *dashboard.MockAuthenticator
	parser       *dashboard.MockStatementParser
	token        string
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	f := fixture{
		accounts:     dashboard.NewMockAccountSource(ctrl),
		transactions: dashboard.NewMockTransactionSource(ctrl),
		users:        dashboard.NewMockUserSource(ctrl),
		auth:         dashboard.NewMockAuthenticator(ctrl),
		parser:       dashboard.NewMockStatementParser(ctrl),
	}

	svc := dashboard.NewService(f.accounts, f.transactions, f.users, f.auth, f.parser,
		dashboard.WithClock(func() time.Time { return now }))

	f.router = apihttp.New(
		[]string{"http://localhost:3000"},
		auth.NewHandler(svc),
		account.NewHandler(svc),
		transaction.NewHandler(svc),
		user.NewHandler(svc),
	)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "7",
		"name": "Ana",
		"exp":  time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC).Unix(),
	}).SignedString([]byte("k"))
	require.NoError(t, err)

	f.token = token

	return f
}

func (f fixture) do(t *testing.T, method, path string, body []byte, contentType string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if f.token != "" {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))

	return out
}

func ownedAccounts() []ledger.Account {
	return []ledger.Account{
		{ID: 1, Name: "Corrente", Institution: "Nubank", OwnerID: 7, Balance: decimal.NewFromInt(500)},
		{ID: 3, Name: "Alheia", Institution: "Caixa", OwnerID: 8},
	}
}

func octoberTransactions() []ledger.Transaction {
	return []ledger.Transaction{
		{ID: 1, AccountID: 1, Description: "Salário", Amount: decimal.NewFromInt(100), Type: ledger.TypeRevenue, CreationDate: time.Date(2024, 10, 1, 9, 0, 0, 0, time.UTC)},
		{ID: 2, AccountID: 1, Description: "Mercado", Amount: decimal.NewFromInt(40), Type: ledger.TypeExpense, CreationDate: time.Date(2024, 10, 3, 9, 0, 0, 0, time.UTC)},
	}
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	token := f.token
	f.token = ""

	f.auth.EXPECT().
		Login(gomock.Any(), "ana@example.com", "segredo").
		Return(remote.LoginResult{Token: token, User: ledger.User{ID: 7, Name: "Ana", Email: "ana@example.com"}}, nil)

	rec := f.do(t, http.MethodPost, "/api/v1/login", []byte(`{"email":"ana@example.com","password":"segredo"}`), "application/json")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, token, body["token"])
	assert.Equal(t, "Ana", body["user"].(map[string]any)["name"])
	assert.Contains(t, body, "expires_at")
}

func TestLogin_Invalid(t *testing.T) {
	f := newFixture(t)
	f.token = ""

	rec := f.do(t, http.MethodPost, "/api/v1/login", []byte(`{"email":"x","password":""}`), "application/json")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	body := decode(t, rec)
	assert.Len(t, body["fields"], 2)
}

func TestAccounts_RequiresAuth(t *testing.T) {
	f := newFixture(t)
	f.token = ""

	rec := f.do(t, http.MethodGet, "/api/v1/accounts", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAccounts_List(t *testing.T) {
	f := newFixture(t)

	f.accounts.EXPECT().FindByUser(gomock.Any(), int64(7)).Return(ownedAccounts(), nil)

	rec := f.do(t, http.MethodGet, "/api/v1/accounts?q=nu", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Len(t, body["accounts"], 1)
	assert.Equal(t, "500", body["summary"].(map[string]any)["total"])
}

func TestAccountReport(t *testing.T) {
	f := newFixture(t)

	f.accounts.EXPECT().FindByUser(gomock.Any(), int64(7)).Return(ownedAccounts(), nil)
	f.transactions.EXPECT().FindByAccountID(gomock.Any(), int64(1)).Return(octoberTransactions(), nil)

	rec := f.do(t, http.MethodGet, "/api/v1/accounts/1/report?range=thisMonth&sort=highestAmount&type=all", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	totals := body["totals"].(map[string]any)
	assert.Equal(t, "100", totals["revenue"])
	assert.Equal(t, "40", totals["expense"])
	assert.Equal(t, "60", totals["balance"])

	txs := body["transactions"].([]any)
	require.Len(t, txs, 2)
	assert.Equal(t, float64(1), txs[0].(map[string]any)["id"])
}

func TestAccountReport_BadQuery(t *testing.T) {
	f := newFixture(t)

	for _, q := range []string{"range=forever", "sort=random", "type=INCOME"} {
		rec := f.do(t, http.MethodGet, "/api/v1/accounts/1/report?"+q, nil, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}

	rec := f.do(t, http.MethodGet, "/api/v1/accounts/abc/report", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAccountReport_ForeignAccount(t *testing.T) {
	f := newFixture(t)

	f.accounts.EXPECT().FindByUser(gomock.Any(), int64(7)).Return(ownedAccounts(), nil)

	rec := f.do(t, http.MethodGet, "/api/v1/accounts/3/report", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAccountReport_RemoteFailure(t *testing.T) {
	f := newFixture(t)

	f.accounts.EXPECT().FindByUser(gomock.Any(), int64(7)).Return(nil, &remote.APIError{Status: 503, Message: "Serviço indisponível"})

	rec := f.do(t, http.MethodGet, "/api/v1/accounts/1/report", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "Serviço indisponível", decode(t, rec)["message"])
}

func TestAccountReportCSV(t *testing.T) {
	f := newFixture(t)

	f.accounts.EXPECT().FindByUser(gomock.Any(), int64(7)).Return(ownedAccounts(), nil)
	f.transactions.EXPECT().FindByAccountID(gomock.Any(), int64(1)).Return(octoberTransactions(), nil)

	rec := f.do(t, http.MethodGet, "/api/v1/accounts/1/report.csv?range=thisMonth", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "20241015_Corrente_thisMonth.csv")
	assert.Contains(t, rec.Body.String(), "Mercado")
}

// failingWriter loses every body write, like a client that hung up mid-download.
type failingWriter struct {
	header   http.Header
	statuses []int
	writes   int
}

func (w *failingWriter) Header() http.Header { return w.header }

func (w *failingWriter) WriteHeader(status int) { w.statuses = append(w.statuses, status) }

func (w *failingWriter) Write([]byte) (int, error) {
	w.writes++
	return 0, errors.New("connection reset by peer")
}

func TestAccountReportCSV_WriteFailureSendsNoErrorBody(t *testing.T) {
	f := newFixture(t)

	f.accounts.EXPECT().FindByUser(gomock.Any(), int64(7)).Return(ownedAccounts(), nil)
	f.transactions.EXPECT().FindByAccountID(gomock.Any(), int64(1)).Return(octoberTransactions(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts/1/report.csv?range=thisMonth", nil)
	req.Header.Set("Authorization", "Bearer "+f.token)

	w := &failingWriter{header: http.Header{}}
	f.router.ServeHTTP(w, req)

	assert.Equal(t, []int{http.StatusOK}, w.statuses)
	assert.Equal(t, 1, w.writes)
	assert.Equal(t, "text/csv; charset=utf-8", w.header.Get("Content-Type"))
}

func TestCreateAccount(t *testing.T) {
	f := newFixture(t)

	f.accounts.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, a ledger.Account) (ledger.Account, error) {
			a.ID = 11
			return a, nil
		})

	rec := f.do(t, http.MethodPost, "/api/v1/accounts", []byte(`{"name":"Viagem","institution":"Inter","balance":"10.5"}`), "application/json")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, float64(11), decode(t, rec)["id"])
}

func TestRegisterTransaction(t *testing.T) {
	f := newFixture(t)

	f.accounts.EXPECT().FindByUser(gomock.Any(), int64(7)).Return(ownedAccounts(), nil)
	f.transactions.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, tx ledger.Transaction) (ledger.Transaction, error) {
			assert.Equal(t, ledger.TypeExpense, tx.Type)
			tx.ID = 21
			return tx, nil
		})

	rec := f.do(t, http.MethodPost, "/api/v1/transactions", []byte(`{"account_id":1,"amount":"12.50","type":"saida","description":"Café","category_id":4}`), "application/json")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, float64(21), decode(t, rec)["id"])
}

func TestRegisterTransaction_Invalid(t *testing.T) {
	f := newFixture(t)

	f.accounts.EXPECT().FindByUser(gomock.Any(), int64(7)).Return(ownedAccounts(), nil)

	rec := f.do(t, http.MethodPost, "/api/v1/transactions", []byte(`{"account_id":1,"amount":"-3","type":"INCOME"}`), "application/json")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	fields := decode(t, rec)["fields"].([]any)
	assert.Len(t, fields, 2)
}

func TestDeleteTransaction(t *testing.T) {
	f := newFixture(t)

	f.transactions.EXPECT().FindByID(gomock.Any(), int64(5)).Return(ledger.Transaction{ID: 5, AccountID: 1}, nil)
	f.accounts.EXPECT().FindByUser(gomock.Any(), int64(7)).Return(ownedAccounts(), nil)
	f.transactions.EXPECT().Delete(gomock.Any(), int64(5)).Return(nil)

	rec := f.do(t, http.MethodDelete, "/api/v1/transactions/5", nil, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestUpdateAccount(t *testing.T) {
	f := newFixture(t)

	f.accounts.EXPECT().FindByUser(gomock.Any(), int64(7)).Return(ownedAccounts(), nil)
	f.accounts.EXPECT().
		Update(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, a ledger.Account) (ledger.Account, error) {
			assert.Equal(t, int64(1), a.ID)
			assert.Equal(t, "Conta principal", a.Name)
			return a, nil
		})

	rec := f.do(t, http.MethodPut, "/api/v1/accounts/1", []byte(`{"name":"Conta principal","institution":"Nubank","balance":"500"}`), "application/json")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Conta principal", decode(t, rec)["name"])
}

func TestDeleteAccount(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		setupMock  func(f fixture)
		wantStatus int
	}{
		{
			name: "Owned",
			path: "/api/v1/accounts/1",
			setupMock: func(f fixture) {
				f.accounts.EXPECT().FindByUser(gomock.Any(), int64(7)).Return(ownedAccounts(), nil)
				f.accounts.EXPECT().Delete(gomock.Any(), int64(1)).Return(nil)
			},
			wantStatus: http.StatusNoContent,
		},
		{
			name: "Foreign",
			path: "/api/v1/accounts/3",
			setupMock: func(f fixture) {
				f.accounts.EXPECT().FindByUser(gomock.Any(), int64(7)).Return(ownedAccounts(), nil)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "BadID",
			path:       "/api/v1/accounts/abc",
			setupMock:  func(f fixture) {},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			rec := f.do(t, http.MethodDelete, tt.path, nil, "")
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestUpdateTransaction(t *testing.T) {
	f := newFixture(t)

	stored := octoberTransactions()[1]

	f.transactions.EXPECT().FindByID(gomock.Any(), int64(2)).Return(stored, nil)
	f.accounts.EXPECT().FindByUser(gomock.Any(), int64(7)).Return(ownedAccounts(), nil)
	f.transactions.EXPECT().
		Update(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, tx ledger.Transaction) (ledger.Transaction, error) {
			assert.Equal(t, int64(2), tx.ID)
			assert.Equal(t, int64(1), tx.AccountID)
			assert.Equal(t, stored.CreationDate, tx.CreationDate)
			assert.Equal(t, ledger.TypeExpense, tx.Type)
			return tx, nil
		})

	rec := f.do(t, http.MethodPut, "/api/v1/transactions/2", []byte(`{"amount":"42","type":"despesa","description":"Mercado e feira"}`), "application/json")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Mercado e feira", decode(t, rec)["description"])
}

func TestUpdateTransaction_ForeignAccount(t *testing.T) {
	f := newFixture(t)

	f.transactions.EXPECT().FindByID(gomock.Any(), int64(2)).Return(octoberTransactions()[1], nil)
	f.accounts.EXPECT().FindByUser(gomock.Any(), int64(7)).Return(ownedAccounts(), nil)

	rec := f.do(t, http.MethodPut, "/api/v1/transactions/2", []byte(`{"account_id":3,"amount":"42","type":"EXPENSE"}`), "application/json")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSignUp(t *testing.T) {
	f := newFixture(t)
	token := f.token
	f.token = ""

	f.users.EXPECT().
		Insert(gomock.Any(), ledger.User{Name: "Ana", Email: "ana@example.com", Address: "Rua A, 10"}, "segredo").
		Return(ledger.User{ID: 7, Name: "Ana", Email: "ana@example.com"}, nil)
	f.auth.EXPECT().
		Login(gomock.Any(), "ana@example.com", "segredo").
		Return(remote.LoginResult{Token: token, User: ledger.User{ID: 7, Name: "Ana", Email: "ana@example.com"}}, nil)

	rec := f.do(t, http.MethodPost, "/api/v1/users", []byte(`{"name":"Ana","email":"ana@example.com","address":"Rua A, 10","password":"segredo"}`), "application/json")
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, token, body["token"])
	assert.Equal(t, float64(7), body["user"].(map[string]any)["id"])
}

func TestSignUp_Invalid(t *testing.T) {
	f := newFixture(t)
	f.token = ""

	rec := f.do(t, http.MethodPost, "/api/v1/users", []byte(`{"name":"Ana","email":"ana","password":"123"}`), "application/json")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Len(t, decode(t, rec)["fields"], 2)
}

func TestProfile(t *testing.T) {
	f := newFixture(t)

	f.users.EXPECT().FindByID(gomock.Any(), int64(7)).Return(ledger.User{ID: 7, Name: "Ana", Email: "ana@example.com", Phone: "11999990000"}, nil)

	rec := f.do(t, http.MethodGet, "/api/v1/users/me", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "11999990000", decode(t, rec)["phone"])
}

func TestProfile_RequiresAuth(t *testing.T) {
	f := newFixture(t)
	f.token = ""

	rec := f.do(t, http.MethodPut, "/api/v1/users/me", []byte(`{"name":"Ana","email":"ana@example.com"}`), "application/json")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)

	f.users.EXPECT().
		Update(gomock.Any(), ledger.User{ID: 7, Name: "Ana Lima", Email: "ana@example.com"}, "").
		Return(ledger.User{ID: 7, Name: "Ana Lima", Email: "ana@example.com"}, nil)

	rec := f.do(t, http.MethodPut, "/api/v1/users/me", []byte(`{"name":"Ana Lima","email":"ana@example.com"}`), "application/json")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Ana Lima", decode(t, rec)["name"])
}

func TestImportStatement(t *testing.T) {
	f := newFixture(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "extrato.csv")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("Data;Histórico;Valor\n"))
	require.NoError(t, mw.Close())

	f.accounts.EXPECT().FindByUser(gomock.Any(), int64(7)).Return(ownedAccounts(), nil)
	f.parser.EXPECT().Parse(gomock.Any(), "").Return(statement.Result{Profile: "bb", Charset: "UTF-8"}, nil)
	f.transactions.EXPECT().FindByAccountID(gomock.Any(), int64(1)).Return(nil, nil)

	rec := f.do(t, http.MethodPost, "/api/v1/accounts/1/statements", buf.Bytes(), mw.FormDataContentType())
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, "bb", body["profile"])
	assert.Equal(t, float64(0), body["imported"])
}

func TestImportStatement_MissingFile(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/accounts/1/statements", []byte("x"), "text/plain")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.True(t, strings.HasPrefix(decode(t, rec)["message"].(string), "failed to parse form"))
}

func TestImportStatement_TooLarge(t *testing.T) {
	f := newFixture(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "extrato.csv")
	require.NoError(t, err)
	_, _ = fw.Write(bytes.Repeat([]byte("a"), 10<<20+1))
	require.NoError(t, mw.Close())

	rec := f.do(t, http.MethodPost, "/api/v1/accounts/1/statements", buf.Bytes(), mw.FormDataContentType())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.True(t, strings.HasPrefix(decode(t, rec)["message"].(string), "failed to parse form"))
}
