package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/dindin/internal/ledger"
	"github.com/MrJamesThe3rd/dindin/internal/remote"
	"github.com/MrJamesThe3rd/dindin/internal/report"
	"github.com/MrJamesThe3rd/dindin/internal/session"
	"github.com/MrJamesThe3rd/dindin/internal/statement"
	"github.com/MrJamesThe3rd/dindin/internal/validation"
)

// ErrAccountNotFound is returned when an account is not among the caller's accounts.
var ErrAccountNotFound = fmt.Errorf("account %w", ledger.ErrNotFound)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=dashboard
type AccountSource interface {
	FindByUser(ctx context.Context, userID int64) ([]ledger.Account, error)
	Insert(ctx context.Context, account ledger.Account) (ledger.Account, error)
	Update(ctx context.Context, account ledger.Account) (ledger.Account, error)
	Delete(ctx context.Context, id int64) error
}

type TransactionSource interface {
	FindByAccountID(ctx context.Context, accountID int64) ([]ledger.Transaction, error)
	FindByID(ctx context.Context, id int64) (ledger.Transaction, error)
	Insert(ctx context.Context, tx ledger.Transaction) (ledger.Transaction, error)
	Update(ctx context.Context, tx ledger.Transaction) (ledger.Transaction, error)
	Delete(ctx context.Context, id int64) error
}

// UserSource stores profiles. An empty password leaves the stored one unchanged.
type UserSource interface {
	FindByID(ctx context.Context, id int64) (ledger.User, error)
	Insert(ctx context.Context, user ledger.User, password string) (ledger.User, error)
	Update(ctx context.Context, user ledger.User, password string) (ledger.User, error)
}

type Authenticator interface {
	Login(ctx context.Context, email, password string) (remote.LoginResult, error)
}

type StatementParser interface {
	Parse(r io.Reader, profile string) (statement.Result, error)
}

// Service serves the dashboard pages. Every call is scoped to the session it is given.
type Service struct {
	accounts     AccountSource
	transactions TransactionSource
	users        UserSource
	auth         Authenticator
	parser       StatementParser
	now          func() time.Time
}

type Option func(*Service)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(accounts AccountSource, transactions TransactionSource, users UserSource, auth Authenticator, parser StatementParser, opts ...Option) *Service {
	s := &Service{
		accounts:     accounts,
		transactions: transactions,
		users:        users,
		auth:         auth,
		parser:       parser,
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// NewRemoteService wires the service to the REST API client.
func NewRemoteService(c *remote.Client, opts ...Option) *Service {
	return NewService(c.Accounts, c.Transactions, c.Users, c.Auth, statement.NewParser(), opts...)
}

type Credentials struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

// Login checks credentials with the API and returns the new session.
func (s *Service) Login(ctx context.Context, creds Credentials) (session.Session, error) {
	if err := validation.Struct(creds); err != nil {
		return session.Session{}, err
	}

	res, err := s.auth.Login(ctx, creds.Email, creds.Password)
	if err != nil {
		return session.Session{}, err
	}

	sess, err := session.New(res.Token, res.User)
	if err != nil {
		return session.Session{}, fmt.Errorf("starting session: %w", err)
	}

	return sess, nil
}

type NewUser struct {
	Name     string `validate:"required,min=2"`
	Email    string `validate:"required,email"`
	Phone    string `validate:"omitempty,min=10"`
	Address  string `validate:"omitempty,min=5"`
	Password string `validate:"required,min=6"`
}

// SignUp registers a user and logs them in.
func (s *Service) SignUp(ctx context.Context, in NewUser) (session.Session, error) {
	if err := validation.Struct(in); err != nil {
		return session.Session{}, err
	}

	user := ledger.User{Name: in.Name, Email: in.Email, Phone: in.Phone, Address: in.Address}
	if _, err := s.users.Insert(ctx, user, in.Password); err != nil {
		return session.Session{}, fmt.Errorf("creating user: %w", err)
	}

	return s.Login(ctx, Credentials{Email: in.Email, Password: in.Password})
}

// Profile fetches the session user's stored profile.
func (s *Service) Profile(ctx context.Context, sess session.Session) (ledger.User, error) {
	ctx, err := s.authorize(ctx, sess)
	if err != nil {
		return ledger.User{}, err
	}

	user, err := s.users.FindByID(ctx, sess.User.ID)
	if err != nil {
		return ledger.User{}, fmt.Errorf("fetching profile: %w", err)
	}

	return user, nil
}

type ProfileUpdate struct {
	Name    string `validate:"required,min=2"`
	Email   string `validate:"required,email"`
	Phone   string `validate:"omitempty,min=10"`
	Address string `validate:"omitempty,min=5"`
	// Password is left unchanged when empty.
	Password string `validate:"omitempty,min=6"`
}

// UpdateProfile saves the session user's profile and returns the session
// carrying the updated user. The token is kept.
func (s *Service) UpdateProfile(ctx context.Context, sess session.Session, in ProfileUpdate) (session.Session, error) {
	ctx, err := s.authorize(ctx, sess)
	if err != nil {
		return session.Session{}, err
	}

	if err := validation.Struct(in); err != nil {
		return session.Session{}, err
	}

	user := ledger.User{
		ID:      sess.User.ID,
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Address: in.Address,
	}

	updated, err := s.users.Update(ctx, user, in.Password)
	if err != nil {
		return session.Session{}, fmt.Errorf("updating profile: %w", err)
	}

	// Some API versions answer with an empty body.
	if updated.ID == 0 {
		updated = user
	}

	sess.User = updated

	return sess, nil
}

// authorize checks the session and attaches it to ctx for the remote calls.
func (s *Service) authorize(ctx context.Context, sess session.Session) (context.Context, error) {
	if err := sess.Valid(s.now()); err != nil {
		return nil, err
	}

	return session.NewContext(ctx, sess), nil
}

// userAccounts fetches the accounts of the session user.
func (s *Service) userAccounts(ctx context.Context, sess session.Session) ([]ledger.Account, error) {
	accounts, err := s.accounts.FindByUser(ctx, sess.User.ID)
	if err != nil {
		return nil, fmt.Errorf("fetching accounts: %w", err)
	}

	return report.ScopeAccounts(accounts, sess.User.ID), nil
}

func (s *Service) ownedAccount(ctx context.Context, sess session.Session, accountID int64) (ledger.Account, error) {
	accounts, err := s.userAccounts(ctx, sess)
	if err != nil {
		return ledger.Account{}, err
	}

	account, ok := report.FindAccount(accounts, accountID)
	if !ok {
		return ledger.Account{}, ErrAccountNotFound
	}

	return account, nil
}

// AccountsView is the accounts page: the matching accounts and their totals.
type AccountsView struct {
	Accounts []ledger.Account
	Summary  report.AccountSummary
}

// Accounts lists the session user's accounts whose name or institution matches query.
func (s *Service) Accounts(ctx context.Context, sess session.Session, query string) (AccountsView, error) {
	ctx, err := s.authorize(ctx, sess)
	if err != nil {
		return AccountsView{}, err
	}

	accounts, err := s.userAccounts(ctx, sess)
	if err != nil {
		return AccountsView{}, err
	}

	matched := report.SearchAccounts(accounts, query)

	return AccountsView{
		Accounts: matched,
		Summary:  report.SummarizeAccounts(matched),
	}, nil
}

// ReportQuery is the caller's view state for an account report.
type ReportQuery struct {
	Criteria report.Criteria
	Order    report.SortOrder
}

type AccountReport struct {
	Account ledger.Account
	View    report.ViewModel
}

// AccountReport fetches one account's transactions and runs the report pipeline.
// Invalid records reject the whole report.
func (s *Service) AccountReport(ctx context.Context, sess session.Session, accountID int64, q ReportQuery) (AccountReport, error) {
	ctx, err := s.authorize(ctx, sess)
	if err != nil {
		return AccountReport{}, err
	}

	account, err := s.ownedAccount(ctx, sess, accountID)
	if err != nil {
		return AccountReport{}, err
	}

	txs, err := s.transactions.FindByAccountID(ctx, accountID)
	if err != nil {
		return AccountReport{}, fmt.Errorf("fetching transactions: %w", err)
	}

	for _, tx := range txs {
		if err := validation.Struct(tx); err != nil {
			return AccountReport{}, fmt.Errorf("transaction %d: %w", tx.ID, err)
		}
	}

	account.Transactions = txs

	return AccountReport{
		Account: account,
		View: report.Build(report.Input{
			Transactions: txs,
			Criteria:     q.Criteria,
			Order:        q.Order,
			Now:          s.now(),
		}),
	}, nil
}

type NewAccount struct {
	Name        string
	Institution string
	Balance     decimal.Decimal
}

// CreateAccount opens an account owned by the session user.
func (s *Service) CreateAccount(ctx context.Context, sess session.Session, in NewAccount) (ledger.Account, error) {
	ctx, err := s.authorize(ctx, sess)
	if err != nil {
		return ledger.Account{}, err
	}

	account := ledger.Account{
		Name:        in.Name,
		Institution: in.Institution,
		Balance:     in.Balance,
		OwnerID:     sess.User.ID,
	}

	if err := validation.Struct(account); err != nil {
		return ledger.Account{}, err
	}

	created, err := s.accounts.Insert(ctx, account)
	if err != nil {
		return ledger.Account{}, fmt.Errorf("creating account: %w", err)
	}

	return created, nil
}

// UpdateAccount renames an account of the session user or changes its institution or balance.
func (s *Service) UpdateAccount(ctx context.Context, sess session.Session, id int64, in NewAccount) (ledger.Account, error) {
	ctx, err := s.authorize(ctx, sess)
	if err != nil {
		return ledger.Account{}, err
	}

	if _, err := s.ownedAccount(ctx, sess, id); err != nil {
		return ledger.Account{}, err
	}

	account := ledger.Account{
		ID:          id,
		Name:        in.Name,
		Institution: in.Institution,
		Balance:     in.Balance,
		OwnerID:     sess.User.ID,
	}

	if err := validation.Struct(account); err != nil {
		return ledger.Account{}, err
	}

	updated, err := s.accounts.Update(ctx, account)
	if err != nil {
		return ledger.Account{}, fmt.Errorf("updating account %d: %w", id, err)
	}

	return updated, nil
}

// DeleteAccount removes one of the session user's accounts.
func (s *Service) DeleteAccount(ctx context.Context, sess session.Session, id int64) error {
	ctx, err := s.authorize(ctx, sess)
	if err != nil {
		return err
	}

	if _, err := s.ownedAccount(ctx, sess, id); err != nil {
		return err
	}

	if err := s.accounts.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting account %d: %w", id, err)
	}

	return nil
}

// RegisterTransaction records tx on one of the session user's accounts.
// An undated transaction is stamped with the current time.
func (s *Service) RegisterTransaction(ctx context.Context, sess session.Session, tx ledger.Transaction) (ledger.Transaction, error) {
	ctx, err := s.authorize(ctx, sess)
	if err != nil {
		return ledger.Transaction{}, err
	}

	if _, err := s.ownedAccount(ctx, sess, tx.AccountID); err != nil {
		return ledger.Transaction{}, err
	}

	if !tx.Dated() {
		tx.CreationDate = s.now()
	}

	if tx.Responsible == "" {
		tx.Responsible = sess.User.Name
	}

	if err := validation.Struct(tx); err != nil {
		return ledger.Transaction{}, err
	}

	created, err := s.transactions.Insert(ctx, tx)
	if err != nil {
		return ledger.Transaction{}, fmt.Errorf("registering transaction: %w", err)
	}

	return created, nil
}

// UpdateTransaction replaces a transaction on one of the user's accounts.
// Both the current and the target account must belong to the user. An undated
// edit keeps the stored date and a zero AccountID keeps the stored account.
func (s *Service) UpdateTransaction(ctx context.Context, sess session.Session, tx ledger.Transaction) (ledger.Transaction, error) {
	ctx, err := s.authorize(ctx, sess)
	if err != nil {
		return ledger.Transaction{}, err
	}

	current, err := s.transactions.FindByID(ctx, tx.ID)
	if err != nil {
		return ledger.Transaction{}, fmt.Errorf("fetching transaction %d: %w", tx.ID, err)
	}

	if tx.AccountID == 0 {
		tx.AccountID = current.AccountID
	}

	accounts, err := s.userAccounts(ctx, sess)
	if err != nil {
		return ledger.Transaction{}, err
	}

	for _, id := range []int64{current.AccountID, tx.AccountID} {
		if _, ok := report.FindAccount(accounts, id); !ok {
			return ledger.Transaction{}, ErrAccountNotFound
		}
	}

	if !tx.Dated() {
		tx.CreationDate = current.CreationDate
	}

	if tx.Responsible == "" {
		tx.Responsible = current.Responsible
	}

	if err := validation.Struct(tx); err != nil {
		return ledger.Transaction{}, err
	}

	updated, err := s.transactions.Update(ctx, tx)
	if err != nil {
		return ledger.Transaction{}, fmt.Errorf("updating transaction %d: %w", tx.ID, err)
	}

	return updated, nil
}

// DeleteTransaction removes a transaction that belongs to one of the user's accounts.
func (s *Service) DeleteTransaction(ctx context.Context, sess session.Session, id int64) error {
	ctx, err := s.authorize(ctx, sess)
	if err != nil {
		return err
	}

	tx, err := s.transactions.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("fetching transaction %d: %w", id, err)
	}

	if _, err := s.ownedAccount(ctx, sess, tx.AccountID); err != nil {
		return err
	}

	if err := s.transactions.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting transaction %d: %w", id, err)
	}

	return nil
}

type ImportResult struct {
	Profile  string
	Charset  string
	Imported []ledger.Transaction
	// Skipped counts rows already present on the account.
	Skipped int
}

// ImportStatement registers every movement of a bank statement on an account.
// Rows matching an existing transaction by day, amount, type and description are skipped.
// On a failed insert the rows imported so far are returned with the error.
func (s *Service) ImportStatement(ctx context.Context, sess session.Session, accountID int64, r io.Reader, profile string) (ImportResult, error) {
	ctx, err := s.authorize(ctx, sess)
	if err != nil {
		return ImportResult{}, err
	}

	if _, err := s.ownedAccount(ctx, sess, accountID); err != nil {
		return ImportResult{}, err
	}

	parsed, err := s.parser.Parse(r, profile)
	if err != nil {
		return ImportResult{}, fmt.Errorf("parsing statement: %w", err)
	}

	existing, err := s.transactions.FindByAccountID(ctx, accountID)
	if err != nil {
		return ImportResult{}, fmt.Errorf("fetching transactions: %w", err)
	}

	seen := make(map[string]struct{}, len(existing))
	for _, tx := range existing {
		seen[dedupKey(tx)] = struct{}{}
	}

	res := ImportResult{Profile: parsed.Profile, Charset: string(parsed.Charset)}

	var pending []ledger.Transaction

	for i, tx := range parsed.Transactions {
		tx.AccountID = accountID
		tx.Responsible = sess.User.Name

		key := dedupKey(tx)
		if _, dup := seen[key]; dup {
			res.Skipped++
			continue
		}

		seen[key] = struct{}{}

		if err := validation.Struct(tx); err != nil {
			return res, fmt.Errorf("statement row %d: %w", i+1, err)
		}

		pending = append(pending, tx)
	}

	for _, tx := range pending {
		created, err := s.transactions.Insert(ctx, tx)
		if err != nil {
			return res, fmt.Errorf("importing %q: %w", tx.Description, err)
		}

		res.Imported = append(res.Imported, created)
	}

	return res, nil
}

func dedupKey(tx ledger.Transaction) string {
	return fmt.Sprintf("%s|%s|%s|%s", tx.CreationDate.Format(time.DateOnly), tx.Amount.String(), tx.Type, tx.Description)
}

// IsUnauthorized reports whether err means the caller must log in again.
func IsUnauthorized(err error) bool {
	return errors.Is(err, session.ErrNoSession) ||
		errors.Is(err, session.ErrExpired) ||
		remote.IsStatus(err, http.StatusUnauthorized)
}
