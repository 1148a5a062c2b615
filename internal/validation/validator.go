package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/dindin/internal/ledger"
)

// FieldError is a single field-level validation message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is the list of field-level messages for one rejected value.
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Field + ": " + fe.Message
	}

	return "validation failed: " + strings.Join(msgs, ", ")
}

// Validator wraps go-playground/validator with the ledger rules registered.
type Validator struct {
	validate *validator.Validate
}

var defaultValidator = New()

// Struct validates v with the package default validator.
func Struct(v any) error {
	return defaultValidator.Struct(v)
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Decimals are validated through their string form.
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})

	_ = v.RegisterValidation("amount", validateAmount)
	_ = v.RegisterValidation("transaction_type", validateTransactionType)

	return &Validator{validate: v}
}

// Struct validates v and returns Errors when any rule fails.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating: %w", err)
	}

	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   fieldPath(fe.Namespace()),
			Message: message(fe),
		})
	}

	return out
}

func decimalValue(field reflect.Value) any {
	d, ok := field.Interface().(decimal.Decimal)
	if !ok {
		return nil
	}

	return d.String()
}

// validateAmount accepts non-negative decimal magnitudes.
func validateAmount(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}

	return !d.IsNegative()
}

func validateTransactionType(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}

	return ledger.Type(fl.Field().String()).Valid()
}

// fieldPath drops the root struct name: "Account.Transactions[0].Amount" -> "transactions[0].amount".
func fieldPath(namespace string) string {
	_, rest, found := strings.Cut(namespace, ".")
	if !found {
		rest = namespace
	}

	parts := strings.Split(rest, ".")
	for i, p := range parts {
		parts[i] = lowerFirst(p)
	}

	return strings.Join(parts, ".")
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}

	return strings.ToLower(s[:1]) + s[1:]
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_without":
		return "is required"
	case "amount":
		return "must be a non-negative amount"
	case "transaction_type":
		return fmt.Sprintf("must be one of %s, %s or %s", ledger.TypeRevenue, ledger.TypeExpense, ledger.TypeTransfer)
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	}

	return fmt.Sprintf("failed %q rule", fe.Tag())
}
