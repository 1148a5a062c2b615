package ledger

import (
	"fmt"
	"strings"
)

// Type is the closed set of transaction kinds.
type Type string

const (
	TypeRevenue  Type = "REVENUE"
	TypeExpense  Type = "EXPENSE"
	TypeTransfer Type = "TRANSFER"
)

// Types lists every valid Type in display order.
var Types = []Type{TypeRevenue, TypeExpense, TypeTransfer}

// legacyTypes maps tags still emitted by older clients and backends.
var legacyTypes = map[string]Type{
	"entrada": TypeRevenue,
	"receita": TypeRevenue,
	"saida":   TypeExpense,
	"despesa": TypeExpense,
}

// ErrUnknownType is returned by ParseType for tags outside the closed set.
type ErrUnknownType struct {
	Tag string
}

func (e *ErrUnknownType) Error() string {
	return fmt.Sprintf("unknown transaction type %q", e.Tag)
}

// ParseType normalises an incoming tag into a Type.
func ParseType(tag string) (Type, error) {
	s := strings.TrimSpace(tag)

	for _, t := range Types {
		if strings.EqualFold(s, string(t)) {
			return t, nil
		}
	}

	if t, ok := legacyTypes[strings.ToLower(s)]; ok {
		return t, nil
	}

	return "", &ErrUnknownType{Tag: tag}
}

func (t Type) Valid() bool {
	switch t {
	case TypeRevenue, TypeExpense, TypeTransfer:
		return true
	}

	return false
}

// Label is the Portuguese display name used by the dashboard.
func (t Type) Label() string {
	switch t {
	case TypeRevenue:
		return "Receita"
	case TypeExpense:
		return "Despesa"
	case TypeTransfer:
		return "Transferência"
	}

	return string(t)
}
