package statement

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	enc "github.com/MrJamesThe3rd/dindin/internal/encoding"
	"github.com/MrJamesThe3rd/dindin/internal/ledger"
)

var (
	ErrUnknownFormat  = errors.New("no matching statement format found")
	ErrUnknownProfile = errors.New("unknown statement profile")
)

// Result is a parsed statement. Transactions carry no account yet.
type Result struct {
	Profile      string
	Charset      enc.Charset
	Transactions []ledger.Transaction
}

// Parser reads bank statement exports. It detects the charset and then the
// layout by matching column headers against the known profiles.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse reads r with the named profile, or detects one when profile is empty.
func (p *Parser) Parse(r io.Reader, profile string) (Result, error) {
	candidates := profiles

	if profile != "" {
		candidates = nil

		for _, pr := range profiles {
			if pr.Name == profile {
				candidates = []Profile{pr}
				break
			}
		}

		if candidates == nil {
			return Result{}, fmt.Errorf("%w: %s", ErrUnknownProfile, profile)
		}
	}

	utf8r, charset, err := enc.NewUTF8Reader(r)
	if err != nil {
		return Result{}, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return Result{}, fmt.Errorf("read statement: %w", err)
	}

	for _, comma := range []rune{';', ','} {
		rows, err := readRows(data, comma)
		if err != nil {
			continue
		}

		prof, cols, headerIdx := detectProfile(rows, comma, candidates)
		if prof == nil {
			continue
		}

		txs, err := parseRows(prof, cols, rows[headerIdx+1:], headerIdx+1)
		if err != nil {
			return Result{}, err
		}

		return Result{Profile: prof.Name, Charset: charset, Transactions: txs}, nil
	}

	return Result{}, fmt.Errorf("%w: expected columns for %s", ErrUnknownFormat, strings.Join(names(candidates), ", "))
}

func readRows(data []byte, comma rune) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	return rows, nil
}

// colIndex maps lowercased column names to their index in the row.
type colIndex map[string]int

func (c colIndex) get(name string) int {
	if i, ok := c[strings.ToLower(name)]; ok {
		return i
	}

	return -1
}

func detectProfile(rows [][]string, comma rune, candidates []Profile) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.ToLower(strings.TrimSpace(cell))
			if name != "" {
				cols[name] = i
			}
		}

		for i := range candidates {
			if candidates[i].Comma == comma && matchesProfile(&candidates[i], cols) {
				return &candidates[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if cols.get(name) < 0 {
			return false
		}
	}

	return true
}

// parseRows turns data rows into transactions. Rows without a parseable date,
// balance lines and zero amounts are skipped.
func parseRows(p *Profile, cols colIndex, rows [][]string, headerRowNum int) ([]ledger.Transaction, error) {
	dateIdx := cols.get(p.DateCol)
	descIdx := cols.get(p.DescCol)

	txs := make([]ledger.Transaction, 0, len(rows))

	for i, row := range rows {
		rowNum := headerRowNum + i + 1

		date, ok := parseDate(row, dateIdx, p.DateLayout)
		if !ok {
			continue
		}

		desc := cellValue(row, descIdx)
		if desc == "" {
			return nil, fmt.Errorf("row %d: missing description", rowNum)
		}

		if p.skipped(desc) {
			continue
		}

		amount, txType, ok := rowAmount(p, cols, row)
		if !ok {
			continue
		}

		txs = append(txs, ledger.Transaction{
			Description:  desc,
			Amount:       amount,
			Type:         txType,
			CreationDate: date,
		})
	}

	return txs, nil
}

func parseDate(row []string, idx int, layout string) (time.Time, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return time.Time{}, false
	}

	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}

func rowAmount(p *Profile, cols colIndex, row []string) (decimal.Decimal, ledger.Type, bool) {
	switch p.AmountMode {
	case amountSingle:
		amount, typ, ok := signedAmount(cellValue(row, cols.get(p.AmountCol)), p.Decimal)
		if ok && p.Inverted {
			typ = opposite(typ)
		}

		return amount, typ, ok
	case amountSplit:
		if amount, ok := unsignedAmount(cellValue(row, cols.get(p.DebitCol)), p.Decimal); ok {
			return amount, ledger.TypeExpense, true
		}

		if amount, ok := unsignedAmount(cellValue(row, cols.get(p.CreditCol)), p.Decimal); ok {
			return amount, ledger.TypeRevenue, true
		}
	}

	return decimal.Zero, "", false
}

// signedAmount reads a signed value where negative means money out.
func signedAmount(s string, style decimalStyle) (decimal.Decimal, ledger.Type, bool) {
	if s == "" {
		return decimal.Zero, "", false
	}

	d, err := parseAmount(s, style)
	if err != nil || d.IsZero() {
		return decimal.Zero, "", false
	}

	if d.IsNegative() {
		return d.Abs(), ledger.TypeExpense, true
	}

	return d, ledger.TypeRevenue, true
}

func unsignedAmount(s string, style decimalStyle) (decimal.Decimal, bool) {
	if s == "" {
		return decimal.Zero, false
	}

	d, err := parseAmount(s, style)
	if err != nil || d.IsZero() {
		return decimal.Zero, false
	}

	return d.Abs(), true
}

func opposite(t ledger.Type) ledger.Type {
	if t == ledger.TypeExpense {
		return ledger.TypeRevenue
	}

	return ledger.TypeExpense
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

func names(ps []Profile) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Name)
	}

	return out
}
