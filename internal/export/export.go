package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/dindin/internal/ledger"
	"github.com/MrJamesThe3rd/dindin/internal/report"
)

var csvHeader = []string{"Data", "Descrição", "Categoria", "Tipo", "Valor", "Saldo após", "Responsável"}

// WriteCSV writes the listed transactions of vm in the semicolon layout
// Brazilian spreadsheets open directly. Expenses are written negative.
func WriteCSV(w io.Writer, vm report.ViewModel) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, tx := range vm.Transactions {
		date := ""
		if tx.Dated() {
			date = tx.CreationDate.Format("02/01/2006")
		}

		after := ""
		if tx.BalanceAfter != nil {
			after = Number(*tx.BalanceAfter)
		}

		amount := tx.Amount
		if tx.Type == ledger.TypeExpense {
			amount = amount.Neg()
		}

		record := []string{date, tx.Description, tx.CategoryName(), tx.Type.Label(), Number(amount), after, tx.Responsible}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing transaction %d: %w", tx.ID, err)
		}
	}

	cw.Flush()

	return cw.Error()
}

// Summary renders vm as plain text, one line per transaction after the totals.
func Summary(account ledger.Account, vm report.ViewModel) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s (%s)\n", account.Name, account.Institution)
	fmt.Fprintf(&sb, "Período: %s | Tipo: %s | Ordem: %s\n", vm.Criteria.Range, typeLabel(vm.Criteria.Type), vm.Order)

	if q := strings.TrimSpace(vm.Criteria.Query); q != "" {
		fmt.Fprintf(&sb, "Busca: %q\n", q)
	}

	fmt.Fprintf(&sb, "Receitas: %s (%s%% vs mês anterior)\n", Money(vm.Totals.Revenue), vm.Growth.Revenue.StringFixed(1))
	fmt.Fprintf(&sb, "Despesas: %s (%s%% vs mês anterior)\n", Money(vm.Totals.Expense), vm.Growth.Expense.StringFixed(1))
	fmt.Fprintf(&sb, "Saldo: %s\n", Money(vm.Totals.Balance))
	fmt.Fprintf(&sb, "%s (%s%%)\n", vm.Indicators.Savings.Title, vm.Indicators.Savings.Percent.StringFixed(0))
	fmt.Fprintf(&sb, "%s (%s%%)\n\n", vm.Indicators.ExpenseAlert.Title, vm.Indicators.ExpenseAlert.Percent.StringFixed(0))

	for _, tx := range vm.Transactions {
		date := "sem data"
		if tx.Dated() {
			date = tx.CreationDate.Format("02/01/2006")
		}

		sign := ""
		switch tx.Type {
		case ledger.TypeRevenue:
			sign = "+"
		case ledger.TypeExpense:
			sign = "-"
		}

		category := tx.CategoryName()
		if category == "" {
			category = "Sem categoria"
		}

		fmt.Fprintf(&sb, "* %s | %s | %s%s | %s\n", date, tx.Description, sign, Money(tx.Amount), category)
	}

	return sb.String()
}

func typeLabel(t ledger.Type) string {
	if t == "" || t == report.AllTypes {
		return "Todos"
	}

	return t.Label()
}

// Files are the paths written by WriteFiles.
type Files struct {
	CSV     string
	Summary string
}

// WriteFiles writes the CSV and text summary of vm into dir.
func WriteFiles(dir string, account ledger.Account, vm report.ViewModel) (Files, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Files{}, fmt.Errorf("creating output directory: %w", err)
	}

	base := Filename(account, vm)
	files := Files{
		CSV:     filepath.Join(dir, base+".csv"),
		Summary: filepath.Join(dir, base+".txt"),
	}

	f, err := os.Create(files.CSV)
	if err != nil {
		return Files{}, fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	if err := WriteCSV(f, vm); err != nil {
		return Files{}, err
	}

	if err := os.WriteFile(files.Summary, []byte(Summary(account, vm)), 0o644); err != nil {
		return Files{}, fmt.Errorf("writing summary: %w", err)
	}

	return files, nil
}

// Filename is YYYYMMDD_Account_range, safe for any filesystem.
func Filename(account ledger.Account, vm report.ViewModel) string {
	safe := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}

		return '_'
	}, account.Name)

	rng := vm.Criteria.Range
	if rng == "" {
		rng = report.RangeAll
	}

	return fmt.Sprintf("%s_%s_%s", vm.GeneratedAt.Format("20060102"), safe, rng)
}

// Number formats d as "-1.234,56".
func Number(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")

	var sb strings.Builder
	if d.IsNegative() {
		sb.WriteByte('-')
	}

	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			sb.WriteByte('.')
		}

		sb.WriteRune(r)
	}

	sb.WriteByte(',')
	sb.WriteString(frac)

	return sb.String()
}

// Money formats d as "R$ 1.234,56".
func Money(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-R$ " + Number(d.Abs())
	}

	return "R$ " + Number(d)
}
