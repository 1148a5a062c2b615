package statement

import "strings"

// amountMode determines how amounts are extracted from a row.
type amountMode int

const (
	// amountSingle means one signed column ("Valor" with "-10,00").
	amountSingle amountMode = iota
	// amountSplit means separate credit and debit columns.
	amountSplit
)

// decimalStyle is how a profile writes numbers.
type decimalStyle int

const (
	// decimalComma is "1.234,56".
	decimalComma decimalStyle = iota
	// decimalPoint is "1234.56".
	decimalPoint
)

// Profile describes the column layout of one bank export format.
type Profile struct {
	Name       string
	Comma      rune
	DateLayout string
	Decimal    decimalStyle
	DateCol    string
	DescCol    string
	AmountMode amountMode
	AmountCol  string // amountSingle
	DebitCol   string // amountSplit
	CreditCol  string // amountSplit
	// Inverted marks card statements where a positive amount is a purchase.
	Inverted bool
	// SkipPrefixes are descriptions of balance lines mixed into the movements.
	SkipPrefixes []string
}

func (p Profile) skipped(desc string) bool {
	d := strings.ToLower(desc)
	for _, prefix := range p.SkipPrefixes {
		if strings.HasPrefix(d, prefix) {
			return true
		}
	}

	return false
}

func (p Profile) requiredCols() []string {
	cols := []string{p.DateCol, p.DescCol}

	switch p.AmountMode {
	case amountSingle:
		cols = append(cols, p.AmountCol)
	case amountSplit:
		cols = append(cols, p.DebitCol, p.CreditCol)
	}

	return cols
}

// profiles is tried in order during detection. More specific layouts come first.
var profiles = []Profile{
	{
		Name:       "bradesco",
		Comma:      ';',
		DateLayout: "02/01/2006",
		Decimal:    decimalComma,
		DateCol:    "Data",
		DescCol:    "Histórico",
		AmountMode: amountSplit,
		CreditCol:  "Crédito (R$)",
		DebitCol:   "Débito (R$)",
	},
	{
		Name:         "itau",
		Comma:        ';',
		DateLayout:   "02/01/2006",
		Decimal:      decimalComma,
		DateCol:      "data",
		DescCol:      "lançamento",
		AmountMode:   amountSingle,
		AmountCol:    "valor (R$)",
		SkipPrefixes: []string{"saldo anterior", "saldo total", "saldo do dia"},
	},
	{
		Name:         "bb",
		Comma:        ';',
		DateLayout:   "02/01/2006",
		Decimal:      decimalComma,
		DateCol:      "Data",
		DescCol:      "Histórico",
		AmountMode:   amountSingle,
		AmountCol:    "Valor",
		SkipPrefixes: []string{"saldo anterior", "s a l d o", "saldo do dia"},
	},
	{
		Name:       "nubank-conta",
		Comma:      ',',
		DateLayout: "02/01/2006",
		Decimal:    decimalPoint,
		DateCol:    "Data",
		DescCol:    "Descrição",
		AmountMode: amountSingle,
		AmountCol:  "Valor",
	},
	{
		Name:       "nubank-cartao",
		Comma:      ',',
		DateLayout: "2006-01-02",
		Decimal:    decimalPoint,
		DateCol:    "date",
		DescCol:    "title",
		AmountMode: amountSingle,
		AmountCol:  "amount",
		Inverted:   true,
	},
}

// Profiles lists the names of the supported formats in detection order.
func Profiles() []string {
	return names(profiles)
}
