package view

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/dindin/internal/dashboard"
	"github.com/MrJamesThe3rd/dindin/internal/ledger"
	"github.com/MrJamesThe3rd/dindin/internal/report"
	"github.com/MrJamesThe3rd/dindin/internal/session"
)

const chartWidth = 30

// typeFilters is the cycle behind the t key.
var typeFilters = []ledger.Type{report.AllTypes, ledger.TypeRevenue, ledger.TypeExpense, ledger.TypeTransfer}

type reportState int

const (
	reportStateBrowse reportState = iota
	reportStateSearch
	reportStateExport
	reportStateEdit
	reportStateConfirm
)

// inflight holds the cancel func of the fetch in progress.
type inflight struct {
	seq    int
	cancel context.CancelFunc
}

func (f *inflight) start() (context.Context, int) {
	f.stop()

	ctx, cancel := APICtx()
	f.seq++
	f.cancel = cancel

	return ctx, f.seq
}

func (f *inflight) stop() {
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
}

type ReportModel struct {
	CommonModel

	account  ledger.Account
	criteria report.Criteria
	order    report.SortOrder

	state  reportState
	table  table.Model
	search textinput.Model
	export ExportModel
	fetch  *inflight

	form    *huh.Form
	fields  *transactionFields
	confirm *bool
	// target is the transaction the edit form or the delete confirmation acts on.
	target ledger.Transaction

	rep     dashboard.AccountReport
	loaded  bool
	loading bool
	err     error
	status  string
}

func NewReportModel(svc *dashboard.Service, sess session.Session, account ledger.Account) ReportModel {
	columns := []table.Column{
		{Title: "Data", Width: 10},
		{Title: "Descrição", Width: 30},
		{Title: "Categoria", Width: 14},
		{Title: "Tipo", Width: 13},
		{Title: "Valor", Width: 14},
		{Title: "Responsável", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	si := textinput.New()
	si.Placeholder = "descrição ou categoria"
	si.Prompt = "/ "
	si.Width = 40

	return ReportModel{
		CommonModel: newCommon(svc, sess),
		account:     account,
		criteria:    report.Criteria{Type: report.AllTypes, Range: report.RangeAll},
		order:       report.SortNewest,
		table:       t,
		search:      si,
		fetch:       &inflight{},
		fields:      &transactionFields{},
		confirm:     new(false),
		loading:     true,
	}
}

func (m ReportModel) Title() string { return "Relatório: " + m.account.Name }

func (m ReportModel) ShortHelp() string {
	switch m.state {
	case reportStateSearch:
		return "Enter: apply | Esc: cancel"
	case reportStateExport:
		return "Esc: close"
	case reportStateEdit, reportStateConfirm:
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | t: type | d: range | o: sort | /: search | x: export | e: edit | D: delete | r: refresh"
}

func (m ReportModel) Init() tea.Cmd {
	return m.loadCmd()
}

// Close cancels any fetch still in flight.
func (m ReportModel) Close() {
	m.fetch.stop()
}

func (m ReportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadReportMsg:
		if msg.seq != m.fetch.seq {
			return m, nil
		}

		m.fetch.stop()
		m.loading = false

		if msg.err != nil {
			if cmd, ok := unauthorized(msg.err); ok {
				return m, cmd
			}

			m.err = msg.err

			return m, nil
		}

		m.err = nil
		m.rep = msg.rep
		m.account = msg.rep.Account
		m.loaded = true
		m.refreshTable()

		return m, nil

	case deleteResultMsg:
		m.closeForm()

		if msg.err != nil {
			if cmd, ok := unauthorized(msg.err); ok {
				return m, cmd
			}

			m.status = fmt.Sprintf("Error deleting: %v", msg.err)

			return m, nil
		}

		m.status = "Transação excluída."

		return m, m.loadCmd()

	case updateResultMsg:
		m.closeForm()

		if msg.err != nil {
			if cmd, ok := unauthorized(msg.err); ok {
				return m, cmd
			}

			m.status = fmt.Sprintf("Error saving: %v", msg.err)

			return m, nil
		}

		m.status = "Transação atualizada."

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(max(msg.Height-22, 5))

		return m, nil
	}

	switch m.state {
	case reportStateSearch:
		return m.updateSearch(msg)
	case reportStateExport:
		return m.updateExport(msg)
	case reportStateEdit:
		return m.updateEdit(msg)
	case reportStateConfirm:
		return m.updateConfirm(msg)
	}

	return m.updateBrowse(msg)
}

func (m ReportModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)

		return m, cmd
	}

	switch keyMsg.String() {
	case "esc":
		m.Close()
		return m, Back
	case "r":
		m.loading = true
		m.status = ""

		return m, m.loadCmd()
	case "t":
		m.criteria.Type = next(typeFilters, m.criteria.Type)
		m.rebuild()

		return m, nil
	case "d":
		m.criteria.Range = next(report.DateRanges, m.criteria.Range)
		m.rebuild()

		return m, nil
	case "o":
		m.order = next(report.SortOrders, m.order)
		m.rebuild()

		return m, nil
	case "/":
		m.state = reportStateSearch
		m.table.Blur()

		return m, m.search.Focus()
	case "x":
		if !m.loaded {
			return m, nil
		}

		m.state = reportStateExport
		m.export = NewExportModel(m.rep.Account, m.rep.View)

		return m, m.export.Init()
	case "e":
		if tx, ok := m.selected(); ok {
			return m.enterEdit(tx)
		}

		return m, nil
	case "D":
		if tx, ok := m.selected(); ok {
			return m.enterConfirm(tx)
		}

		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ReportModel) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEsc:
			m.search.SetValue(m.criteria.Query)
			m.state = reportStateBrowse
			m.search.Blur()
			m.table.Focus()

			return m, nil
		case tea.KeyEnter:
			m.criteria.Query = strings.TrimSpace(m.search.Value())
			m.state = reportStateBrowse
			m.search.Blur()
			m.table.Focus()
			m.rebuild()

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)

	return m, cmd
}

func (m ReportModel) updateExport(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.export, cmd = m.export.Update(msg)

	if m.export.Closed() {
		m.state = reportStateBrowse
		m.table.Focus()
	}

	return m, cmd
}

func (m ReportModel) selected() (ledger.Transaction, bool) {
	idx := m.table.Cursor()
	txs := m.rep.View.Transactions

	if idx < 0 || idx >= len(txs) {
		return ledger.Transaction{}, false
	}

	return txs[idx], true
}

func (m *ReportModel) closeForm() {
	m.state = reportStateBrowse
	m.form = nil
	m.table.Focus()
}

func (m ReportModel) enterEdit(tx ledger.Transaction) (tea.Model, tea.Cmd) {
	m.target = tx
	*m.fields = fieldsFrom(tx)
	m.form = transactionForm(m.fields)
	m.state = reportStateEdit
	m.table.Blur()

	return m, m.form.Init()
}

func (m ReportModel) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.closeForm()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	tx, err := m.fields.toLedger(m.target.AccountID)
	if err != nil {
		m.closeForm()
		m.status = fmt.Sprintf("Error saving: %v", err)

		return m, nil
	}

	tx.ID = m.target.ID

	// An unchanged day keeps the stored time of day.
	if tx.Dated() && m.target.Dated() &&
		tx.CreationDate.Format(time.DateOnly) == m.target.CreationDate.In(time.Local).Format(time.DateOnly) {
		tx.CreationDate = m.target.CreationDate
	}

	return m, m.updateCmd(tx)
}

func (m ReportModel) enterConfirm(tx ledger.Transaction) (tea.Model, tea.Cmd) {
	m.target = tx
	m.form = confirmForm(fmt.Sprintf("Excluir %q de %s?", tx.Description, FormatMoney(tx.Signed())), m.confirm)
	m.state = reportStateConfirm
	m.table.Blur()

	return m, m.form.Init()
}

func (m ReportModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.closeForm()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if !*m.confirm {
		m.closeForm()
		m.status = "Exclusão cancelada."

		return m, nil
	}

	return m, m.deleteCmd(m.target.ID)
}

// rebuild reruns the pipeline over the fetched transactions with the current criteria.
func (m *ReportModel) rebuild() {
	if !m.loaded {
		return
	}

	m.rep.View = report.Build(report.Input{
		Transactions: m.rep.Account.Transactions,
		Criteria:     m.criteria,
		Order:        m.order,
		Now:          time.Now(),
	})
	m.refreshTable()
}

func (m *ReportModel) refreshTable() {
	txs := m.rep.View.Transactions

	rows := make([]table.Row, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, table.Row{
			FormatDate(tx.CreationDate),
			tx.Description,
			tx.CategoryName(),
			tx.Type.Label(),
			FormatMoney(tx.Signed()),
			tx.Responsible,
		})
	}

	m.table.SetRows(rows)

	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

func (m ReportModel) View() string {
	if m.loading && !m.loaded {
		return lipgloss.NewStyle().Padding(2).Render("Carregando relatório...")
	}

	if m.err != nil && !m.loaded {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n(Esc to back, r to retry)")
	}

	vm := m.rep.View

	title := lipgloss.NewStyle().Bold(true).Render(
		fmt.Sprintf("%s · %s · %s", m.account.Name, m.account.Institution, FormatMoney(m.account.Balance)),
	)

	filters := fmt.Sprintf(
		"[t] Tipo: %s | [d] Período: %s | [o] Ordem: %s",
		activeStyle(typeLabel(m.criteria.Type)),
		activeStyle(m.criteria.Range.String()),
		activeStyle(m.order.String()),
	)

	if m.criteria.Query != "" || m.state == reportStateSearch {
		filters += "\n" + m.search.View()
	}

	totals := fmt.Sprintf(
		"Receitas: %s (%s) | Despesas: %s (%s) | Saldo: %s",
		revenueStyle.Render(FormatMoney(vm.Totals.Revenue)), formatGrowth(vm.Growth.Revenue),
		expenseStyle.Render(FormatMoney(vm.Totals.Expense)), formatGrowth(vm.Growth.Expense),
		activeStyle(FormatMoney(vm.Totals.Balance)),
	)

	indicators := fmt.Sprintf(
		"%s (%s%%) | %s (%s%%)",
		vm.Indicators.Savings.Title, vm.Indicators.Savings.Percent.StringFixed(0),
		vm.Indicators.ExpenseAlert.Title, vm.Indicators.ExpenseAlert.Percent.StringFixed(0),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	body := lipgloss.JoinVertical(lipgloss.Left,
		title,
		filters,
		"",
		totals,
		indicators,
		tableView,
	)

	side := lipgloss.JoinVertical(lipgloss.Left,
		"Semanas",
		weeklyChart(vm.Charts.Weekly),
		"",
		"Distribuição",
		distributionChart(vm.Charts.Distribution),
	)

	panel := lipgloss.NewStyle().
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Width(56)

	switch {
	case m.state == reportStateExport:
		side = panel.Render(m.export.View())
	case m.state == reportStateEdit && m.form != nil:
		side = panel.Render("Editar transação\n\n" + m.form.View())
	case m.state == reportStateConfirm && m.form != nil:
		side = panel.Render("Excluir transação\n\n" + m.form.View())
	}

	content := lipgloss.JoinHorizontal(lipgloss.Top, body, lipgloss.NewStyle().PaddingLeft(2).Render(side))

	status := m.status

	switch {
	case m.err != nil:
		status = errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	case m.loading:
		status = "Atualizando..."
	}

	if status != "" {
		content = mutedStyle.Render(status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func typeLabel(t ledger.Type) string {
	if t == report.AllTypes {
		return "Todos"
	}

	return t.Label()
}

func formatGrowth(p decimal.Decimal) string {
	s := p.StringFixed(1) + "%"
	if p.IsPositive() {
		s = "+" + s
	}

	return mutedStyle.Render(s)
}

// weeklyChart draws one revenue and one expense bar per week, scaled to the largest value.
func weeklyChart(buckets []report.WeekBucket) string {
	if len(buckets) == 0 {
		return mutedStyle.Render("sem movimentações")
	}

	peak := decimal.Zero
	for _, b := range buckets {
		peak = decimal.Max(peak, b.Revenue, b.Expense)
	}

	var sb strings.Builder

	for _, b := range buckets {
		fmt.Fprintf(&sb, "%-9s %s\n", b.Label, revenueStyle.Render(bar(b.Revenue, peak)))
		fmt.Fprintf(&sb, "%-9s %s\n", "", expenseStyle.Render(bar(b.Expense, peak)))
	}

	return strings.TrimRight(sb.String(), "\n")
}

func distributionChart(parts []report.Slice) string {
	total := decimal.Zero
	for _, s := range parts {
		total = total.Add(s.Value)
	}

	var sb strings.Builder

	for _, s := range parts {
		fmt.Fprintf(&sb, "%-9s %s %s\n", s.Name, bar(s.Value, total), FormatMoney(s.Value))
	}

	return strings.TrimRight(sb.String(), "\n")
}

func bar(v, peak decimal.Decimal) string {
	if !peak.IsPositive() || !v.IsPositive() {
		return "▏"
	}

	n := int(v.Div(peak).Mul(decimal.NewFromInt(chartWidth)).Ceil().IntPart())

	return strings.Repeat("█", n)
}

// next returns the element after cur in the cycle, or the first one when cur is not in it.
func next[T comparable](cycle []T, cur T) T {
	i := slices.Index(cycle, cur)

	return cycle[(i+1)%len(cycle)]
}

// Messages

type loadReportMsg struct {
	seq int
	rep dashboard.AccountReport
	err error
}

func (m ReportModel) loadCmd() tea.Cmd {
	svc, sess, id := m.svc, m.session, m.account.ID
	q := dashboard.ReportQuery{Criteria: m.criteria, Order: m.order}
	ctx, seq := m.fetch.start()

	return func() tea.Msg {
		rep, err := svc.AccountReport(ctx, sess, id, q)
		return loadReportMsg{seq: seq, rep: rep, err: err}
	}
}

type deleteResultMsg struct {
	err error
}

func (m ReportModel) deleteCmd(id int64) tea.Cmd {
	svc, sess := m.svc, m.session

	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		return deleteResultMsg{err: svc.DeleteTransaction(ctx, sess, id)}
	}
}

type updateResultMsg struct {
	err error
}

func (m ReportModel) updateCmd(tx ledger.Transaction) tea.Cmd {
	svc, sess := m.svc, m.session

	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		_, err := svc.UpdateTransaction(ctx, sess, tx)
		return updateResultMsg{err: err}
	}
}
