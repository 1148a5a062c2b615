package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/dindin/internal/export"
	"github.com/MrJamesThe3rd/dindin/internal/ledger"
	"github.com/MrJamesThe3rd/dindin/internal/report"
)

type exportState int

const (
	exportStatePath exportState = iota
	exportStateExporting
	exportStateResult
)

// ExportModel writes the report on screen as CSV plus a text summary.
// It is shown over the report and closes itself on Esc.
type ExportModel struct {
	account ledger.Account
	vm      report.ViewModel

	state   exportState
	form    *huh.Form
	path    *string
	spinner spinner.Model

	files   export.Files
	summary string
	err     error
	closed  bool
}

func NewExportModel(account ledger.Account, vm report.ViewModel) ExportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := ExportModel{
		account: account,
		vm:      vm,
		state:   exportStatePath,
		path:    new("./exports"),
		spinner: s,
	}
	m.form = m.buildPathForm()

	return m
}

func (m ExportModel) Init() tea.Cmd {
	return m.form.Init()
}

// Closed reports whether the user dismissed the dialog.
func (m ExportModel) Closed() bool {
	return m.closed
}

func (m ExportModel) Update(msg tea.Msg) (ExportModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc && m.state != exportStateExporting {
		m.closed = true
		return m, nil
	}

	switch m.state {
	case exportStatePath:
		return m.updatePath(msg)
	case exportStateExporting:
		return m.updateExporting(msg)
	}

	return m, nil
}

func (m ExportModel) updatePath(msg tea.Msg) (ExportModel, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = exportStateExporting
	m.err = nil

	return m, tea.Batch(m.spinner.Tick, m.runExportCmd(strings.TrimSpace(*m.path)))
}

func (m ExportModel) updateExporting(msg tea.Msg) (ExportModel, tea.Cmd) {
	if result, ok := msg.(exportResultMsg); ok {
		m.state = exportStateResult
		m.err = result.err
		m.files = result.files
		m.summary = result.summary

		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)

	return m, cmd
}

func (m ExportModel) buildPathForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("path").
				Title("Output Path").
				Description("Directory will be created if it doesn't exist").
				Placeholder("./exports").
				Value(m.path),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ExportModel) View() string {
	switch m.state {
	case exportStatePath:
		return m.form.View()
	case exportStateExporting:
		return fmt.Sprintf("%s Exportando relatório...", m.spinner.View())
	case exportStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ExportModel) viewResult() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n(Esc to close)"
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("46")).
		Render("Export Complete!")

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		mutedStyle.Render(m.files.CSV),
		mutedStyle.Render(m.files.Summary),
		"",
		m.summary,
		"(Esc to close)",
	)
}

type exportResultMsg struct {
	files   export.Files
	summary string
	err     error
}

func (m ExportModel) runExportCmd(dir string) tea.Cmd {
	account, vm := m.account, m.vm

	return func() tea.Msg {
		files, err := export.WriteFiles(dir, account, vm)
		if err != nil {
			return exportResultMsg{err: err}
		}

		return exportResultMsg{files: files, summary: export.Summary(account, vm)}
	}
}
