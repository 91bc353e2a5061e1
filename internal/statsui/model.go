// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/nback/internal/model"
	"github.com/verte-zerg/nback/internal/stats"
	"github.com/verte-zerg/nback/internal/store"
)

const (
	tabOverview = iota
	tabSessions
	tabDailyLog
)

const plotHeight = 8

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
)

// ReportLoader loads the data shown by the viewer.
type ReportLoader func(ctx context.Context, cfg model.StatsConfig) (stats.Report, error)

// StoreLoader returns a ReportLoader backed by st.
func StoreLoader(st *store.Store) ReportLoader {
	return func(ctx context.Context, cfg model.StatsConfig) (stats.Report, error) {
		return stats.BuildReport(ctx, st, cfg)
	}
}

// Model implements the Bubble Tea stats UI.
type Model struct {
	load ReportLoader
	cfg  model.StatsConfig

	report stats.Report
	errMsg string

	tabs      []string
	activeTab int
	overview  viewport.Model
	tables    map[int]*table.Model

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string
}

// NewModel constructs a stats UI model.
func NewModel(load ReportLoader, cfg model.StatsConfig) *Model {
	sessions := newTable(stats.SessionHeaders, []int{16, 9, 6, 7, 8, 5})
	daily := newTable(stats.DailyLogHeaders, []int{10, 8, 7, 6})
	m := &Model{
		load:     load,
		cfg:      cfg,
		tabs:     []string{"Overview", "Sessions", "Daily Log"},
		overview: viewport.New(0, 0),
		tables:   map[int]*table.Model{tabSessions: &sessions, tabDailyLog: &daily},
		filterInputs: []textinput.Model{
			newFilterInput("Mode (adventure/daily): "),
			newFilterInput("Since (YYYY-MM-DD): "),
			newFilterInput("Last: "),
			newFilterInput("Curve window: "),
		},
	}
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.updateLayout()
		m.renderOverview()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || (!m.filterMode && msg.String() == "q") {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l", "tab":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "=":
			m.cfg.CurveWindow = nextCurveWindow(m.cfg.CurveWindow)
			m.refreshReport()
			return m, nil
		case "-":
			m.cfg.CurveWindow = prevCurveWindow(m.cfg.CurveWindow)
			m.refreshReport()
			return m, nil
		case "/":
			return m, m.startFilter()
		}
		if t, ok := m.tables[m.activeTab]; ok {
			var cmd tea.Cmd
			*t, cmd = t.Update(msg)
			return m, cmd
		}
		var cmd tea.Cmd
		m.overview, cmd = m.overview.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderTabs()+"\n"+m.renderFilterSummary(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func newTable(headers []string, widths []int) table.Model {
	cols := make([]table.Column, len(headers))
	for i, h := range headers {
		cols[i] = table.Column{Title: h, Width: max(widths[i], len(h))}
	}
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#F0F0F0")).
		Background(lipgloss.NoColor{})
	return table.New(table.WithColumns(cols), table.WithFocused(true), table.WithStyles(styles))
}

func toRows(rows [][]string) []table.Row {
	out := make([]table.Row, len(rows))
	for i, r := range rows {
		out[i] = table.Row(r)
	}
	return out
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) layoutHeights() (header, body, footer int) {
	header = lipgloss.Height(activeNavStyle.Render("X")) + 1
	footer = 1
	if !m.filterMode && m.errMsg != "" {
		footer++
	}
	body = max(m.height-header-footer, 1)
	return header, body, footer
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, body, _ := m.layoutHeights()
	m.overview.Width = m.width
	m.overview.Height = body
	for _, t := range m.tables {
		t.SetWidth(m.width)
		t.SetHeight(max(body-1, 1))
	}
	for i := range m.filterInputs {
		m.filterInputs[i].Width = max(10, m.width-lipgloss.Width(m.filterInputs[i].Prompt)-2)
	}
}

func (m *Model) moveTab(delta int) {
	n := len(m.tabs)
	m.activeTab = ((m.activeTab+delta)%n + n) % n
}

func (m *Model) renderTabs() string {
	parts := make([]string, len(m.tabs))
	for i, tab := range m.tabs {
		style := inactiveNavStyle
		if i == m.activeTab {
			style = activeNavStyle
		}
		parts[i] = style.Render(tab)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderFilterSummary() string {
	mode := string(m.cfg.Mode)
	if mode == "" {
		mode = "any"
	}
	since := "any"
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format("2006-01-02")
	}
	last := "all"
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	return headerStyle.Render(fmt.Sprintf("Settings: mode=%s  since=%s  last=%s  window=%d", mode, since, last, m.cfg.CurveWindow))
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
	}
	help := headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Window: -/=  Settings: /  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) renderBody() string {
	if m.filterMode {
		lines := []string{"Settings (enter to apply, esc to cancel)"}
		for _, input := range m.filterInputs {
			lines = append(lines, input.View())
		}
		if m.filterError != "" {
			lines = append(lines, errorStyle.Render(m.filterError))
		}
		return strings.Join(lines, "\n")
	}
	switch m.activeTab {
	case tabSessions:
		if len(m.report.Sessions) == 0 {
			return "No sessions found."
		}
	case tabDailyLog:
		if len(m.report.DailyLogs) == 0 {
			return "No daily training yet."
		}
	}
	if t, ok := m.tables[m.activeTab]; ok {
		return t.View()
	}
	return m.overview.View()
}

func (m *Model) refreshReport() {
	report, err := m.load(context.Background(), m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		m.overview.SetContent("Failed to load stats.")
		return
	}
	m.errMsg = ""
	m.report = report
	m.tables[tabSessions].SetRows(toRows(stats.SessionRows(report.Sessions)))
	m.tables[tabDailyLog].SetRows(toRows(stats.DailyLogRows(report.DailyLogs)))
	m.updateLayout()
	m.renderOverview()
}

func (m *Model) renderOverview() {
	if m.errMsg != "" {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	var buf bytes.Buffer
	parts := []string{renderCards(m.report, width)}
	if err := stats.RenderCurves(&buf, m.report.Sessions, m.cfg.CurveWindow, width, plotHeight, true); err != nil {
		parts = append(parts, fmt.Sprintf("Failed to render curves: %v", err))
	} else if buf.Len() > 0 {
		parts = append(parts, buf.String())
	}
	buf.Reset()
	if err := stats.RenderFacts(&buf, m.report.Facts, m.report.Levels); err == nil && buf.Len() > 0 {
		parts = append(parts, buf.String())
	}
	m.overview.SetContent(strings.TrimRight(strings.Join(parts, "\n\n"), "\n"))
}

func renderCards(r stats.Report, width int) string {
	var accSum float64
	var peak int
	for _, s := range r.Sessions {
		accSum += stats.SessionAccuracy(s)
		peak = max(peak, stats.PeakLevel(s))
	}
	avg := "-"
	if len(r.Sessions) > 0 {
		avg = fmt.Sprintf("%.1f%%", accSum/float64(len(r.Sessions))*100)
	}
	cards := []string{
		metricCard("Unlocked", fmt.Sprintf("%d-back", r.Progress.UnlockedLevel)),
		metricCard("Streak", fmt.Sprintf("%d day(s)", r.Progress.Streak)),
		metricCard("Daily Peak", fmt.Sprintf("%d-back", r.Progress.DailyMaxLevelReached)),
		metricCard("Sessions", strconv.Itoa(len(r.Sessions))),
		metricCard("Avg Acc", avg),
		metricCard("Highest", fmt.Sprintf("%d-back", peak)),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, cards[:3]...),
		lipgloss.JoinHorizontal(lipgloss.Top, cards[3:]...),
	)
}

func metricCard(label, value string) string {
	return cardStyle.Render(cardTitleStyle.Render(label) + "\n" + cardValueStyle.Render(value))
}

func (m *Model) startFilter() tea.Cmd {
	m.filterMode = true
	m.filterError = ""
	m.filterInputs[0].SetValue(string(m.cfg.Mode))
	m.filterInputs[1].SetValue("")
	if m.cfg.Since != nil {
		m.filterInputs[1].SetValue(m.cfg.Since.Format("2006-01-02"))
	}
	m.filterInputs[2].SetValue("")
	if m.cfg.Last > 0 {
		m.filterInputs[2].SetValue(strconv.Itoa(m.cfg.Last))
	}
	m.filterInputs[3].SetValue(strconv.Itoa(m.cfg.CurveWindow))
	return m.setFilterIndex(0)
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		return m, nil
	case tea.KeyEnter:
		cfg, err := parseFilter(m.filterInputs[0].Value(), m.filterInputs[1].Value(), m.filterInputs[2].Value(), m.filterInputs[3].Value())
		if err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.cfg = cfg
		m.filterMode = false
		m.refreshReport()
		return m, nil
	case tea.KeyTab:
		return m, m.setFilterIndex(m.filterIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setFilterIndex(m.filterIndex - 1)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	n := len(m.filterInputs)
	m.filterIndex = (idx%n + n) % n
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == m.filterIndex {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

func parseFilter(modeIn, sinceIn, lastIn, windowIn string) (model.StatsConfig, error) {
	var cfg model.StatsConfig
	if v := strings.TrimSpace(modeIn); v != "" {
		if err := cfg.Mode.UnmarshalText([]byte(v)); err != nil {
			return cfg, fmt.Errorf("invalid mode (use adventure or daily)")
		}
	}
	if v := strings.TrimSpace(sinceIn); v != "" {
		parsed, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			return cfg, fmt.Errorf("invalid since date (expected YYYY-MM-DD)")
		}
		cfg.Since = &parsed
	}
	if v := strings.TrimSpace(lastIn); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return cfg, fmt.Errorf("invalid last value (use 0 or positive integer)")
		}
		cfg.Last = n
	}
	cfg.CurveWindow = 1
	if v := strings.TrimSpace(windowIn); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return cfg, fmt.Errorf("invalid curve window (use integer >= 1)")
		}
		cfg.CurveWindow = n
	}
	return cfg, nil
}

func nextCurveWindow(n int) int {
	if n < 5 {
		return 5
	}
	return (n/5 + 1) * 5
}

func prevCurveWindow(n int) int {
	if n <= 5 {
		return 1
	}
	if n%5 == 0 {
		return n - 5
	}
	return n / 5 * 5
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w < width {
			lines[i] = line + strings.Repeat(" ", width-w)
		}
	}
	return strings.Join(lines, "\n")
}
