// Package dashui provides the Bubble Tea usage dashboard.
package dashui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/geethikavulli/Electricity-Consumption-Calculation-Dashboard/internal/dataset"
	"github.com/geethikavulli/Electricity-Consumption-Calculation-Dashboard/internal/model"
	"github.com/geethikavulli/Electricity-Consumption-Calculation-Dashboard/internal/plot"
	"github.com/geethikavulli/Electricity-Consumption-Calculation-Dashboard/internal/report"
)

const (
	tabDailyEnergy = iota
	tabDevices
	tabDailyCost
)

const (
	plotHeight = 10
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#3A9AC8"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	summaryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#E0B040"))
	cardStyle    = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	pickedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#3A9AC8")).Bold(true)
	modalStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#3A9AC8")).
			Padding(1, 2)
)

// Model implements the Bubble Tea dashboard.
type Model struct {
	ds         *dataset.Dataset
	selections []string
	selection  string
	report     model.Report

	tabs        []string
	activeTab   int
	viewports   []viewport.Model
	deviceTable table.Model

	width  int
	height int

	pickerMode  bool
	pickerIndex int
}

// NewModel constructs a dashboard over an immutable dataset.
// An empty or unknown selection starts on "All".
func NewModel(ds *dataset.Dataset, selection string) *Model {
	m := &Model{
		ds:         ds,
		selections: ds.Selections(),
		tabs:       []string{"Daily Energy", "Device Comparison", "Daily Cost"},
	}
	m.selection = model.AllDevices
	if idx := m.selectionIndex(selection); idx >= 0 {
		m.selection = m.selections[idx]
	}
	m.deviceTable = buildDeviceTable(nil, 0, 1)
	m.initViewports()
	m.refreshReport()
	return m
}

// Selection returns the current device selection.
func (m *Model) Selection() string {
	return m.selection
}

// Report returns the report for the current selection.
func (m *Model) Report() model.Report {
	return m.report
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		if m.pickerMode {
			return m.updatePicker(msg)
		}
		if m.activeTab == tabDevices {
			m.deviceTable.Focus()
		} else {
			m.deviceTable.Blur()
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "]":
			m.cycleSelection(1)
			return m, nil
		case "[":
			m.cycleSelection(-1)
			return m, nil
		case "d":
			m.startPicker()
			return m, nil
		case "g", "home":
			if m.activeTab == tabDevices {
				m.deviceTable.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabDevices {
				m.deviceTable.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabDevices {
				var cmd tea.Cmd
				m.deviceTable, cmd = m.deviceTable.Update(msg)
				return m, cmd
			}
			vp := m.viewports[m.activeTab]
			var cmd tea.Cmd
			vp, cmd = vp.Update(msg)
			m.viewports[m.activeTab] = vp
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.pickerMode {
		return fitLines(m.renderPicker(), m.width, m.height)
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 2
	if m.report.InvalidDates > 0 {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, vpHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = vpHeight
	}
	m.deviceTable.SetWidth(m.width)
	m.deviceTable.SetHeight(deviceTableHeight(len(m.report.DeviceEnergy), vpHeight))
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabDevices {
		m.deviceTable.Focus()
	} else {
		m.deviceTable.Blur()
	}
}

func (m *Model) selectionIndex(selection string) int {
	if selection == "" {
		selection = model.AllDevices
	}
	for i, s := range m.selections {
		if s == selection {
			return i
		}
	}
	return -1
}

func (m *Model) cycleSelection(delta int) {
	count := len(m.selections)
	if count == 0 {
		return
	}
	idx := m.selectionIndex(m.selection) + delta
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	m.setSelection(m.selections[idx])
}

func (m *Model) setSelection(selection string) {
	if selection == m.selection {
		return
	}
	m.selection = selection
	m.refreshReport()
	m.updateLayout()
}

func (m *Model) refreshReport() {
	m.report = report.Build(m.ds, m.selection)
	width := m.width
	if width <= 0 {
		width = 80
	}
	_, bodyHeight, _ := m.layoutHeights()
	cols, rows := buildDeviceTableData(m.report.DeviceEnergy)
	m.deviceTable.SetColumns(cols)
	m.deviceTable.SetRows(rows)
	m.deviceTable.SetWidth(width)
	m.deviceTable.SetHeight(deviceTableHeight(len(rows), bodyHeight))
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabDailyEnergy].SetContent(renderDailyEnergy(m.report, width))
	m.viewports[tabDevices].SetContent(renderDeviceBars(m.report, width))
	m.viewports[tabDailyCost].SetContent(renderDailyCost(m.report, width))
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	device := fmt.Sprintf("Device: %s (%d/%d)  Rate: %s/kWh",
		report.DeviceLabel(m.selection), m.selectionIndex(m.selection)+1, len(m.selections), report.Money(m.report.Rate))
	return tabs + "\n" + headerStyle.Render(truncateLine(device, m.width))
}

func (m *Model) renderHelp() string {
	help := "Nav: left/right  Device: [/]  Pick: d  Scroll: up/down/pgup/pgdn  Quit: q"
	return headerStyle.Render(truncateLine(help, m.width))
}

func (m *Model) renderFooter() string {
	lines := []string{summaryStyle.Render(truncateLine(m.report.SummaryText, m.width))}
	if m.report.InvalidDates > 0 {
		note := fmt.Sprintf("%d record(s) with unparseable dates are left out of the daily charts.", m.report.InvalidDates)
		lines = append(lines, warnStyle.Render(truncateLine(note, m.width)))
	}
	lines = append(lines, m.renderHelp())
	return strings.Join(lines, "\n")
}

func (m *Model) renderBody(height int) string {
	if m.activeTab == tabDevices {
		if len(m.report.DeviceEnergy) == 0 {
			return fitLines("No records.", m.width, height)
		}
		view := tableMutedStyle.Render(m.deviceTable.View()) + "\n\n" + m.viewports[tabDevices].View()
		return fitLines(view, m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func renderDailyEnergy(rep model.Report, width int) string {
	cards := renderSummaryCards(rep, width)
	chart := renderLine(rep.DailyEnergy, "Energy", "kWh", false, width)
	return strings.TrimRight(cards+"\n\n"+chart, "\n")
}

func renderDailyCost(rep model.Report, width int) string {
	return renderLine(rep.DailyCost, "Cost", model.CurrencySymbol, true, width)
}

func renderSummaryCards(rep model.Report, width int) string {
	days := len(rep.DailyEnergy)
	avg := "-"
	if days > 0 {
		var total float64
		for _, p := range rep.DailyEnergy {
			total += p.Value
		}
		avg = report.Fixed2(total / float64(days))
	}
	cards := []string{
		metricCard("Records", fmt.Sprintf("%d", rep.Summary.Records)),
		metricCard("Energy (kWh)", report.Fixed2(rep.Summary.EnergyKWh)),
		metricCard("Cost", report.Money(rep.Summary.Cost)),
		metricCard("Days", fmt.Sprintf("%d", days)),
		metricCard("Avg kWh/day", avg),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4])
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func renderLine(points []model.DailyPoint, name, unit string, fill bool, width int) string {
	if len(points) == 0 {
		return "No dated records."
	}
	opts := plot.Options{
		Width:  plot.PlotWidthFor(width),
		Height: plotHeight,
		Color:  true,
		Fill:   fill,
		Unit:   unit,
	}
	opts.StartLabel = points[0].Date.Format(report.DateLayout)
	if len(points) > 1 {
		opts.EndLabel = points[len(points)-1].Date.Format(report.DateLayout)
	}
	var buf bytes.Buffer
	if err := plot.Line(&buf, "", []plot.Series{report.DailySeries(name, points)}, opts); err != nil {
		return fmt.Sprintf("Failed to render chart: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func renderDeviceBars(rep model.Report, width int) string {
	if len(rep.DeviceEnergy) == 0 {
		return "No records."
	}
	var buf bytes.Buffer
	opts := plot.Options{Width: width, Color: true, Unit: "kWh"}
	if err := plot.Bars(&buf, "", report.DeviceBars(rep.DeviceEnergy), opts); err != nil {
		return fmt.Sprintf("Failed to render bars: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func buildDeviceTable(totals []model.DeviceTotal, width, height int) table.Model {
	cols, rows := buildDeviceTableData(totals)
	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithHeight(maxInt(1, height-1)),
	)
	t.SetWidth(width)
	t.SetStyles(deviceTableStyles())
	return t
}

func buildDeviceTableData(totals []model.DeviceTotal) ([]table.Column, []table.Row) {
	columns := []table.Column{
		{Title: "Device", Width: 20},
		{Title: "Energy (kWh)", Width: 13},
		{Title: "Cost", Width: 12},
		{Title: "Share", Width: 7},
	}
	var sum float64
	for _, t := range totals {
		sum += t.EnergyKWh
	}
	rows := make([]table.Row, 0, len(totals))
	for _, t := range totals {
		share := 0.0
		if sum != 0 {
			share = t.EnergyKWh / sum * 100
		}
		rows = append(rows, table.Row{
			report.DeviceLabel(t.Device),
			report.Fixed2(t.EnergyKWh),
			report.Money(t.Cost),
			fmt.Sprintf("%.1f%%", share),
		})
	}
	return columns, rows
}

func deviceTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

// deviceTableHeight leaves room for the bar chart under the table.
func deviceTableHeight(rows, bodyHeight int) int {
	limit := maxInt(2, bodyHeight/2)
	return minInt(rows+1, limit)
}

func (m *Model) startPicker() {
	m.pickerMode = true
	m.pickerIndex = maxInt(0, m.selectionIndex(m.selection))
}

func (m *Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.pickerMode = false
		return m, nil
	case "enter":
		m.pickerMode = false
		if m.pickerIndex >= 0 && m.pickerIndex < len(m.selections) {
			m.setSelection(m.selections[m.pickerIndex])
		}
		return m, nil
	case "up", "k":
		if m.pickerIndex > 0 {
			m.pickerIndex--
		}
		return m, nil
	case "down", "j":
		if m.pickerIndex < len(m.selections)-1 {
			m.pickerIndex++
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) renderPicker() string {
	visible := maxInt(3, m.height-10)
	start := 0
	if m.pickerIndex >= visible {
		start = m.pickerIndex - visible + 1
	}
	end := minInt(len(m.selections), start+visible)

	body := []string{cardValueStyle.Render("Select Device")}
	for i := start; i < end; i++ {
		label := report.DeviceLabel(m.selections[i])
		if i == m.pickerIndex {
			body = append(body, pickedStyle.Render("> "+label))
		} else {
			body = append(body, "  "+label)
		}
	}
	body = append(body, headerStyle.Render("up/down to move / Enter to apply / Esc to cancel"))
	box := modalStyle.Width(modalWidth(m.width)).Render(strings.Join(body, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func modalWidth(width int) int {
	return maxInt(40, minInt(width-4, 80))
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
