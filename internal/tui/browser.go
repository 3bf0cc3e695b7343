package tui

import (
	"bytes"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/neoshield/internal/report"
	"github.com/san-kum/neoshield/internal/scenario"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	red     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
)

type state int

const (
	stateList state = iota
	stateDetail
)

// Browser is a bubbletea model listing stored reports and showing one at
// a time.
type Browser struct {
	store   *report.Store
	state   state
	reports []report.Summary
	cursor  int

	current *scenario.Report
	lines   []string
	scroll  int
	series  []float64
	err     error

	width  int
	height int
}

// NewBrowser lists the reports in store. A non-empty openID starts on that
// report's detail view.
func NewBrowser(store *report.Store, openID string) (*Browser, error) {
	list, err := store.List()
	if err != nil {
		return nil, err
	}
	b := &Browser{store: store, reports: list, width: 80, height: 24}
	if openID != "" {
		for i, s := range list {
			if s.ID == openID {
				b.cursor = i
			}
		}
		if err := b.open(openID); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (b *Browser) open(id string) error {
	rep, err := b.store.Load(id)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := report.WriteText(&buf, rep); err != nil {
		return err
	}
	b.current = rep
	b.lines = strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	b.scroll = 0
	b.series = nil
	if _, d, err := b.store.LoadSeries(id, report.SeriesApproaches); err == nil {
		b.series = d
	} else if _, d, err := b.store.LoadSeries(id, report.SeriesPropagation); err == nil {
		b.series = d
	}
	b.state = stateDetail
	return nil
}

func (b *Browser) Init() tea.Cmd { return nil }

func (b *Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return b.handleKey(msg)
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
	}
	return b, nil
}

func (b *Browser) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch b.state {
	case stateList:
		return b.listKey(msg)
	case stateDetail:
		return b.detailKey(msg)
	}
	return b, nil
}

func (b *Browser) listKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return b, tea.Quit
	case "up", "k":
		if b.cursor > 0 {
			b.cursor--
		}
	case "down", "j":
		if b.cursor < len(b.reports)-1 {
			b.cursor++
		}
	case "enter", " ":
		if len(b.reports) == 0 {
			return b, nil
		}
		b.err = b.open(b.reports[b.cursor].ID)
		return b, tea.ClearScreen
	}
	return b, nil
}

func (b *Browser) detailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return b, tea.Quit
	case "q", "esc":
		b.state = stateList
		b.current = nil
		return b, tea.ClearScreen
	case "up", "k":
		if b.scroll > 0 {
			b.scroll--
		}
	case "down", "j":
		if b.scroll < len(b.lines)-1 {
			b.scroll++
		}
	case "g":
		b.scroll = 0
	}
	return b, nil
}

func (b *Browser) View() string {
	switch b.state {
	case stateList:
		return b.viewList()
	case stateDetail:
		return b.viewDetail()
	}
	return ""
}

func torinoStyle(t int) lipgloss.Style {
	switch {
	case t == 0:
		return green
	case t <= 4:
		return yellow
	default:
		return red
	}
}

func (b *Browser) viewList() string {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	sb.WriteString("          " + cyan.Render("n e o s h i e l d") + "\n")
	sb.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	sb.WriteString("\n")

	if len(b.reports) == 0 {
		sb.WriteString(dim.Render("      no stored reports") + "\n")
	}
	for i, s := range b.reports {
		desc := fmt.Sprintf("%s  %s Mt  ", s.CreatedAt.Format("2006-01-02 15:04"), report.Printer.Sprintf("%.2f", s.EnergyMt))
		torino := torinoStyle(s.Torino).Render(fmt.Sprintf("T%d", s.Torino))
		if i == b.cursor {
			sb.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-18s", s.Scenario)) + dim.Render(desc) + torino + "\n")
		} else {
			sb.WriteString("        " + dim.Render(fmt.Sprintf("%-18s", s.Scenario)) + dimmer.Render(desc) + torino + "\n")
		}
	}
	if b.err != nil {
		sb.WriteString("\n      " + red.Render(b.err.Error()) + "\n")
	}

	sb.WriteString("\n")
	sb.WriteString(dim.Render("      ↑↓ select   enter open   q quit") + "\n")
	return sb.String()
}

func (b *Browser) viewDetail() string {
	var sb strings.Builder
	rep := b.current

	status := green.Render("●")
	if n := rep.WarningCount(); n > 0 {
		status = yellow.Render("○") + dim.Render(fmt.Sprintf(" %d warnings", n))
	}
	sb.WriteString(fmt.Sprintf("\n   %s %s  %s\n", status, cyan.Render(rep.Scenario), torinoStyle(rep.TorinoScale).Render(fmt.Sprintf("torino %d", rep.TorinoScale))))
	sb.WriteString(dimmer.Render("   "+strings.Repeat("─", 40)) + "\n")

	height := b.height - 8
	if height < 10 {
		height = 10
	}
	end := min(b.scroll+height, len(b.lines))
	for _, line := range b.lines[b.scroll:end] {
		if !strings.HasPrefix(line, " ") {
			line = magenta.Render(line)
		}
		sb.WriteString("   " + line + "\n")
	}

	if len(b.series) > 1 {
		sb.WriteString(fmt.Sprintf("\n   %s %s\n", dim.Render("distance"), cyan.Render(sparkline(b.series, 48))))
	}
	sb.WriteString("\n" + dim.Render("   ↑↓ scroll  g top  esc back") + "\n")
	return sb.String()
}

func sparkline(data []float64, width int) string {
	if len(data) == 0 {
		return ""
	}
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	minVal, maxVal := data[0], data[0]
	for _, v := range data {
		minVal = min(minVal, v)
		maxVal = max(maxVal, v)
	}
	rang := maxVal - minVal
	if rang == 0 {
		rang = 1
	}
	step := len(data) / width
	if step < 1 {
		step = 1
	}
	var sb strings.Builder
	for i := 0; i < width && i*step < len(data); i++ {
		idx := int((data[i*step] - minVal) / rang * 7)
		sb.WriteRune(chars[max(0, min(7, idx))])
	}
	return sb.String()
}

// Run opens the browser in the terminal's alternate screen.
func Run(store *report.Store, openID string) error {
	b, err := NewBrowser(store, openID)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(b, tea.WithAltScreen()).Run()
	return err
}
