package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/neoshield/internal/approach"
	"github.com/san-kum/neoshield/internal/report"
	"github.com/san-kum/neoshield/internal/scenario"
	"github.com/san-kum/neoshield/internal/uncertainty"
)

func seededStore(t *testing.T) *report.Store {
	t.Helper()
	st := report.New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"tunguska", "apophis"} {
		rep := &scenario.Report{
			ID:          name + "-id",
			Scenario:    name,
			CreatedAt:   base.Add(time.Duration(i) * time.Hour),
			EnergyMt:    uncertainty.Exact(float64(10*(i+1)), "Mt"),
			TorinoScale: i,
			Approaches: &approach.ScanResult{Samples: []approach.Sample{
				{JD: 1, DistanceAU: 0.3}, {JD: 2, DistanceAU: 0.1}, {JD: 3, DistanceAU: 0.2},
			}},
		}
		if _, err := st.Save(rep); err != nil {
			t.Fatal(err)
		}
	}
	return st
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestBrowserNavigation(t *testing.T) {
	b, err := NewBrowser(seededStore(t), "")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(b.View(), "apophis") {
		t.Fatalf("list view missing reports:\n%s", b.View())
	}

	b.Update(key("down"))
	if b.cursor != 1 {
		t.Fatalf("cursor = %d, want 1", b.cursor)
	}
	b.Update(key("enter"))
	if b.state != stateDetail || b.current == nil || b.current.Scenario != "tunguska" {
		t.Fatalf("enter should open tunguska, state=%d", b.state)
	}
	if len(b.series) != 3 {
		t.Errorf("series = %v", b.series)
	}
	if !strings.Contains(b.View(), "tunguska") {
		t.Errorf("detail view:\n%s", b.View())
	}

	b.Update(key("esc"))
	if b.state != stateList || b.current != nil {
		t.Error("esc should return to the list")
	}

	_, cmd := b.Update(key("q"))
	if cmd == nil {
		t.Error("q on the list should quit")
	}
}

func TestBrowserOpensRequestedReport(t *testing.T) {
	b, err := NewBrowser(seededStore(t), "tunguska-id")
	if err != nil {
		t.Fatal(err)
	}
	if b.state != stateDetail || b.cursor != 1 {
		t.Errorf("state=%d cursor=%d", b.state, b.cursor)
	}
	if _, err := NewBrowser(seededStore(t), "missing"); err == nil {
		t.Error("expected error for unknown report")
	}
}

func TestSparkline(t *testing.T) {
	got := sparkline([]float64{0, 7, 0, 7}, 4)
	if got != "▁█▁█" {
		t.Errorf("sparkline = %q", got)
	}
	if sparkline(nil, 8) != "" {
		t.Error("empty data should give an empty line")
	}
}
