package main

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"tycoon/internal/game"

	tea "github.com/charmbracelet/bubbletea"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func newTestModel(t *testing.T) (playModel, *game.Engine) {
	t.Helper()
	e := game.New(game.Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	return newPlayModel(e, make(chan game.Toast)), e
}

func TestPlaySpaceTaps(t *testing.T) {
	m, e := newTestModel(t)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m = next.(playModel)
	if got := e.Snapshot().Money; got != 10 {
		t.Fatalf("money got %v want 10", got)
	}
	if !strings.Contains(m.View(), "Lemonade Stand") {
		t.Fatalf("view missing business list:\n%s", m.View())
	}
}

func TestPlayNumberKeyReportsGuardError(t *testing.T) {
	m, e := newTestModel(t)
	next, _ := m.Update(runeKey('2'))
	m = next.(playModel)
	if m.status != game.ErrInsufficientFunds.Error() {
		t.Fatalf("status got %q", m.status)
	}
	if e.Snapshot().Businesses[1].Owned {
		t.Fatalf("bakery should stay locked")
	}
}

func TestPlayKeepsRecentToasts(t *testing.T) {
	m, _ := newTestModel(t)
	for _, msg := range []string{"a", "b", "c", "d"} {
		next, cmd := m.Update(toastMsg(game.Toast{Message: msg}))
		if cmd == nil {
			t.Fatalf("toast should re-arm the listener")
		}
		m = next.(playModel)
	}
	if strings.Join(m.recent, ",") != "b,c,d" {
		t.Fatalf("recent got %v", m.recent)
	}
}

func TestPlayQuit(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := m.Update(runeKey('q'))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}
