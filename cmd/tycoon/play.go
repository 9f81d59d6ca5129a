package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	cl "tycoon/internal/cli"
	"tycoon/internal/config"
	"tycoon/internal/game"
	"tycoon/internal/loop"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

const frameInterval = 100 * time.Millisecond

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7DF9FF"))
	cashStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#50FA7B"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6272A4"))
	toastStyles = map[game.ToastKind]lipgloss.Style{
		game.ToastSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("#50FA7B")),
		game.ToastInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("#8BE9FD")),
		game.ToastWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB86C")),
	}
	panelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func newPlayCmd(cfg *config.CLIConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play live in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cadence := config.DefaultCadence()
			if cfg.TuningFile != "" {
				c, err := config.LoadCadence(cfg.TuningFile, cadence)
				if err != nil {
					return err
				}
				cadence = c
			}
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			sess, err := cl.Open(ctx, *cfg, nil)
			if err != nil {
				return err
			}
			quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
			scheduler := loop.New(sess.Hub(), cadence, quiet)
			done := make(chan struct{})
			go func() {
				defer close(done)
				_ = scheduler.Run(ctx)
			}()

			toasts, unsubscribe := sess.Engine.Subscribe(16)
			m := newPlayModel(sess.Engine, toasts)
			_, runErr := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()

			unsubscribe()
			scheduler.Stop()
			<-done
			saveCtx, saveCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer saveCancel()
			if err := sess.Close(saveCtx); err != nil {
				return err
			}
			if runErr != nil && ctx.Err() == nil {
				return runErr
			}
			printSuccess("Progress saved to slot " + sess.Slot + ".")
			return nil
		},
	}
}

type frameMsg time.Time

type toastMsg game.Toast

type playModel struct {
	engine *game.Engine
	toasts <-chan game.Toast
	combo  progress.Model
	recent []string
	status string
}

func newPlayModel(e *game.Engine, toasts <-chan game.Toast) playModel {
	return playModel{
		engine: e,
		toasts: toasts,
		combo:  progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}
}

func frame() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func waitToast(ch <-chan game.Toast) tea.Cmd {
	return func() tea.Msg {
		t, ok := <-ch
		if !ok {
			return nil
		}
		return toastMsg(t)
	}
}

func (m playModel) Init() tea.Cmd {
	return tea.Batch(frame(), waitToast(m.toasts))
}

func (m playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.combo.Width = max(10, min(40, msg.Width-10))
		return m, nil
	case frameMsg:
		return m, frame()
	case toastMsg:
		m.recent = append(m.recent, msg.Message)
		if len(m.recent) > 3 {
			m.recent = m.recent[len(m.recent)-3:]
		}
		return m, waitToast(m.toasts)
	case tea.KeyMsg:
		return m.handleKey(msg.String())
	}
	return m, nil
}

func (m playModel) handleKey(key string) (tea.Model, tea.Cmd) {
	m.status = ""
	if _, pending := m.engine.ActiveDecision(); pending {
		if i, err := strconv.Atoi(key); err == nil {
			out, err := m.engine.ResolveDecision(i)
			if err != nil {
				m.status = err.Error()
			} else {
				m.status = out.Message
			}
			return m, nil
		}
	}
	switch key {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case " ", "enter":
		m.engine.Tap()
	case "s":
		m.status = m.engine.SummonManager().Message
	case "d":
		if m.engine.ClaimDailyReward() {
			m.status = fmt.Sprintf("+%d gems", game.DailyGems)
		} else {
			m.status = "daily reward already claimed"
		}
	case "p":
		m.status = m.engine.Prestige().Message
	default:
		if n, err := strconv.Atoi(key); err == nil && n >= 1 {
			m.status = m.buyOrUpgrade(n - 1)
		}
	}
	return m, nil
}

// buyOrUpgrade unlocks business i, or levels it once it is owned.
func (m playModel) buyOrUpgrade(i int) string {
	var (
		id    string
		owned bool
	)
	m.engine.View(func(s *game.State) {
		if i < len(s.Businesses) {
			id, owned = s.Businesses[i].ID, s.Businesses[i].Owned
		}
	})
	if id == "" {
		return ""
	}
	action := m.engine.UpgradeBusiness
	if !owned {
		action = m.engine.BuyBusiness
	}
	if err := action(id); err != nil {
		return err.Error()
	}
	return ""
}

func (m playModel) View() string {
	s := m.engine.Snapshot()
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("TYCOON  CEO L%d  %s", s.Ceo.Level, s.Weather)))
	b.WriteString("\n\n")
	b.WriteString(cashStyle.Render(money(s.Money)))
	b.WriteString(fmt.Sprintf("  +%s/s  x%.2f\n", money(m.engine.RevenuePerSecond()), m.engine.GlobalMultiplier()))
	b.WriteString(fmt.Sprintf("Gems %d  Investors %d (+%d)\n\n", s.Gems, s.Investors, m.engine.PrestigeGain()))

	b.WriteString("Combo ")
	b.WriteString(m.combo.ViewAs(s.Combo / game.MaxCombo))
	b.WriteString("\n\n")

	var rows []string
	for i, biz := range s.Businesses {
		if i >= 9 {
			break
		}
		line := fmt.Sprintf("[%d] %-22s ", i+1, truncate(biz.Name, 22))
		if biz.Owned {
			cost, _ := m.engine.UpgradeCost(biz.ID)
			line += fmt.Sprintf("L%-4d up %s", biz.Level, money(cost))
		} else {
			line += dimStyle.Render("unlock " + money(biz.UnlockCost))
		}
		rows = append(rows, line)
	}
	b.WriteString(panelStyle.Render(strings.Join(rows, "\n")))
	b.WriteString("\n")

	if s.ActiveEvent != nil {
		b.WriteString(toastStyles[game.ToastSuccess].Render(fmt.Sprintf("%s x%.1f", s.ActiveEvent.Name, s.ActiveEvent.Multiplier)))
		b.WriteString("\n")
	}
	if d, ok := m.engine.ActiveDecision(); ok {
		lines := []string{titleStyle.Render(d.Title), d.Description}
		for i, opt := range d.Options {
			lines = append(lines, fmt.Sprintf("[%d] %s", i, opt.Label))
		}
		b.WriteString(panelStyle.Render(strings.Join(lines, "\n")))
		b.WriteString("\n")
	}
	if t := m.engine.Toast(); t != nil {
		b.WriteString(toastStyles[t.Kind].Render(t.Message))
		b.WriteString("\n")
	} else if s.NewsTicker != "" {
		b.WriteString(dimStyle.Render(s.NewsTicker))
		b.WriteString("\n")
	}
	for _, line := range m.recent {
		b.WriteString(dimStyle.Render("  " + line))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(toastStyles[game.ToastWarning].Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render("\nspace tap  1-9 buy/upgrade  s summon  d daily  p prestige  q quit"))
	return b.String()
}
