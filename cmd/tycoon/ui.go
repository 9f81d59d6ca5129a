package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"tycoon/internal/cloud"
	"tycoon/internal/game"
	"tycoon/internal/saves"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

var (
	stdinReader = bufio.NewReader(os.Stdin)
	accent      = color.New(color.FgCyan, color.Bold)
	success     = color.New(color.FgGreen, color.Bold)
	warn        = color.New(color.FgYellow, color.Bold)
	danger      = color.New(color.FgRed, color.Bold)
	neutral     = color.New(color.FgHiWhite)
)

func printSuccess(msg string) {
	success.Println(msg)
}

func printWarn(msg string) {
	warn.Println(msg)
}

func printError(msg string) {
	danger.Println(msg)
}

func printInfo(msg string) {
	neutral.Println(msg)
}

// printToast echoes the engine's visible notification, if any.
func printToast(e *game.Engine) {
	t := e.Toast()
	if t == nil {
		return
	}
	switch t.Kind {
	case game.ToastSuccess:
		printSuccess(t.Message)
	case game.ToastWarning:
		printWarn(t.Message)
	default:
		printInfo(t.Message)
	}
}

func promptRequired(label string) (string, error) {
	for {
		fmt.Printf("%s: ", label)
		text, err := stdinReader.ReadString('\n')
		if err != nil {
			return "", err
		}
		text = strings.TrimSpace(text)
		if text != "" {
			return text, nil
		}
		printWarn(label + " is required.")
	}
}

func promptChoice(label string, options []string, defaultValue string) (string, error) {
	normalized := make(map[string]struct{}, len(options))
	for _, opt := range options {
		normalized[strings.ToLower(strings.TrimSpace(opt))] = struct{}{}
	}
	for {
		fmt.Printf("%s (%s) [%s]: ", label, strings.Join(options, "/"), defaultValue)
		text, err := stdinReader.ReadString('\n')
		if err != nil {
			return "", err
		}
		text = strings.ToLower(strings.TrimSpace(text))
		if text == "" {
			text = strings.ToLower(strings.TrimSpace(defaultValue))
		}
		if _, ok := normalized[text]; ok {
			return text, nil
		}
		printWarn("Invalid option. Please pick one of the listed values.")
	}
}

func promptInt64(label string, min int64) (int64, error) {
	for {
		text, err := promptRequired(label)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			printWarn("Enter a whole number.")
			continue
		}
		if v < min {
			printWarn(fmt.Sprintf("Value must be >= %d", min))
			continue
		}
		return v, nil
	}
}

func newTable(headers ...string) *tablewriter.Table {
	return tablewriter.NewTable(os.Stdout, tablewriter.WithHeader(headers))
}

func money(v float64) string {
	return "$" + game.FormatCurrency(v)
}

func renderStatus(e *game.Engine) {
	s := e.Snapshot()
	accent.Printf("\n== EMPIRE (CEO level %d) ==\n", s.Ceo.Level)
	fmt.Printf("Cash:           %s\n", money(s.Money))
	fmt.Printf("Income:         %s/s\n", money(e.RevenuePerSecond()))
	fmt.Printf("Multiplier:     x%.2f\n", e.GlobalMultiplier())
	fmt.Printf("Gems:           %d\n", s.Gems)
	fmt.Printf("Investors:      %d (+%d on prestige)\n", s.Investors, e.PrestigeGain())
	fmt.Printf("Lifetime:       %s\n", money(s.LifetimeEarnings))
	fmt.Printf("Portfolio:      %s\n", money(e.PortfolioValue()))
	fmt.Printf("Weather:        %s\n", s.Weather)
	if s.ActiveEvent != nil {
		left := time.Duration(s.ActiveEvent.StartTime+s.ActiveEvent.Duration*1000-time.Now().UnixMilli()) * time.Millisecond
		fmt.Printf("Event:          %s x%.1f (%s left)\n", s.ActiveEvent.Name, s.ActiveEvent.Multiplier, left.Round(time.Second))
	}
	if s.NewsTicker != "" {
		fmt.Printf("News:           %s\n", s.NewsTicker)
	}
	if syn := e.ActiveSynergies(); len(syn) > 0 {
		names := make([]string, 0, len(syn))
		for _, x := range syn {
			names = append(names, fmt.Sprintf("%s x%.1f", x.Name, x.Multiplier))
		}
		fmt.Printf("Synergies:      %s\n", strings.Join(names, ", "))
	}
	if d, ok := e.ActiveDecision(); ok {
		warn.Printf("Decision:       %s (run `tycoon decide`)\n", d.Title)
	}
	fmt.Println()
	renderBusinesses(e, s)
}

func renderBusinesses(e *game.Engine, s *game.State) {
	accent.Println("Businesses")
	table := newTable("ID", "Name", "Level", "Revenue/s", "Next", "Manager")
	for _, b := range s.Businesses {
		next := money(b.UnlockCost)
		revenue := "-"
		if b.Owned {
			if cost, err := e.UpgradeCost(b.ID); err == nil {
				next = money(cost)
			}
			revenue = money(e.BusinessRevenue(b.ID) * e.GlobalMultiplier())
		}
		manager := "-"
		for _, m := range s.Managers {
			if m.BusinessID == b.ID && m.Hired {
				manager = fmt.Sprintf("%s L%d", m.Name, m.Level)
			}
		}
		_ = table.Append([]string{b.ID, b.Name, strconv.Itoa(b.Level), revenue, next, manager})
	}
	_ = table.Render()
}

func renderResearch(s *game.State) {
	accent.Println("\n== RESEARCH ==")
	table := newTable("ID", "Name", "Level", "Bonus", "Next cost")
	for _, r := range s.Research {
		next := money(game.ResearchCost(r))
		if r.CurrentLevel >= r.MaxLevel {
			next = "max"
		}
		_ = table.Append([]string{
			r.ID,
			r.Name,
			fmt.Sprintf("%d/%d", r.CurrentLevel, r.MaxLevel),
			fmt.Sprintf("+%.0f%%", float64(r.CurrentLevel)*r.MultiplierPerLevel*100),
			next,
		})
	}
	_ = table.Render()
}

func renderManagers(s *game.State, now int64) {
	accent.Println("\n== MANAGERS ==")
	table := newTable("ID", "Name", "Rarity", "Business", "Level", "Cost", "Skill")
	for _, m := range s.Managers {
		cost := money(m.Cost)
		if m.Hired {
			cost = money(game.ManagerUpgradeCost(m))
		}
		level := "-"
		if m.Hired {
			level = strconv.Itoa(m.Level)
		}
		skill := string(m.Skill.Kind)
		if m.Hired {
			if left := m.Skill.LastUsed + m.Skill.CooldownSeconds*1000 - now; m.Skill.LastUsed > 0 && left > 0 {
				skill += fmt.Sprintf(" (%ds)", (left+999)/1000)
			} else {
				skill += " (ready)"
			}
		}
		_ = table.Append([]string{m.ID, m.Name, string(m.Rarity), m.BusinessID, level, cost, skill})
	}
	_ = table.Render()
}

func renderAngels(s *game.State) {
	accent.Printf("\n== ANGEL UPGRADES (%d investors) ==\n", s.Investors)
	owned := make(map[string]bool, len(s.AngelUpgrades))
	for _, id := range s.AngelUpgrades {
		owned[id] = true
	}
	table := newTable("ID", "Name", "Effect", "Cost", "Owned")
	for _, a := range game.AngelUpgrades() {
		mark := "no"
		if owned[a.ID] {
			mark = "yes"
		}
		_ = table.Append([]string{a.ID, a.Name, fmt.Sprintf("%s %.2f", a.Effect, a.Value), strconv.FormatInt(a.Cost, 10), mark})
	}
	_ = table.Render()
}

func renderSkills(s *game.State) {
	accent.Printf("\n== CEO SKILLS (%d points) ==\n", s.Ceo.SkillPoints)
	table := newTable("ID", "Name", "Level", "Cost", "Effect")
	for _, sk := range s.Skills {
		_ = table.Append([]string{
			sk.ID,
			sk.Name,
			fmt.Sprintf("%d/%d", sk.Level, sk.MaxLevel),
			strconv.FormatInt(sk.Cost, 10),
			fmt.Sprintf("%s +%.0f%%", sk.Effect, float64(sk.Level)*sk.ValuePerLevel*100),
		})
	}
	_ = table.Render()
}

func renderArtifacts(s *game.State) {
	accent.Printf("\n== ARTIFACTS (%d gems, discover costs %d) ==\n", s.Gems, game.DiscoverCost)
	table := newTable("ID", "Name", "Rarity", "Effect", "Owned")
	for _, a := range s.Artifacts {
		mark := "no"
		if a.Owned {
			mark = "yes"
		}
		_ = table.Append([]string{a.ID, a.Name, string(a.Rarity), fmt.Sprintf("%s %.2f", a.Effect, a.Value), mark})
	}
	_ = table.Render()
}

func renderStocks(e *game.Engine) {
	s := e.Snapshot()
	accent.Println("\n== STOCK MARKET ==")
	table := newTable("ID", "Symbol", "Name", "Price", "Change", "Trend", "Held")
	for _, st := range s.Stocks {
		change := 0.0
		if st.PreviousPrice > 0 {
			change = (st.Price - st.PreviousPrice) / st.PreviousPrice * 100
		}
		_ = table.Append([]string{
			st.ID,
			st.Symbol,
			truncate(st.Name, 22),
			money(st.Price),
			colorizePercent(change),
			string(st.Trend),
			strconv.FormatInt(s.Portfolio[st.ID], 10),
		})
	}
	_ = table.Render()
	fmt.Printf("Portfolio value: %s\n\n", money(e.PortfolioValue()))
}

func renderMissions(s *game.State) {
	accent.Println("\n== DAILY MISSIONS ==")
	if len(s.Missions) == 0 {
		printInfo("No missions yet.")
		return
	}
	table := newTable("ID", "Mission", "Progress", "Reward", "Status")
	for _, m := range s.Missions {
		status := "in progress"
		switch {
		case m.Claimed:
			status = "claimed"
		case m.Completed:
			status = success.Sprint("claimable")
		}
		_ = table.Append([]string{
			m.ID,
			m.Description,
			fmt.Sprintf("%s/%s", game.FormatCurrency(m.Current), game.FormatCurrency(m.Target)),
			fmt.Sprintf("%d gems", m.Reward),
			status,
		})
	}
	_ = table.Render()
}

func renderAchievements(list []game.AchievementStatus) {
	accent.Println("\n== ACHIEVEMENTS ==")
	table := newTable("ID", "Name", "Reward", "Status")
	for _, a := range list {
		status := "locked"
		switch {
		case a.Claimed:
			status = "claimed"
		case a.Unlocked:
			status = success.Sprint("claimable")
		}
		_ = table.Append([]string{a.ID, a.Name, fmt.Sprintf("%d gems", a.Reward), status})
	}
	_ = table.Render()
}

func renderDecision(d game.DecisionView) {
	warn.Printf("\n== %s ==\n", strings.ToUpper(d.Title))
	fmt.Println(d.Description)
	for i, opt := range d.Options {
		extra := ""
		if opt.Cost > 0 {
			extra += " cost " + money(opt.Cost)
		}
		if opt.Risk > 0 {
			extra += fmt.Sprintf(" risk %.0f%%", opt.Risk*100)
		}
		fmt.Printf("  [%d] %s%s\n", i, opt.Label, extra)
	}
}

func renderSlots(list []saves.Slot, current string) {
	accent.Println("\n== SAVE SLOTS ==")
	if len(list) == 0 {
		printInfo("No saved slots yet.")
		return
	}
	table := newTable("Slot", "Lifetime", "Saved", "Created")
	for _, s := range list {
		id := s.ID
		if id == current {
			id += " *"
		}
		_ = table.Append([]string{
			id,
			money(s.Lifetime),
			s.SavedAt.Local().Format("2006-01-02 15:04"),
			s.CreatedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	_ = table.Render()
}

func renderLeaderboard(rows []cloud.LeaderboardEntry) {
	accent.Println("\n== LEADERBOARD ==")
	if len(rows) == 0 {
		printInfo("No leaderboard rows yet.")
		return
	}
	table := newTable("Rank", "Player", "Balance", "Lifetime", "Investors")
	for _, row := range rows {
		_ = table.Append([]string{
			strconv.Itoa(row.Rank),
			truncate(row.PlayerID, 18),
			money(row.Balance),
			money(row.LifetimeEarnings),
			strconv.FormatInt(row.Investors, 10),
		})
	}
	_ = table.Render()
}

func colorizePercent(v float64) string {
	text := fmt.Sprintf("%+.2f%%", v)
	switch {
	case v > 0:
		return success.Sprint(text)
	case v < 0:
		return danger.Sprint(text)
	default:
		return neutral.Sprint(text)
	}
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
