package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	cl "tycoon/internal/cli"
	"tycoon/internal/config"
	"tycoon/internal/game"

	"github.com/spf13/cobra"
)

func main() {
	cfg, err := config.LoadCLIFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	root := &cobra.Command{
		Use:          "tycoon",
		Short:        "Idle business tycoon in your terminal",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfg.Slot, "slot", cfg.Slot, "save slot to play")
	root.PersistentFlags().StringVar(&cfg.Home, "home", cfg.Home, "data directory (default ~/.tycoon)")

	root.AddCommand(
		newStatusCmd(&cfg),
		newTapCmd(&cfg),
		newBuyCmd(&cfg),
		newUpgradeCmd(&cfg),
		newResearchCmd(&cfg),
		newManagersCmd(&cfg),
		newSummonCmd(&cfg),
		newAngelCmd(&cfg),
		newSkillsCmd(&cfg),
		newArtifactsCmd(&cfg),
		newPrestigeCmd(&cfg),
		newStocksCmd(&cfg),
		newTradeCmd(&cfg),
		newMissionsCmd(&cfg),
		newAchievementsCmd(&cfg),
		newClaimCmd(&cfg),
		newDecideCmd(&cfg),
		newDailyCmd(&cfg),
		newTimeWarpCmd(&cfg),
		newSettingsCmd(&cfg),
		newExportCmd(&cfg),
		newImportCmd(&cfg),
		newSlotsCmd(&cfg),
		newPlayCmd(&cfg),
		newRemoteCmd(&cfg),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// withSession opens the slot, runs fn and saves on the way out, even when fn
// fails part way through a multi-step command.
func withSession(cmd *cobra.Command, cfg *config.CLIConfig, fn func(s *cl.Session) error) error {
	openCtx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()
	sess, err := cl.Open(openCtx, *cfg, nil)
	if err != nil {
		return err
	}
	runErr := fn(sess)
	// fn may have waited on a prompt, so saving gets its own deadline.
	saveCtx, saveCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer saveCancel()
	if err := sess.Close(saveCtx); err != nil && runErr == nil {
		return fmt.Errorf("save slot: %w", err)
	}
	return runErr
}

func newStatusCmd(cfg *config.CLIConfig) *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Short:   "Show your empire",
		Aliases: []string{"dash"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, cfg, func(s *cl.Session) error {
				printToast(s.Engine)
				renderStatus(s.Engine)
				return nil
			})
		},
	}
}

func newTapCmd(cfg *config.CLIConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "tap [times]",
		Short: "Tap for cash",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			times := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 1 {
					return fmt.Errorf("times must be a positive whole number")
				}
				times = min(n, 1000)
			}
			return withSession(cmd, cfg, func(s *cl.Session) error {
				total := 0.0
				for i := 0; i < times; i++ {
					total += s.Engine.Tap()
				}
				var combo float64
				s.Engine.View(func(st *game.State) { combo = st.Combo })
				printSuccess(fmt.Sprintf("Tapped %d times for %s (combo %.0f%%)", times, money(total), combo))
				return nil
			})
		},
	}
}

func newBuyCmd(cfg *config.CLIConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "buy <business-id>",
		Short: "Unlock a business",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, cfg, func(s *cl.Session) error {
				if err := s.Engine.BuyBusiness(args[0]); err != nil {
					return err
				}
				printToast(s.Engine)
				return nil
			})
		},
	}
}

func newUpgradeCmd(cfg *config.CLIConfig) *cobra.Command {
	var times int
	cmd := &cobra.Command{
		Use:   "upgrade <business-id>",
		Short: "Level up a business",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, cfg, func(s *cl.Session) error {
				done := 0
				for done < max(times, 1) {
					if err := s.Engine.UpgradeBusiness(args[0]); err != nil {
						if done > 0 && errors.Is(err, game.ErrInsufficientFunds) {
							break
						}
						return err
					}
					done++
				}
				var level int
				s.Engine.View(func(st *game.State) {
					for _, b := range st.Businesses {
						if b.ID == args[0] {
							level = b.Level
						}
					}
				})
				printSuccess(fmt.Sprintf("Upgraded %s %d time(s), now level %d", args[0], done, level))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&times, "times", "n", 1, "upgrade up to this many levels")
	return cmd
}

func newResearchCmd(cfg *config.CLIConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "research [id]",
		Short: "List research or buy a level",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, cfg, func(s *cl.Session) error {
				if len(args) == 1 {
					if err := s.Engine.BuyResearch(args[0]); err != nil {
						return err
					}
					printToast(s.Engine)
				}
				renderResearch(s.Engine.Snapshot())
				return nil
			})
		},
	}
}

func newManagersCmd(cfg *config.CLIConfig) *cobra.Command {
	managers := &cobra.Command{
		Use:     "managers",
		Short:   "Manager commands",
		Aliases: []string{"manager", "mgr"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, cfg, func(s *cl.Session) error {
				renderManagers(s.Engine.Snapshot(), time.Now().UnixMilli())
				return nil
			})
		},
	}
	managers.AddCommand(
		managerAction(cfg, "hire", "Hire a manager for cash", (*game.Engine).HireManager),
		managerAction(cfg, "upgrade", "Level up a hired manager", (*game.Engine).UpgradeManager),
		&cobra.Command{
			Use:   "skill <manager-id>",
			Short: "Fire a manager's active skill",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withSession(cmd, cfg, func(s *cl.Session) error {
					res := s.Engine.TriggerManagerSkill(args[0])
					if res.Err != nil {
						return res.Err
					}
					if res.Success {
						printSuccess(res.Message)
					} else {
						printWarn(res.Message)
					}
					return nil
				})
			},
		},
	)
	return managers
}

func managerAction(cfg *config.CLIConfig, use, short string, fn func(*game.Engine, string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <manager-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, cfg, func(s *cl.Session) error {
				if err := fn(s.Engine, args[0]); err != nil {
					return err
				}
				printToast(s.Engine)
				return nil
			})
		},
	}
}

func newSummonCmd(cfg *config.CLIConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "summon",
		Short: fmt.Sprintf("Spend %d gems on a manager pull", game.SummonCost),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, cfg, func(s *cl.Session) error {
				res := s.Engine.SummonManager()
				if !res.Success {
					printWarn(res.Message)
					return nil
				}
				if res.Duplicate {
					printInfo(res.Message)
				} else {
					printSuccess(res.Message)
				}
				return nil
			})
		},
	}
}

func newAngelCmd(cfg *config.CLIConfig) *cobra.Command {
	return &cobra.Command{
		Use:     "angel [id]",
		Short:   "List angel upgrades or buy one with investors",
		Aliases: []string{"angels"},
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, cfg, func(s *cl.Session) error {
				if len(args) == 1 {
					if err := s.Engine.BuyAngelUpgrade(args[0]); err != nil {
						return err
					}
					printToast(s.Engine)
				}
				renderAngels(s.Engine.Snapshot())
				return nil
			})
		},
	}
}

func newSkillsCmd(cfg *config.CLIConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "skills [id]",
		Short: "List CEO skills or spend a point",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, cfg, func(s *cl.Session) error {
				if len(args) == 1 {
					if err := s.Engine.UpgradeCeoSkill(args[0]); err != nil {
						return err
					}
					printToast(s.Engine)
				}
				renderSkills(s.Engine.Snapshot())
				return nil
			})
		},
	}
}

func newArtifactsCmd(cfg *config.CLIConfig) *cobra.Command {
	var discover bool
	cmd := &cobra.Command{
		Use:   "artifacts",
		Short: "List artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, cfg, func(s *cl.Session) error {
				if discover {
					a, err := s.Engine.DiscoverArtifact()
					if err != nil {
						return err
					}
					printSuccess(fmt.Sprintf("Discovered %s (%s)!", a.Name, a.Rarity))
				}
				renderArtifacts(s.Engine.Snapshot())
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&discover, "discover", false, fmt.Sprintf("spend %d gems to find a new artifact", game.DiscoverCost))
	return cmd
}

func newPrestigeCmd(cfg *config.CLIConfig) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "prestige",
		Short: "Sell out for investors and start over",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, cfg, func(s *cl.Session) error {
				gain := s.Engine.PrestigeGain()
				if gain <= 0 {
					printWarn("Not enough lifetime earnings to attract new investors.")
					return nil
				}
				if !yes {
					answer, err := promptChoice(fmt.Sprintf("Reset for %d investors?", gain), []string{"yes", "no"}, "no")
					if err != nil {
						return err
					}
					if answer != "yes" {
						printInfo("Prestige cancelled.")
						return nil
					}
				}
				res := s.Engine.Prestige()
				if !res.Success {
					printWarn(res.Message)
					return nil
				}
				printSuccess(res.Message)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}

func newStocksCmd(cfg *config.CLIConfig) *cobra.Command {
	return &cobra.Command{
		Use:     "stocks",
		Short:   "Show the stock market",
		Aliases: []string{"stock", "market"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, cfg, func(s *cl.Session) error {
				renderStocks(s.Engine)
				return nil
			})
		},
	}
}

func newTradeCmd(cfg *config.CLIConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "trade <buy|sell> <stock-id> [shares]",
		Short: "Buy or sell shares",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			side := strings.ToLower(strings.TrimSpace(args[0]))
			if side != "buy" && side != "sell" {
				return fmt.Errorf("side must be buy or sell")
			}
			var shares int64
			if len(args) == 3 {
				n, err := strconv.ParseInt(args[2], 10, 64)
				if err != nil {
					return fmt.Errorf("shares must be a whole number")
				}
				shares = n
			} else {
				n, err := promptInt64("Shares to "+side, 1)
				if err != nil {
					return err
				}
				shares = n
			}
			return withSession(cmd, cfg, func(s *cl.Session) error {
				trade := s.Engine.BuyStock
				if side == "sell" {
					trade = s.Engine.SellStock
				}
				if err := trade(args[1], shares); err != nil {
					return err
				}
				printToast(s.Engine)
				var held int64
				s.Engine.View(func(st *game.State) { held = st.Portfolio[args[1]] })
				printInfo(fmt.Sprintf("Now holding %d shares of %s", held, args[1]))
				return nil
			})
		},
	}
}

func newMissionsCmd(cfg *config.CLIConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "missions",
		Short: "Show daily missions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, cfg, func(s *cl.Session) error {
				if s.Engine.RefreshMissions() {
					printInfo("New daily missions are in.")
				}
				renderMissions(s.Engine.Snapshot())
				return nil
			})
		},
	}
}

func newAchievementsCmd(cfg *config.CLIConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "achievements",
		Short: "Show achievements",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, cfg, func(s *cl.Session) error {
				renderAchievements(s.Engine.Achievements())
				return nil
			})
		},
	}
}

func newClaimCmd(cfg *config.CLIConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "claim <mission-or-achievement-id>",
		Short: "Claim a completed mission or unlocked achievement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, cfg, func(s *cl.Session) error {
				err := s.Engine.ClaimMission(args[0])
				if errors.Is(err, game.ErrUnknownID) {
					err = s.Engine.ClaimAchievement(args[0])
				}
				if err != nil {
					return err
				}
				printToast(s.Engine)
				return nil
			})
		},
	}
}

func newDecideCmd(cfg *config.CLIConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "decide [option]",
		Short: "Resolve the pending business decision",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, cfg, func(s *cl.Session) error {
				d, ok := s.Engine.ActiveDecision()
				if !ok {
					printInfo("No decision is waiting on you.")
					return nil
				}
				renderDecision(d)
				var choice string
				if len(args) == 1 {
					choice = args[0]
				} else {
					opts := make([]string, len(d.Options))
					for i := range d.Options {
						opts[i] = strconv.Itoa(i)
					}
					picked, err := promptChoice("Option", opts, "0")
					if err != nil {
						return err
					}
					choice = picked
				}
				index, err := strconv.Atoi(choice)
				if err != nil {
					return game.ErrInvalidOption
				}
				out, err := s.Engine.ResolveDecision(index)
				if err != nil {
					return err
				}
				if out.Failed {
					printError(out.Message)
				} else {
					printSuccess(out.Message)
				}
				return nil
			})
		},
	}
}

func newDailyCmd(cfg *config.CLIConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "daily",
		Short: "Claim the daily gem reward",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, cfg, func(s *cl.Session) error {
				if !s.Engine.ClaimDailyReward() {
					printWarn("Daily reward already claimed. Come back tomorrow.")
					return nil
				}
				printSuccess(fmt.Sprintf("Claimed %d gems.", game.DailyGems))
				return nil
			})
		},
	}
}

func newTimeWarpCmd(cfg *config.CLIConfig) *cobra.Command {
	var gems int64
	cmd := &cobra.Command{
		Use:   "timewarp <hours>",
		Short: "Spend gems for hours of instant income",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hours, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return game.ErrInvalidAmount
			}
			return withSession(cmd, cfg, func(s *cl.Session) error {
				value := s.Engine.TimeWarpValue(hours)
				if err := s.Engine.BuyTimeWarp(hours, gems); err != nil {
					return err
				}
				printSuccess(fmt.Sprintf("Warped %.1fh ahead for %s", hours, money(value)))
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&gems, "gems", 50, "gem price of the warp")
	return cmd
}

func newSettingsCmd(cfg *config.CLIConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <sfx|haptics>",
		Short: "Flip a settings switch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, cfg, func(s *cl.Session) error {
				var on bool
				switch strings.ToLower(args[0]) {
				case "sfx":
					on = s.Engine.ToggleSfx()
				case "haptics":
					on = s.Engine.ToggleHaptics()
				default:
					return fmt.Errorf("unknown setting %q", args[0])
				}
				state := "off"
				if on {
					state = "on"
				}
				printInfo(fmt.Sprintf("%s is now %s", args[0], state))
				return nil
			})
		},
	}
}

func newExportCmd(cfg *config.CLIConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Print a save token for this slot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, cfg, func(s *cl.Session) error {
				token, err := s.Engine.ExportSaveData()
				if err != nil {
					return err
				}
				fmt.Println(token)
				return nil
			})
		},
	}
}

func newImportCmd(cfg *config.CLIConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "import [token]",
		Short: "Replace this slot with a save token",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var token string
			if len(args) == 1 {
				token = args[0]
			} else {
				t, err := promptRequired("Save token")
				if err != nil {
					return err
				}
				token = t
			}
			token = strings.TrimSpace(token)
			if _, _, err := game.DecodeSave(token); err != nil {
				return err
			}
			return withSession(cmd, cfg, func(s *cl.Session) error {
				if !s.Engine.LoadSaveData(token) {
					return game.ErrBadSave
				}
				printSuccess(fmt.Sprintf("Save loaded into slot %s.", s.Slot))
				return nil
			})
		},
	}
}

func newSlotsCmd(cfg *config.CLIConfig) *cobra.Command {
	slots := &cobra.Command{
		Use:   "slots",
		Short: "List local save slots",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, cfg, func(s *cl.Session) error {
				list, err := s.Store.List(cmd.Context())
				if err != nil {
					return err
				}
				renderSlots(list, s.Slot)
				return nil
			})
		},
	}
	slots.AddCommand(&cobra.Command{
		Use:   "delete <slot>",
		Short: "Delete a save slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == cfg.Slot {
				return fmt.Errorf("cannot delete the slot in use; pass --slot to pick another")
			}
			return withSession(cmd, cfg, func(s *cl.Session) error {
				if err := s.Store.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				printSuccess("Deleted slot " + args[0])
				return nil
			})
		},
	})
	return slots
}
