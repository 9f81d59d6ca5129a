package main

import (
	"context"
	"fmt"
	"time"

	"tycoon/internal/api"
	cl "tycoon/internal/cli"
	"tycoon/internal/config"
	"tycoon/internal/game"

	"github.com/spf13/cobra"
)

func newRemoteCmd(cfg *config.CLIConfig) *cobra.Command {
	remote := &cobra.Command{
		Use:   "remote",
		Short: "Play against a tycoon-api server",
	}
	remote.PersistentFlags().StringVar(&cfg.APIURL, "api", cfg.APIURL, "tycoon-api base url")
	remote.PersistentFlags().StringVar(&cfg.Token, "token", cfg.Token, "bearer token when the server verifies logins")

	remote.AddCommand(
		&cobra.Command{
			Use:   "status",
			Short: "Show the remote empire",
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
				defer cancel()
				view, err := newClient(cfg).State(ctx)
				if err != nil {
					return err
				}
				renderRemoteView(view)
				return nil
			},
		},
		&cobra.Command{
			Use:   "tap",
			Short: "Tap on the server",
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
				defer cancel()
				earned, err := newClient(cfg).Tap(ctx)
				if err != nil {
					return err
				}
				printSuccess("Earned " + money(earned))
				return nil
			},
		},
		newRemoteLeaderboardCmd(cfg),
		&cobra.Command{
			Use:   "push",
			Short: "Upload the local slot to the server",
			RunE: func(cmd *cobra.Command, args []string) error {
				var token string
				err := withSession(cmd, cfg, func(s *cl.Session) error {
					t, err := s.Engine.ExportSaveData()
					token = t
					return err
				})
				if err != nil {
					return err
				}
				ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
				defer cancel()
				if err := newClient(cfg).Import(ctx, token); err != nil {
					return err
				}
				printSuccess("Pushed slot " + cfg.Slot + " to the server.")
				return nil
			},
		},
		&cobra.Command{
			Use:   "pull",
			Short: "Replace the local slot with the server copy",
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
				defer cancel()
				token, err := newClient(cfg).Export(ctx)
				if err != nil {
					return err
				}
				return withSession(cmd, cfg, func(s *cl.Session) error {
					if !s.Engine.LoadSaveData(token) {
						return game.ErrBadSave
					}
					printSuccess("Pulled server save into slot " + s.Slot + ".")
					return nil
				})
			},
		},
	)
	return remote
}

func newRemoteLeaderboardCmd(cfg *config.CLIConfig) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the richest players",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			rows, err := newClient(cfg).Leaderboard(ctx, limit)
			if err != nil {
				return err
			}
			renderLeaderboard(rows)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "rows to show")
	return cmd
}

// newClient keys the remote player by slot name unless a token says who we are.
func newClient(cfg *config.CLIConfig) *cl.Client {
	return cl.NewClient(cfg.APIURL, cfg.Token, cfg.Slot)
}

func renderRemoteView(v api.StateView) {
	s := v.State
	accent.Printf("\n== REMOTE EMPIRE (CEO level %d) ==\n", s.Ceo.Level)
	fmt.Printf("Cash:        %s\n", money(s.Money))
	fmt.Printf("Income:      %s/s\n", money(v.RevenuePerSecond))
	fmt.Printf("Multiplier:  x%.2f\n", v.GlobalMultiplier)
	fmt.Printf("Gems:        %d\n", s.Gems)
	fmt.Printf("Investors:   %d (+%d on prestige)\n", s.Investors, v.PrestigeGain)
	fmt.Printf("Portfolio:   %s\n", money(v.PortfolioValue))
	if v.Decision != nil {
		warn.Printf("Decision:    %s\n", v.Decision.Title)
	}
	if v.Toast != nil {
		printInfo(v.Toast.Message)
	}
	fmt.Println()
}
