package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/tenfreethrows/freethrows/internal/app"
	"github.com/tenfreethrows/freethrows/internal/config"
	"github.com/tenfreethrows/freethrows/internal/desktop"
	"github.com/tenfreethrows/freethrows/internal/game"
	"github.com/tenfreethrows/freethrows/internal/logging"
	"github.com/tenfreethrows/freethrows/internal/store"
)

type rootFlags struct {
	tuning   string
	logLevel string
}

func newRootCmd() *cobra.Command {
	cfg := config.Load()
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:          "freethrows",
		Short:        "Ten free throws a day",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&flags.tuning, "tuning", cfg.TuningFile, "tuning file (.yaml or .toml)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")

	root.AddCommand(newPlayCmd(cfg, flags), newSimCmd(flags))
	return root
}

func (f *rootFlags) setup() (config.Tuning, *log.Logger, error) {
	logger := logging.New(f.logLevel)
	tun, err := config.LoadTuning(f.tuning)
	return tun, logger, err
}

func newPlayCmd(cfg *config.Config, flags *rootFlags) *cobra.Command {
	statePath := cfg.StateFile

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Open the game window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tun, logger, err := flags.setup()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			core, err := game.New(ctx, game.Options{
				Tuning: tun,
				Slot:   store.NewFileSlot(statePath),
				Logger: logging.For(logger, "game"),
			})
			if err != nil {
				return err
			}
			driver, err := app.New(core, logging.For(logger, "app"))
			if err != nil {
				return err
			}
			logger.Info("state file", "path", statePath)
			return desktop.Run(ctx, driver, desktop.Options{}, logging.For(logger, "desktop"))
		},
	}
	cmd.Flags().StringVar(&statePath, "state", statePath, "file that keeps progress between runs")
	return cmd
}

func newSimCmd(flags *rootFlags) *cobra.Command {
	var (
		shotList string
		frames   int
		practice bool
	)

	cmd := &cobra.Command{
		Use:   "sim",
		Short: "Run scripted shots without a window and print the round result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			shots, err := parseShots(shotList)
			if err != nil {
				return err
			}
			tun, logger, err := flags.setup()
			if err != nil {
				return err
			}

			var result *game.RoundResult
			core, err := game.New(context.Background(), game.Options{
				Tuning: tun,
				Slot:   store.NewMemorySlot(nil),
				Logger: logging.For(logger, "game"),
				OnRoundComplete: func(r game.RoundResult) {
					result = &r
				},
			})
			if err != nil {
				return err
			}
			if practice {
				core.TogglePractice()
			}
			driver, err := app.New(core, logging.For(logger, "app"))
			if err != nil {
				return err
			}

			taken := driver.Simulate(shots, frames)
			return printSummary(cmd, simSummary{
				Taken:  taken,
				Frames: driver.Frames(),
				State:  core.State(),
				Result: result,
			})
		},
	}
	cmd.Flags().StringVar(&shotList, "shots", "", `shot velocities as "vx,vy;vx,vy;..."`)
	cmd.Flags().IntVar(&frames, "frames", 5000, "frames to wait for the ball per shot")
	cmd.Flags().BoolVar(&practice, "practice", false, "shoot in practice mode")
	cmd.MarkFlagRequired("shots")
	return cmd
}

type simSummary struct {
	Taken  int               `json:"shots_taken"`
	Frames int               `json:"frames"`
	State  game.GameState    `json:"state"`
	Result *game.RoundResult `json:"round,omitempty"`
}

func printSummary(cmd *cobra.Command, s simSummary) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}
