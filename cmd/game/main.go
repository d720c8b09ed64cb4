// Grid adventure: a terminal text adventure narrated by a language model
// served from an OpenAI-compatible chat completion endpoint. The player walks
// a grid of locations loaded from a CSV table; the session can be saved on
// exit and resumed later.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"gridadventure/cmd/game/ui"
	"gridadventure/internal/config"
	"gridadventure/internal/game"
)

type rootFlags struct {
	configPath string
	load       string
	saveDir    string
	locations  string
	model      string
	baseURL    string
	tui        bool
	debug      bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "adventure",
		Short: "LLM-narrated grid text adventure",
		Long: "adventure explores a grid of locations read from a CSV table. Every action is\n" +
			"narrated by a chat model; type n, s, e or w to move and exit to save and quit.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(f)
			if err != nil {
				return err
			}
			return runPlay(cmd.Context(), cfg, f)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&f.configPath, "config", "c", "", "config file path (default ./"+config.DefaultFile+")")
	rootCmd.PersistentFlags().StringVar(&f.saveDir, "save-dir", "", "directory save files are written to and loaded from")
	rootCmd.Flags().StringVarP(&f.load, "load", "l", "", "resume a save file by name, or 'latest'")
	rootCmd.Flags().StringVar(&f.locations, "locations", "", "CSV file with x, y and description columns")
	rootCmd.Flags().StringVarP(&f.model, "model", "m", "", "override model")
	rootCmd.Flags().StringVar(&f.baseURL, "base-url", "", "OpenAI-compatible API root, e.g. http://localhost:1234/v1")
	rootCmd.Flags().BoolVar(&f.tui, "tui", false, "play turns in a full-screen terminal UI")
	rootCmd.PersistentFlags().BoolVar(&f.debug, "debug", false, "write diagnostics to the debug log")

	rootCmd.AddCommand(newSavesCmd(f))
	rootCmd.AddCommand(newReviewCmd(f))

	return rootCmd
}

// loadConfig loads configuration, applying CLI flag overrides.
func loadConfig(f *rootFlags) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}

	if f.saveDir != "" {
		cfg.SaveDir = f.saveDir
	}
	if f.locations != "" {
		cfg.LocationsPath = f.locations
	}
	if f.model != "" {
		cfg.Model = f.model
	}
	if f.baseURL != "" {
		cfg.BaseURL = f.baseURL
	}
	if f.debug {
		cfg.Debug = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func runPlay(ctx context.Context, cfg *config.Config, f *rootFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}

	a, cleanup, err := createApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	term := ui.NewPlainTerminal(os.Stdin, os.Stdout)
	opts := game.PlayOptions{LoadName: f.load, Width: cfg.WrapWidth}

	if !f.tui {
		return game.Play(ctx, a.game, a.saves, term, opts)
	}

	if err := game.Setup(a.game, a.saves, term, opts); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return ui.Run(a.game, cfg.WrapWidth, a.debug)
}
