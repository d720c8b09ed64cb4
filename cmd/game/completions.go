package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"gridadventure/internal/game"
	"gridadventure/internal/logging"
)

func newSavesCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "saves",
		Short: "List save files, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(f)
			if err != nil {
				return err
			}

			store := game.NewSaveStore(cfg.SaveDir)
			names, err := store.List()
			if err != nil {
				return fmt.Errorf("failed to list saves: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(names) == 0 {
				fmt.Fprintf(out, "No saves found in %s.\n", store.Dir)
				return nil
			}
			for _, name := range names {
				fmt.Fprintln(out, name)
			}
			fmt.Fprintf(out, "\nResume one with: adventure --load <name> (or --load %s)\n", game.LatestSave)
			return nil
		},
	}
}

func newReviewCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "review [count]",
		Short: "Show recent logged completions",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit := 10
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 1 {
					return fmt.Errorf("invalid count %q", args[0])
				}
				limit = n
			}

			cfg, err := loadConfig(f)
			if err != nil {
				return err
			}
			if cfg.CompletionDB == "" {
				return fmt.Errorf("completion logging is disabled (completion_db is empty)")
			}

			logger, err := logging.NewCompletionLogger(cfg.CompletionDB)
			if err != nil {
				return fmt.Errorf("failed to open completion database: %w", err)
			}
			defer logger.Close()

			completions, err := logger.GetRecentCompletions(limit)
			if err != nil {
				return fmt.Errorf("failed to get completions: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(completions) == 0 {
				fmt.Fprintln(out, "No completions found. Play the game first to generate data!")
				return nil
			}

			fmt.Fprintf(out, "Recent completions (%d):\n\n", len(completions))
			for _, comp := range completions {
				var metadata logging.CompletionMetadata
				if err := json.Unmarshal([]byte(comp.Metadata), &metadata); err == nil {
					fmt.Fprintf(out, "[%d] %s | %v | (%d, %d) %s\n",
						comp.ID,
						comp.Timestamp.Format("15:04:05"),
						metadata.ResponseTime.Round(time.Millisecond),
						comp.X, comp.Y,
						comp.UserInput)
					if metadata.Error != nil {
						fmt.Fprintf(out, "Error: %s\n", *metadata.Error)
					}
				} else {
					fmt.Fprintf(out, "[%d] %s | %s\n", comp.ID, comp.Timestamp.Format("15:04:05"), comp.UserInput)
				}
				fmt.Fprintf(out, "Location: %s\n", comp.Location)
				fmt.Fprintf(out, "Response: %s\n", comp.Response)
				fmt.Fprintln(out, strings.Repeat("-", 50))
			}
			return nil
		},
	}
}
