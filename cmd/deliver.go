package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// deliverCmd runs one delivery sweep. It is meant to be fired by an
// external scheduler (cron) once or more per day; the per-session
// last-delivered marker makes redundant firings harmless.
var deliverCmd = &cobra.Command{
	Use:   "deliver",
	Short: "Send tonight's elf idea to every enrolled session",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps(cmd, "elfplan-deliver")
		if err != nil {
			return err
		}
		defer d.close()

		now := time.Now().UTC()
		if at, _ := cmd.Flags().GetString("at"); at != "" {
			now, err = time.Parse(time.RFC3339, at)
			if err != nil {
				return fmt.Errorf("parse --at: %w", err)
			}
			now = now.UTC()
		}

		res, err := d.reminders.Sweep(cmd.Context(), now)
		if err != nil {
			return err
		}

		fmt.Printf("delivered %d, skipped %d, failed %d\n", res.Delivered, res.Skipped, res.Failed)
		return nil
	},
}

func init() {
	deliverCmd.Flags().String("at", "", "Override the sweep instant (RFC3339), for backfills and testing")
}
