package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/abhisek/elfplan/internal/session"
	"github.com/abhisek/elfplan/internal/tui"
)

var hotlineCmd = &cobra.Command{
	Use:   "hotline <session-id>",
	Short: "Chat with the elf about an existing session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps(cmd, "elfplan-hotline")
		if err != nil {
			return err
		}
		defer d.close()

		sessionID := args[0]
		history := []session.ChatTurn{}
		rec, err := d.sessions.Get(cmd.Context(), sessionID)
		if err != nil && !errors.Is(err, session.ErrNotFound) {
			return err
		}
		if rec != nil {
			history = rec.Hotline
		}

		return tui.Run(d.journeys, sessionID, history)
	},
}
