package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"capstan/internal/session"
)

func newEditCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <captions.srt> <cue-id> <text>...",
		Short: "Replace the text of one cue in a subtitle file",
		Long: `Edit rewrites a single cue in place. Cue ids and timings are preserved
exactly as they appear in the file; only the text of the addressed cue
changes.`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			id, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid cue id %q", args[1])
			}
			text := strings.Join(args[2:], " ")

			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read captions: %w", err)
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			sess := session.New(cfg, nil)
			sess.Dispatch(session.SetCaptionText{Text: string(data)})

			found := false
			for _, cue := range sess.State().Cues {
				if cue.ID == id {
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("cue %d not found in %s", id, path)
			}

			sess.Dispatch(session.EditCueText{ID: id, Text: text})
			if err := os.WriteFile(path, []byte(sess.ExportCaptionText()), 0o644); err != nil {
				return fmt.Errorf("write captions: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated cue %d in %s\n", id, path)
			return nil
		},
	}
}
