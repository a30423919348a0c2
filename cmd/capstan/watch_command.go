package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"capstan/internal/ledger"
	"capstan/internal/services/transcriber"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <job-id>",
		Short: "Follow the progress of an already-submitted job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobID := strings.TrimSpace(args[0])
			if jobID == "" {
				return errors.New("job id is required")
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			client := transcriber.NewConfiguredClient(cfg)
			store, err := ledger.Open(cfg)
			if err != nil {
				return fmt.Errorf("open job history: %w", err)
			}
			defer store.Close()

			events := client.Watch(cmd.Context(), jobID)
			terminal := consumeEvents(cmd, events, shouldColorize(cmd.OutOrStdout()))
			syncLedgerEvent(cmd.Context(), store, jobID, terminal)

			if terminal.Kind != transcriber.EventCompleted {
				message := terminal.Message
				if message == "" {
					message = "processing failed"
				}
				return errors.New(message)
			}

			out := cmd.OutOrStdout()
			if result := terminal.Result; result != nil {
				fmt.Fprintf(out, "Job %s completed\n", jobID)
				fmt.Fprintf(out, "Captions on server: %s\n", result.SRTPath)
				if result.VideoCreated {
					fmt.Fprintf(out, "Rendered video on server: %s\n", result.VideoPath)
				}
			}
			return nil
		},
	}
}
