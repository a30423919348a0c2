package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"capstan/internal/ledger"
	"capstan/internal/services/transcriber"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status <job-id>",
		Short: "Show the current state of a submitted job",
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
			status, err := client.Status(cmd.Context(), jobID)
			if err != nil {
				return err
			}

			if store, err := ledger.Open(cfg); err == nil {
				syncLedgerStatus(cmd.Context(), store, jobID, status)
				_ = store.Close()
			}

			rows := [][]string{
				{"Job", jobID},
				{"State", status.Type},
			}
			if status.Step != "" {
				rows = append(rows, []string{"Step", status.Step})
			}
			if status.Percent >= 0 {
				rows = append(rows, []string{"Progress", fmt.Sprintf("%d%%", status.Percent)})
			}
			if status.Message != "" {
				rows = append(rows, []string{"Message", status.Message})
			}
			switch {
			case status.Completed() && status.Result != nil:
				rows = append(rows, []string{"Captions", status.Result.SRTPath})
				rows = append(rows, []string{"Output dir", status.Result.OutputDir})
				if status.Result.VideoCreated {
					rows = append(rows, []string{"Rendered video", status.Result.VideoPath})
				}
			case status.Failed():
				rows = append(rows, []string{"Error", status.ErrorDetail})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows, []columnAlignment{alignLeft, alignLeft}))
			return nil
		},
	}
}
