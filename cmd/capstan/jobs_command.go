package main

import (
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"capstan/internal/ledger"
)

func newJobsCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "List recently submitted jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := ledger.Open(cfg)
			if err != nil {
				return fmt.Errorf("open job history: %w", err)
			}
			defer store.Close()

			jobs, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(jobs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No jobs recorded yet")
				return nil
			}

			rows := make([][]string, 0, len(jobs))
			for _, job := range jobs {
				title := job.VideoTitle
				if title == "" {
					title = filepath.Base(job.VideoPath)
				}
				rows = append(rows, []string{
					job.JobID,
					title,
					job.Language,
					job.Model,
					yesNo(job.RenderVideo),
					string(job.Status),
					humanize.Time(job.CreatedAt),
				})
			}
			headers := []string{"Job", "Video", "Language", "Model", "Render", "Status", "Submitted"}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, nil))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of jobs to show")
	return cmd
}
