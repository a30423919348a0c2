package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"capstan/internal/srt"
	"capstan/internal/timeindex"
)

func newCuesCommand() *cobra.Command {
	var atFlag string

	cmd := &cobra.Command{
		Use:         "cues <captions.srt>",
		Short:       "List the cues in a subtitle file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		Args:        cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read captions: %w", err)
			}
			cues := srt.Decode(string(data))
			if len(cues) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No cues found")
				return nil
			}

			var active srt.Cue
			haveActive := false
			if atFlag != "" {
				at, err := srt.ParseTimecode(atFlag)
				if err != nil {
					return err
				}
				active, haveActive = timeindex.Locate(cues, at)
			}

			rows := make([][]string, 0, len(cues))
			marked := false
			for _, cue := range cues {
				marker := ""
				if haveActive && !marked && cue == active {
					marker = "*"
					marked = true
				}
				rows = append(rows, []string{
					marker,
					strconv.Itoa(cue.ID),
					srt.FormatTimecode(cue.Start),
					srt.FormatTimecode(cue.End),
					flattenCueText(cue.Text),
				})
			}
			headers := []string{"", "ID", "Start", "End", "Text"}
			aligns := []columnAlignment{alignLeft, alignRight, alignLeft, alignLeft, alignLeft}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, aligns))

			if atFlag != "" && !haveActive {
				fmt.Fprintf(cmd.OutOrStdout(), "No cue active at %s\n", atFlag)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&atFlag, "at", "", "Mark the cue active at this timecode (HH:MM:SS,mmm)")
	return cmd
}
