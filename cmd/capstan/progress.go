package main

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"capstan/internal/services/transcriber"
)

// consumeEvents renders job progress until the event stream closes and
// returns the terminal event. Interactive terminals get a live progress
// bar; everything else gets one line per status change.
func consumeEvents(cmd *cobra.Command, events <-chan transcriber.Event, interactive bool) transcriber.Event {
	if interactive {
		return consumeWithBar(cmd, events)
	}
	return consumeWithLines(cmd, events)
}

func consumeWithBar(cmd *cobra.Command, events <-chan transcriber.Event) transcriber.Event {
	bar := progressbar.NewOptions(100,
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionSetDescription("Submitting"),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionClearOnFinish(),
	)

	var last transcriber.Event
	for event := range events {
		last = event
		switch event.Kind {
		case transcriber.EventProgress:
			if event.Progress.Step != "" {
				bar.Describe(event.Progress.Step)
			}
			if event.Progress.Percent >= 0 {
				_ = bar.Set(event.Progress.Percent)
			}
		case transcriber.EventCompleted:
			_ = bar.Finish()
		case transcriber.EventFailed:
			_ = bar.Exit()
			fmt.Fprintln(cmd.ErrOrStderr())
		}
	}
	return last
}

func consumeWithLines(cmd *cobra.Command, events <-chan transcriber.Event) transcriber.Event {
	out := cmd.OutOrStdout()

	var last transcriber.Event
	lastStep := ""
	lastPercent := -2
	for event := range events {
		last = event
		switch event.Kind {
		case transcriber.EventProgress:
			if event.Progress.Step == lastStep && event.Progress.Percent == lastPercent {
				continue
			}
			lastStep = event.Progress.Step
			lastPercent = event.Progress.Percent
			if event.Progress.Percent >= 0 {
				fmt.Fprintf(out, "[%3d%%] %s\n", event.Progress.Percent, event.Progress.Step)
			} else {
				fmt.Fprintf(out, "[ ...] %s\n", event.Progress.Step)
			}
		case transcriber.EventCompleted:
			fmt.Fprintln(out, "[100%] Complete")
		case transcriber.EventFailed:
			// The caller surfaces the failure message as the command error.
		}
	}
	return last
}
