package main

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"capstan/internal/ledger"
	"capstan/internal/services/transcriber"
)

// deriveTitle turns a video filename into a presentable title: extension
// stripped, separator runs collapsed to spaces, title-cased.
func deriveTitle(sourcePath string) string {
	if sourcePath == "" {
		return "Untitled Video"
	}
	base := filepath.Base(sourcePath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	cleaned := strings.Builder{}
	prevSpace := false
	for _, r := range base {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			cleaned.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.':
			if !prevSpace {
				cleaned.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	title := strings.TrimSpace(cleaned.String())
	if title == "" {
		return "Untitled Video"
	}
	return cases.Title(language.Und).String(title)
}

// flattenCueText renders multi-line cue text on a single table row.
func flattenCueText(text string) string {
	return strings.ReplaceAll(text, "\n", " / ")
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

// syncLedgerStatus folds a polled status into the local job history.
// Jobs submitted from another machine are unknown here; those are left
// alone, as are ledger write failures. The display already carries the
// live answer.
func syncLedgerStatus(ctx context.Context, store *ledger.Store, jobID string, status transcriber.JobStatus) {
	job, err := store.Get(ctx, jobID)
	if err != nil || job == nil {
		return
	}
	switch {
	case status.Completed():
		var srtPath, outputDir, videoPath string
		if status.Result != nil {
			srtPath = status.Result.SRTPath
			outputDir = status.Result.OutputDir
			videoPath = status.Result.VideoPath
		}
		_ = store.MarkCompleted(ctx, jobID, srtPath, outputDir, videoPath)
	case status.Failed():
		_ = store.MarkFailed(ctx, jobID, status.ErrorDetail)
	default:
		if job.Status == ledger.StatusSubmitted {
			_ = store.MarkProcessing(ctx, jobID)
		}
	}
}

// syncLedgerEvent records a watch outcome in the local job history.
// Detaching from a watch is not a job failure, so cancellations are
// skipped.
func syncLedgerEvent(ctx context.Context, store *ledger.Store, jobID string, event transcriber.Event) {
	if event.Err != nil && (errors.Is(event.Err, context.Canceled) || errors.Is(event.Err, context.DeadlineExceeded)) {
		return
	}
	ctx = context.WithoutCancel(ctx)
	job, err := store.Get(ctx, jobID)
	if err != nil || job == nil {
		return
	}
	switch event.Kind {
	case transcriber.EventCompleted:
		if event.Result == nil {
			return
		}
		_ = store.MarkCompleted(ctx, jobID, event.Result.SRTPath, event.Result.OutputDir, event.Result.VideoPath)
	case transcriber.EventFailed:
		_ = store.MarkFailed(ctx, jobID, event.Message)
	}
}
