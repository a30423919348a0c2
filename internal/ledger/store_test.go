package ledger_test

import (
	"context"
	"fmt"
	"testing"

	"capstan/internal/ledger"
	"capstan/internal/testsupport"
)

func TestRecordAndGet(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLedger(t, cfg)

	ctx := context.Background()
	err := store.Record(ctx, ledger.Job{
		JobID:       "job-1",
		SessionID:   "sess-1",
		VideoPath:   "/videos/talk.mp4",
		VideoTitle:  "Talk",
		Language:    "auto",
		Model:       "base",
		RenderVideo: true,
	})
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	job, err := store.Get(ctx, "job-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if job == nil {
		t.Fatal("expected job to be found")
	}
	if job.Status != ledger.StatusSubmitted {
		t.Fatalf("unexpected status %q", job.Status)
	}
	if job.VideoTitle != "Talk" || !job.RenderVideo {
		t.Fatalf("unexpected job fields: %+v", job)
	}
	if job.CreatedAt.IsZero() || job.UpdatedAt.IsZero() {
		t.Fatalf("expected timestamps to be set: %+v", job)
	}
	if job.Finished() {
		t.Fatal("submitted job must not be finished")
	}
}

func TestGetUnknownJobReturnsNil(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLedger(t, cfg)

	job, err := store.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if job != nil {
		t.Fatalf("expected nil for unknown job, got %+v", job)
	}
}

func TestStatusTransitions(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLedger(t, cfg)

	ctx := context.Background()
	if err := store.Record(ctx, ledger.Job{
		JobID:     "job-2",
		VideoPath: "/videos/clip.mp4",
		Language:  "english",
		Model:     "small",
	}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	if err := store.MarkProcessing(ctx, "job-2"); err != nil {
		t.Fatalf("MarkProcessing failed: %v", err)
	}
	job, err := store.Get(ctx, "job-2")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if job.Status != ledger.StatusProcessing {
		t.Fatalf("unexpected status %q", job.Status)
	}

	if err := store.MarkCompleted(ctx, "job-2", "/srv/out/captions.srt", "/srv/out", "/srv/out/clip_sub.mp4"); err != nil {
		t.Fatalf("MarkCompleted failed: %v", err)
	}
	job, err = store.Get(ctx, "job-2")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !job.Finished() || job.Status != ledger.StatusCompleted {
		t.Fatalf("unexpected completion state: %+v", job)
	}
	if job.SRTPath != "/srv/out/captions.srt" || job.OutputDir != "/srv/out" || job.VideoOutputPath != "/srv/out/clip_sub.mp4" {
		t.Fatalf("unexpected artifact paths: %+v", job)
	}
}

func TestMarkFailedStoresMessage(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLedger(t, cfg)

	ctx := context.Background()
	if err := store.Record(ctx, ledger.Job{
		JobID:     "job-3",
		VideoPath: "/videos/clip.mp4",
		Language:  "auto",
		Model:     "base",
	}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := store.MarkFailed(ctx, "job-3", "processing timeout: the video may be too long"); err != nil {
		t.Fatalf("MarkFailed failed: %v", err)
	}

	job, err := store.Get(ctx, "job-3")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if job.Status != ledger.StatusFailed {
		t.Fatalf("unexpected status %q", job.Status)
	}
	if job.Message != "processing timeout: the video may be too long" {
		t.Fatalf("unexpected message %q", job.Message)
	}
}

func TestDuplicateJobIDRejected(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLedger(t, cfg)

	ctx := context.Background()
	entry := ledger.Job{JobID: "job-dup", VideoPath: "/v.mp4", Language: "auto", Model: "base"}
	if err := store.Record(ctx, entry); err != nil {
		t.Fatalf("first Record failed: %v", err)
	}
	if err := store.Record(ctx, entry); err == nil {
		t.Fatal("expected unique constraint violation")
	}
}

func TestRecentOrdersNewestFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLedger(t, cfg)

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		err := store.Record(ctx, ledger.Job{
			JobID:     fmt.Sprintf("job-%d", i),
			VideoPath: "/videos/clip.mp4",
			Language:  "auto",
			Model:     "base",
		})
		if err != nil {
			t.Fatalf("Record %d failed: %v", i, err)
		}
	}

	jobs, err := store.Recent(ctx, 3)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(jobs) != 3 {
		t.Fatalf("expected 3 jobs, got %d", len(jobs))
	}
	if jobs[0].JobID != "job-4" || jobs[2].JobID != "job-2" {
		t.Fatalf("unexpected ordering: %s, %s, %s", jobs[0].JobID, jobs[1].JobID, jobs[2].JobID)
	}
}

func TestReopenKeepsRows(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLedger(t, cfg)

	ctx := context.Background()
	if err := store.Record(ctx, ledger.Job{JobID: "job-keep", VideoPath: "/v.mp4", Language: "auto", Model: "base"}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := ledger.Open(cfg)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	job, err := reopened.Get(ctx, "job-keep")
	if err != nil {
		t.Fatalf("Get after reopen failed: %v", err)
	}
	if job == nil {
		t.Fatal("expected job to survive reopen")
	}
}
