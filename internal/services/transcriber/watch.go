package transcriber

import (
	"context"
	"errors"

	"capstan/internal/services"
)

// EventKind classifies messages emitted while watching a job.
type EventKind string

const (
	EventProgress  EventKind = "progress"
	EventCompleted EventKind = "completed"
	EventFailed    EventKind = "failed"
)

// Progress carries the display fields from an in-flight status poll.
type Progress struct {
	Step    string
	Message string
	// Percent is -1 when the backend did not report a value.
	Percent int
}

// Event is one message from Watch. Exactly one terminal event (completed
// or failed) is delivered per job, after which the channel closes.
type Event struct {
	Kind     EventKind
	Progress Progress
	Result   *Result
	Message  string
	Err      error
}

// Terminal reports whether the event ends the watch.
func (e Event) Terminal() bool { return e.Kind != EventProgress }

// Watch polls the job until it reaches a terminal state, the attempt cap
// is exhausted, or ctx is cancelled. The returned channel is closed after
// the terminal event is delivered.
func (c *Client) Watch(ctx context.Context, jobID string) <-chan Event {
	events := make(chan Event, 1)
	go func() {
		defer close(events)
		events <- c.watch(ctx, jobID, events)
	}()
	return events
}

// watch returns the terminal event; progress events go out on the channel
// as they arrive.
func (c *Client) watch(ctx context.Context, jobID string, events chan<- Event) Event {
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return cancelledEvent(err)
		}

		status, err := c.Status(ctx, jobID)
		switch {
		case err == nil:
			if status.Completed() {
				return Event{
					Kind:     EventCompleted,
					Progress: Progress{Step: status.Step, Message: status.Message, Percent: status.Percent},
					Result:   status.Result,
					Message:  status.Message,
				}
			}
			if status.Failed() {
				return Event{
					Kind:     EventFailed,
					Progress: Progress{Step: status.Step, Message: status.Message, Percent: status.Percent},
					Message:  status.ErrorDetail,
					Err:      services.Wrap(services.ErrRejected, componentName, "watch", status.ErrorDetail, nil),
				}
			}
			select {
			case events <- Event{
				Kind:     EventProgress,
				Progress: Progress{Step: status.Step, Message: status.Message, Percent: status.Percent},
			}:
			case <-ctx.Done():
				return cancelledEvent(ctx.Err())
			}
			if err := c.sleep(ctx, c.pollInterval); err != nil {
				return cancelledEvent(err)
			}
		case services.Fatal(err):
			return Event{Kind: EventFailed, Message: "job not found on server", Err: err}
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			return cancelledEvent(err)
		default:
			// Transient: back off a little longer before the next poll.
			if err := c.sleep(ctx, c.retryInterval); err != nil {
				return cancelledEvent(err)
			}
		}
	}
	return Event{
		Kind:    EventFailed,
		Message: "processing timeout: the video may be too long",
		Err:     services.Wrap(services.ErrTimeout, componentName, "watch", "attempt cap exhausted", nil),
	}
}

func cancelledEvent(err error) Event {
	return Event{Kind: EventFailed, Message: "processing cancelled", Err: err}
}
