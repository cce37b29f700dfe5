package advisor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/chazu/meshlens/pkg/logging"
)

// DefaultTimeout bounds a whole stream when Advisor.Timeout is zero.
const DefaultTimeout = 120 * time.Second

// Kind classifies a stream failure.
type Kind int

const (
	KindBackend Kind = iota + 1
	KindTimeout
	KindCancelled
	KindInvalidRequest
)

func (k Kind) String() string {
	switch k {
	case KindBackend:
		return "backend error"
	case KindTimeout:
		return "timed out"
	case KindCancelled:
		return "cancelled"
	case KindInvalidRequest:
		return "invalid request"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is.
var (
	ErrTimeout   = errors.New("recommendation timed out")
	ErrCancelled = errors.New("recommendation cancelled")
)

// Error is delivered in the terminal Event of a failed stream.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return "advisor: " + e.Kind.String()
	}
	return fmt.Sprintf("advisor: %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	switch target {
	case ErrTimeout:
		return e.Kind == KindTimeout
	case ErrCancelled:
		return e.Kind == KindCancelled
	}
	return false
}

// Event is one step of a stream. Text is everything received so far, so a
// consumer that only renders the latest event still shows the full answer.
// The last event on the channel has Done or Err set.
type Event struct {
	Chunk string
	Text  string
	Done  bool
	Err   error
}

// Accumulator folds chunks into the running answer.
type Accumulator struct {
	b strings.Builder
}

// Add appends chunk and returns the text so far.
func (a *Accumulator) Add(chunk string) string {
	a.b.WriteString(chunk)
	return a.b.String()
}

func (a *Accumulator) String() string {
	return a.b.String()
}

// Advisor turns requests into streamed recommendations.
type Advisor struct {
	Backend Backend
	Timeout time.Duration
	Logger  *log.Logger
}

// New creates an Advisor. A zero timeout uses DefaultTimeout.
func New(b Backend, timeout time.Duration, logger *log.Logger) *Advisor {
	return &Advisor{Backend: b, Timeout: timeout, Logger: logger}
}

// Stream starts a recommendation for req. The returned channel receives
// one Event per chunk followed by a terminal event, then is closed.
// Cancelling ctx stops the stream with a KindCancelled error; exceeding the
// timeout stops it with KindTimeout. Callers must drain the channel.
func (a *Advisor) Stream(ctx context.Context, req Request) <-chan Event {
	ch := make(chan Event, 8)
	go a.run(ctx, req, ch)
	return ch
}

func (a *Advisor) run(parent context.Context, req Request, ch chan<- Event) {
	defer close(ch)
	logger := logging.Or(a.Logger)

	if err := req.Validate(); err != nil {
		ch <- Event{Err: &Error{Kind: KindInvalidRequest, Err: err}}
		return
	}

	timeout := a.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	start := time.Now()
	var acc Accumulator
	chunks := 0
	fail := func(err error) {
		e := classify(ctx, err)
		logger.Warn("recommendation failed", "kind", e.Kind, "chunks", chunks, "err", e.Err)
		ch <- Event{Text: acc.String(), Err: e}
	}

	stream, err := a.Backend.Open(ctx, BuildPrompt(req))
	if err != nil {
		fail(err)
		return
	}
	defer stream.Close()

	for {
		c, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			fail(err)
			return
		}
		if ctx.Err() != nil {
			fail(ctx.Err())
			return
		}
		chunks++
		text := acc.Add(c.Content)
		select {
		case ch <- Event{Chunk: c.Content, Text: text}:
		case <-ctx.Done():
			fail(ctx.Err())
			return
		}
	}

	logger.Debug("recommendation done", "chunks", chunks, "chars", len(acc.String()), "took", time.Since(start))
	ch <- Event{Text: acc.String(), Done: true}
}

// classify maps a stream failure to an *Error, preferring the context's
// own state over whatever the backend reported for it.
func classify(ctx context.Context, err error) *Error {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return &Error{Kind: KindTimeout, Err: err}
	case ctx.Err() != nil:
		return &Error{Kind: KindCancelled, Err: err}
	}
	return &Error{Kind: KindBackend, Err: err}
}

// Collect drains events and returns the final text, or the text received
// before the failure together with the error.
func Collect(events <-chan Event) (string, error) {
	var (
		text string
		err  error
	)
	for ev := range events {
		text = ev.Text
		if ev.Err != nil {
			err = ev.Err
		}
	}
	return text, err
}
