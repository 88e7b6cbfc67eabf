// Package formfill classifies the controls of a job application form, decides
// what to put in each one, fills them with human-paced input, and submits.
package formfill

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/jonathan/apply-agent/internal/browser"
)

// Range is an inclusive bound for a randomized pause. A zero Range never sleeps.
type Range struct {
	Min time.Duration
	Max time.Duration
}

// Seconds builds a Range from fractional seconds.
func Seconds(min, max float64) Range {
	return Range{
		Min: time.Duration(min * float64(time.Second)),
		Max: time.Duration(max * float64(time.Second)),
	}
}

// Delays holds every pause the filler makes between browser actions.
type Delays struct {
	Keystroke Range
	Clear     Range
	AfterType Range
	Select    Range
	Upload    Range
	Submit    Range
	PageLoad  Range
}

// DefaultDelays returns the human-cadence pauses used against live sites.
func DefaultDelays() Delays {
	return Delays{
		Keystroke: Seconds(0.05, 0.15),
		Clear:     Seconds(0.2, 0.5),
		AfterType: Seconds(0.5, 1),
		Select:    Seconds(0.5, 1),
		Upload:    Seconds(3, 6),
		Submit:    Seconds(3, 6),
		PageLoad:  Seconds(2, 4),
	}
}

// Pacer sleeps for randomized intervals and types text one character at a time.
type Pacer struct {
	Delays Delays
	// sleep is replaceable in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewPacer creates a Pacer using delays.
func NewPacer(delays Delays) *Pacer {
	return &Pacer{Delays: delays, sleep: sleepContext}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Duration picks a random duration within r.
func (r Range) Duration() time.Duration {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rand.N(r.Max-r.Min+1)
}

// Pause sleeps for a random duration within r. It returns early with the
// context's error if ctx is cancelled.
func (p *Pacer) Pause(ctx context.Context, r Range) error {
	d := r.Duration()
	if d <= 0 {
		return ctx.Err()
	}
	return p.sleep(ctx, d)
}

// Type sends text to el one character at a time with a keystroke pause
// after each character.
func (p *Pacer) Type(ctx context.Context, el browser.Element, text string) error {
	for _, ch := range text {
		if err := el.SendKeys(ctx, string(ch)); err != nil {
			return err
		}
		if err := p.Pause(ctx, p.Delays.Keystroke); err != nil {
			return err
		}
	}
	return nil
}
