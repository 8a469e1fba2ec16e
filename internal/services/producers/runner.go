// Package producers runs the external fetch scripts that materialise raw artifacts.
package producers

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/ternarybob/twbrief/internal/common"
)

// datePlaceholder in producer args is replaced with the run date.
const datePlaceholder = "{date}"

// outputTail bounds how much producer output is kept for logging.
const outputTail = 2048

// waitDelay bounds how long a killed producer's children may hold its output open.
const waitDelay = 2 * time.Second

// Outcome is the result of one producer invocation.
type Outcome struct {
	Name     string
	Err      error
	Duration time.Duration
	Output   string // tail of combined stdout/stderr
}

// Summary lists producer outcomes in run order.
type Summary struct {
	Outcomes []Outcome
}

// Failed returns the names of producers that did not succeed.
func (s Summary) Failed() []string {
	var names []string
	for _, o := range s.Outcomes {
		if o.Err != nil {
			names = append(names, o.Name)
		}
	}
	return names
}

// Runner executes producers one at a time.
type Runner struct {
	logger  arbor.ILogger
	limiter *rate.Limiter
}

// NewRunner creates a runner whose launches are at least pacing.MinInterval apart.
func NewRunner(logger arbor.ILogger, pacing common.PacingConfig) (*Runner, error) {
	interval, err := common.ParseOptionalDuration(pacing.MinInterval)
	if err != nil {
		return nil, fmt.Errorf("invalid producer pacing interval: %w", err)
	}
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	burst := pacing.Burst
	if burst < 1 {
		burst = 1
	}
	return &Runner{logger: logger, limiter: rate.NewLimiter(limit, burst)}, nil
}

// Run executes each producer in order. A failing producer is logged and the next one still runs.
// Only context cancellation, or a deadline the pacing cannot meet, stops the batch early.
func (r *Runner) Run(ctx context.Context, producers []common.ProducerConfig, date string) (Summary, error) {
	var summary Summary

	for _, p := range producers {
		if err := r.limiter.Wait(ctx); err != nil {
			r.logger.Warn().Err(err).Str("producer", p.Name).Msg("Producer batch cancelled")
			return summary, fmt.Errorf("producer batch stopped before %s: %w", p.Name, err)
		}

		outcome := r.runOne(ctx, p, date)
		summary.Outcomes = append(summary.Outcomes, outcome)

		if outcome.Err != nil {
			r.logger.Warn().Err(outcome.Err).
				Str("producer", p.Name).
				Dur("duration", outcome.Duration).
				Str("output", outcome.Output).
				Msg("Producer failed, continuing with next")
		} else {
			r.logger.Info().
				Str("producer", p.Name).
				Dur("duration", outcome.Duration).
				Msg("Producer finished")
		}

		if ctx.Err() != nil {
			return summary, ctx.Err()
		}
	}

	r.logger.Info().
		Int("producers", len(summary.Outcomes)).
		Strs("failed", summary.Failed()).
		Msg("Producer batch complete")
	return summary, nil
}

func (r *Runner) runOne(ctx context.Context, p common.ProducerConfig, date string) Outcome {
	outcome := Outcome{Name: p.Name}

	timeout, _ := common.ParseOptionalDuration(p.Timeout)
	runCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	args := make([]string, len(p.Args))
	for i, a := range p.Args {
		args[i] = strings.ReplaceAll(a, datePlaceholder, date)
	}

	cmd := exec.CommandContext(runCtx, p.Command, args...)
	cmd.Dir = p.Dir
	cmd.WaitDelay = waitDelay
	cmd.Env = append(os.Environ(), "TWBRIEF_DATE="+date)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	r.logger.Debug().Str("producer", p.Name).Str("command", p.Command).Strs("args", args).Msg("Starting producer")

	start := time.Now()
	err := cmd.Run()
	outcome.Duration = time.Since(start)
	outcome.Output = tail(out.String(), outputTail)

	if err != nil {
		if runCtx.Err() == context.DeadlineExceeded {
			err = fmt.Errorf("timed out after %s: %w", timeout, err)
		}
		outcome.Err = fmt.Errorf("producer %s: %w", p.Name, err)
	}
	return outcome
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
