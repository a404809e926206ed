package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"ppa-simulator/internal/metrics"
	"ppa-simulator/internal/model"
	"ppa-simulator/internal/simulate"

	"github.com/sirupsen/logrus"
)

// Summary counts the outcomes of one batch run.
type Summary struct {
	Simulated int
	Skipped   int
	Failed    int
	Elapsed   time.Duration
}

// Pool fans profile ids out to a fixed number of workers, each running the
// full sequential pipeline for one profile at a time. Profiles are
// independent: a skip or failure never affects in-flight or queued siblings.
type Pool struct {
	runner  *simulate.Runner
	workers int
	log     *logrus.Entry
}

func New(runner *simulate.Runner, workers int, log *logrus.Entry) (*Pool, error) {
	if runner == nil {
		return nil, errors.New("runner is nil")
	}
	if workers < 1 {
		return nil, errors.New("workers must be >= 1")
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Pool{runner: runner, workers: workers, log: log}, nil
}

// Run processes all profile ids and returns outcome counts. Cancelling the
// context stops dispatching new profiles; in-flight profiles finish.
func (p *Pool) Run(ctx context.Context, profileIDs []int64) Summary {
	started := time.Now()
	jobs := make(chan int64)

	var (
		mu      sync.Mutex
		summary Summary
		wg      sync.WaitGroup
	)

	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range jobs {
				err := p.runOne(ctx, id)
				mu.Lock()
				switch {
				case err == nil:
					summary.Simulated++
				case simulate.IsSkip(err):
					summary.Skipped++
				default:
					summary.Failed++
				}
				mu.Unlock()
			}
		}()
	}

dispatch:
	for _, id := range profileIDs {
		if ctx.Err() != nil {
			p.log.Warn("batch cancelled, draining queue")
			break
		}
		select {
		case <-ctx.Done():
			p.log.Warn("batch cancelled, draining queue")
			break dispatch
		case jobs <- id:
		}
	}
	close(jobs)
	wg.Wait()

	summary.Elapsed = time.Since(started)
	p.log.Infof("batch done: %d simulated, %d skipped, %d failed in %s",
		summary.Simulated, summary.Skipped, summary.Failed, summary.Elapsed.Round(time.Millisecond))
	return summary
}

// runOne shields the pool from a single profile: panics and errors are
// converted to per-profile outcomes here and never cross into the pool loop.
func (p *Pool) runOne(ctx context.Context, profileID int64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("profile %d panicked: %v", profileID, r)
		}
		observe(err)
		if err != nil {
			if simulate.IsSkip(err) {
				p.log.WithField("profile_id", profileID).Warn(err)
			} else {
				p.log.WithField("profile_id", profileID).WithError(err).Error("profile failed")
			}
		}
	}()

	started := time.Now()
	_, err = p.runner.Run(ctx, profileID)
	metrics.RunDuration.Observe(time.Since(started).Seconds())
	return err
}

func observe(err error) {
	switch {
	case err == nil:
		metrics.ProfilesSimulated.Inc()
	case errors.Is(err, simulate.ErrNoWindData):
		metrics.ProfilesSkipped.WithLabelValues(metrics.ReasonNoWindData).Inc()
	case errors.Is(err, model.ErrNoGeneration):
		metrics.ProfilesSkipped.WithLabelValues(metrics.ReasonNoGeneration).Inc()
	case simulate.IsSkip(err):
		metrics.ProfilesSkipped.WithLabelValues(metrics.ReasonOther).Inc()
	default:
		metrics.ProfilesFailed.Inc()
	}
}

// DefaultProfileIDs enumerates the fallback universe [0, maxID) used when the
// store cannot list profiles.
func DefaultProfileIDs(maxID int64) []int64 {
	ids := make([]int64, 0, maxID)
	for i := int64(0); i < maxID; i++ {
		ids = append(ids, i)
	}
	return ids
}
