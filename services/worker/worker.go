package worker

import (
	"context"
	"time"

	"unegui-crawler/logger"
)

// Runner is one executable crawl
type Runner interface {
	Run() error
}

// Worker drives crawl runs. With a zero interval it performs a single run;
// otherwise it repeats the crawl on the interval until the context is
// cancelled.
type Worker struct {
	ctx      context.Context
	crawler  Runner
	interval time.Duration
	log      *logger.Logger
}

// NewWorker creates a new worker
func NewWorker(ctx context.Context, c Runner, interval time.Duration) *Worker {
	return &Worker{
		ctx:      ctx,
		crawler:  c,
		interval: interval,
		log:      logger.ForWorker(),
	}
}

// Start runs the crawl. It returns the error of a one-shot run, or nil once
// the context is cancelled in interval mode.
func (w *Worker) Start() error {
	if w.interval <= 0 {
		return w.runOnce()
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if err := w.runOnce(); err != nil {
			w.log.Error().Err(err).Msg("Crawl run failed")
		}

		select {
		case <-w.ctx.Done():
			w.log.Info().Msg("Worker stopping")
			return nil
		case <-ticker.C:
		}
	}
}

// runOnce executes a single crawl and logs its duration
func (w *Worker) runOnce() error {
	start := time.Now()
	w.log.Info().Time("started_at", start).Msg("Starting crawl run")

	err := w.crawler.Run()

	w.log.Info().
		Dur("duration", time.Since(start)).
		Msg("Crawl run finished")

	return err
}
