package service

import (
	"context"
	"errors"
	"sync"

	"github.com/vanshika/ringtrace/backend/internal/domain"
	"github.com/vanshika/ringtrace/backend/internal/report"
)

// TaskError accumulates multiple errors produced during batch analysis.
type TaskError struct {
	Errors []error
}

func (e *TaskError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := "multiple errors:"
	for _, err := range e.Errors {
		msg += " " + err.Error() + ";"
	}
	return msg
}

func (e *TaskError) append(err error) {
	if err == nil {
		return
	}
	e.Errors = append(e.Errors, err)
}

func (e *TaskError) asError() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// BatchAnalyzer runs the detection pipeline over multiple datasets
// using a worker pool. Each dataset is analyzed independently; the
// pipeline itself stays single-threaded per run.
type BatchAnalyzer struct {
	analyzer Analyzer
	workers  int
}

// NewBatchAnalyzer creates a BatchAnalyzer with the provided concurrency.
func NewBatchAnalyzer(analyzer Analyzer, workers int) *BatchAnalyzer {
	if workers <= 0 {
		workers = 4
	}
	return &BatchAnalyzer{
		analyzer: analyzer,
		workers:  workers,
	}
}

// AnalyzeAll processes every dataset concurrently. The returned slice
// is indexed like the input; failed slots hold a zero report and their
// errors are aggregated.
func (ba *BatchAnalyzer) AnalyzeAll(ctx context.Context, datasets [][]domain.Transaction) ([]report.Report, error) {
	if len(datasets) == 0 {
		return nil, nil
	}

	reports := make([]report.Report, len(datasets))
	indexCh := make(chan int)
	errCh := make(chan error, len(datasets))
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for idx := range indexCh {
			result, err := ba.analyzer.Run(ctx, datasets[idx])
			if err != nil {
				select {
				case errCh <- err:
				case <-ctx.Done():
					return
				}
				continue
			}
			reports[idx] = result
		}
	}

	for i := 0; i < ba.workers; i++ {
		wg.Add(1)
		go worker()
	}

Loop:
	for i := range datasets {
		select {
		case indexCh <- i:
		case <-ctx.Done():
			break Loop
		}
	}
	close(indexCh)
	wg.Wait()
	close(errCh)

	var taskErr TaskError
	for err := range errCh {
		if err == nil {
			continue
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return reports, err
		}
		taskErr.append(err)
	}
	return reports, taskErr.asError()
}
