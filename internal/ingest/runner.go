package ingest

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/motormatch/motormatch/internal/model"
	"github.com/motormatch/motormatch/internal/store"
)

// Recorder is the slice of the store the runner needs
type Recorder interface {
	StartRun(ctx context.Context, source string) (string, error)
	FinishRun(ctx context.Context, id, status string, fetched, ingested, failed int, notes string) error
	UpsertVehicle(ctx context.Context, v model.Vehicle) error
	UpsertListing(ctx context.Context, l model.Listing) error
	MarkMissingInactive(ctx context.Context, source string, seenVINs []string) (int64, error)
}

// Summary reports what one ingestion pass did
type Summary struct {
	RunID          string
	Source         string
	Fetched        int
	Ingested       int
	Failed         int
	MarkedInactive int64
}

// Runner executes an ingestion pass against one source with full run
// bookkeeping. Individual record failures are counted, not fatal; a failed
// fetch fails the whole run.
type Runner struct {
	recorder Recorder
	logger   *zap.Logger
}

// NewRunner creates a runner
func NewRunner(recorder Recorder, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{recorder: recorder, logger: logger}
}

// Run fetches from the source and persists the payload
func (r *Runner) Run(ctx context.Context, source Source) (*Summary, error) {
	runID, err := r.recorder.StartRun(ctx, source.Name())
	if err != nil {
		return nil, fmt.Errorf("start run: %w", err)
	}
	summary := &Summary{RunID: runID, Source: source.Name()}

	payload, err := source.Fetch(ctx)
	if err != nil {
		finishErr := r.recorder.FinishRun(ctx, runID, store.RunFailed, 0, 0, 0, err.Error())
		if finishErr != nil {
			r.logger.Error("record failed run", zap.Error(finishErr))
		}
		return summary, fmt.Errorf("fetch from %s: %w", source.Name(), err)
	}

	summary.Fetched = len(payload.Vehicles) + len(payload.Listings)

	for _, v := range payload.Vehicles {
		if err := r.recorder.UpsertVehicle(ctx, v); err != nil {
			r.logger.Warn("skip vehicle", zap.String("id", v.ID), zap.Error(err))
			summary.Failed++
			continue
		}
		summary.Ingested++
	}

	seenVINs := make([]string, 0, len(payload.Listings))
	for _, l := range payload.Listings {
		if l.VIN == "" {
			summary.Failed++
			continue
		}
		if err := r.recorder.UpsertListing(ctx, l); err != nil {
			r.logger.Warn("skip listing", zap.String("vin", l.VIN), zap.Error(err))
			summary.Failed++
			continue
		}
		seenVINs = append(seenVINs, l.VIN)
		summary.Ingested++
	}

	marked, err := r.recorder.MarkMissingInactive(ctx, source.Name(), seenVINs)
	if err != nil {
		r.logger.Warn("mark missing listings", zap.Error(err))
	}
	summary.MarkedInactive = marked

	notes := fmt.Sprintf("marked inactive: %d", marked)
	if err := r.recorder.FinishRun(ctx, runID, store.RunSucceeded,
		summary.Fetched, summary.Ingested, summary.Failed, notes); err != nil {
		return summary, fmt.Errorf("finish run: %w", err)
	}

	r.logger.Info("ingestion run finished",
		zap.String("run_id", runID),
		zap.String("source", source.Name()),
		zap.Int("fetched", summary.Fetched),
		zap.Int("ingested", summary.Ingested),
		zap.Int("failed", summary.Failed),
		zap.Int64("marked_inactive", marked))
	return summary, nil
}
