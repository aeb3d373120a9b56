// Package analytics provides click capture for redirects.
package analytics

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hostlink/hostlink/internal/metrics"
	"github.com/hostlink/hostlink/internal/model"
	"github.com/hostlink/hostlink/internal/repository"
)

// RecordTimeout bounds the database work for a single click.
const RecordTimeout = 3 * time.Second

// ClickEvent captures the request metadata of a single redirect.
type ClickEvent struct {
	ShortURLID string
	IPAddress  string
	UserAgent  string
	Referer    string
	Country    string
	City       string
	ClickedAt  time.Time
}

// Recorder persists click events without blocking the redirect path.
// Each event increments the denormalized click counter and inserts an
// analytics row in the background.
type Recorder struct {
	repo    *repository.Repository
	logger  *slog.Logger
	metrics metrics.Recorder
	wg      sync.WaitGroup
}

// NewRecorder creates a new click recorder.
func NewRecorder(repo *repository.Repository, logger *slog.Logger, recorder metrics.Recorder) *Recorder {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Recorder{
		repo:    repo,
		logger:  logger.With("component", "analytics.recorder"),
		metrics: recorder,
	}
}

// Record persists a click event asynchronously. Errors are logged but never
// surfaced to the caller; a redirect must not fail because analytics did.
func (r *Recorder) Record(event ClickEvent) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), RecordTimeout)
		defer cancel()

		if err := r.record(ctx, event); err != nil {
			r.logger.Warn("failed to record click",
				"short_url_id", event.ShortURLID,
				"error", err,
			)
			r.metrics.IncClickRecorded("failed")
			return
		}
		r.metrics.IncClickRecorded("success")
	}()
}

func (r *Recorder) record(ctx context.Context, event ClickEvent) error {
	if err := r.repo.IncrementClicks(ctx, event.ShortURLID); err != nil {
		return err
	}

	clickedAt := event.ClickedAt
	if clickedAt.IsZero() {
		clickedAt = time.Now().UTC()
	}

	return r.repo.InsertClick(ctx, &model.Click{
		ID:         ulid.Make().String(),
		ShortURLID: event.ShortURLID,
		IPAddress:  event.IPAddress,
		UserAgent:  TruncateUserAgent(event.UserAgent),
		Referer:    SanitizeReferrer(event.Referer),
		Country:    event.Country,
		City:       event.City,
		ClickedAt:  clickedAt,
	})
}

// Shutdown waits for in-flight click writes to finish, or for the context
// to be cancelled.
func (r *Recorder) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
