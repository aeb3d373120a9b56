package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncRedirectCacheHit is a no-op.
func (n *NoopRecorder) IncRedirectCacheHit() {}

// IncRedirectCacheMiss is a no-op.
func (n *NoopRecorder) IncRedirectCacheMiss() {}

// ObserveRedirectDuration is a no-op.
func (n *NoopRecorder) ObserveRedirectDuration(duration time.Duration) {}

// IncShortURLCreated is a no-op.
func (n *NoopRecorder) IncShortURLCreated() {}

// IncShortURLUpdated is a no-op.
func (n *NoopRecorder) IncShortURLUpdated() {}

// IncShortURLDeleted is a no-op.
func (n *NoopRecorder) IncShortURLDeleted() {}

// IncClickRecorded is a no-op.
func (n *NoopRecorder) IncClickRecorded(status string) {}

// IncDomainConfigured is a no-op.
func (n *NoopRecorder) IncDomainConfigured() {}

// IncDomainRemoved is a no-op.
func (n *NoopRecorder) IncDomainRemoved() {}

// IncDomainValidation is a no-op.
func (n *NoopRecorder) IncDomainValidation(allowed bool) {}
