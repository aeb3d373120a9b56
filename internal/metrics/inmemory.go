package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	RedirectCacheHits       uint64 `json:"redirect_cache_hits"`
	RedirectCacheMisses     uint64 `json:"redirect_cache_misses"`
	RedirectDurationCount   uint64 `json:"redirect_duration_count"`
	RedirectDurationTotalNs int64  `json:"redirect_duration_total_ns"`
	ShortURLsCreated        uint64 `json:"short_urls_created"`
	ShortURLsUpdated        uint64 `json:"short_urls_updated"`
	ShortURLsDeleted        uint64 `json:"short_urls_deleted"`
	ClicksRecorded          uint64 `json:"clicks_recorded"`
	ClicksFailed            uint64 `json:"clicks_failed"`
	DomainsConfigured       uint64 `json:"domains_configured"`
	DomainsRemoved          uint64 `json:"domains_removed"`
	DomainValidationsAllow  uint64 `json:"domain_validations_allow"`
	DomainValidationsDeny   uint64 `json:"domain_validations_deny"`
}

// InMemoryRecorder stores metrics in memory behind atomic counters.
type InMemoryRecorder struct {
	redirectCacheHits       uint64
	redirectCacheMisses     uint64
	redirectDurationCount   uint64
	redirectDurationTotalNs int64
	shortURLsCreated        uint64
	shortURLsUpdated        uint64
	shortURLsDeleted        uint64
	clicksRecorded          uint64
	clicksFailed            uint64
	domainsConfigured       uint64
	domainsRemoved          uint64
	domainValidationsAllow  uint64
	domainValidationsDeny   uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		RedirectCacheHits:       atomic.LoadUint64(&m.redirectCacheHits),
		RedirectCacheMisses:     atomic.LoadUint64(&m.redirectCacheMisses),
		RedirectDurationCount:   atomic.LoadUint64(&m.redirectDurationCount),
		RedirectDurationTotalNs: atomic.LoadInt64(&m.redirectDurationTotalNs),
		ShortURLsCreated:        atomic.LoadUint64(&m.shortURLsCreated),
		ShortURLsUpdated:        atomic.LoadUint64(&m.shortURLsUpdated),
		ShortURLsDeleted:        atomic.LoadUint64(&m.shortURLsDeleted),
		ClicksRecorded:          atomic.LoadUint64(&m.clicksRecorded),
		ClicksFailed:            atomic.LoadUint64(&m.clicksFailed),
		DomainsConfigured:       atomic.LoadUint64(&m.domainsConfigured),
		DomainsRemoved:          atomic.LoadUint64(&m.domainsRemoved),
		DomainValidationsAllow:  atomic.LoadUint64(&m.domainValidationsAllow),
		DomainValidationsDeny:   atomic.LoadUint64(&m.domainValidationsDeny),
	}
}

// IncRedirectCacheHit increments the cache hit counter.
func (m *InMemoryRecorder) IncRedirectCacheHit() {
	atomic.AddUint64(&m.redirectCacheHits, 1)
}

// IncRedirectCacheMiss increments the cache miss counter.
func (m *InMemoryRecorder) IncRedirectCacheMiss() {
	atomic.AddUint64(&m.redirectCacheMisses, 1)
}

// ObserveRedirectDuration records redirect duration.
func (m *InMemoryRecorder) ObserveRedirectDuration(duration time.Duration) {
	atomic.AddUint64(&m.redirectDurationCount, 1)
	atomic.AddInt64(&m.redirectDurationTotalNs, duration.Nanoseconds())
}

// IncShortURLCreated increments the created counter.
func (m *InMemoryRecorder) IncShortURLCreated() {
	atomic.AddUint64(&m.shortURLsCreated, 1)
}

// IncShortURLUpdated increments the updated counter.
func (m *InMemoryRecorder) IncShortURLUpdated() {
	atomic.AddUint64(&m.shortURLsUpdated, 1)
}

// IncShortURLDeleted increments the deleted counter.
func (m *InMemoryRecorder) IncShortURLDeleted() {
	atomic.AddUint64(&m.shortURLsDeleted, 1)
}

// IncClickRecorded increments the click counter for the given status.
func (m *InMemoryRecorder) IncClickRecorded(status string) {
	if status == "success" {
		atomic.AddUint64(&m.clicksRecorded, 1)
		return
	}
	atomic.AddUint64(&m.clicksFailed, 1)
}

// IncDomainConfigured increments the domain configured counter.
func (m *InMemoryRecorder) IncDomainConfigured() {
	atomic.AddUint64(&m.domainsConfigured, 1)
}

// IncDomainRemoved increments the domain removed counter.
func (m *InMemoryRecorder) IncDomainRemoved() {
	atomic.AddUint64(&m.domainsRemoved, 1)
}

// IncDomainValidation increments the validation counter for the outcome.
func (m *InMemoryRecorder) IncDomainValidation(allowed bool) {
	if allowed {
		atomic.AddUint64(&m.domainValidationsAllow, 1)
		return
	}
	atomic.AddUint64(&m.domainValidationsDeny, 1)
}
