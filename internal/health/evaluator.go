package health

import (
	"time"
)

// Status classifies one ingestion channel (webhook or polling).
type Status string

const (
	StatusHealthy  Status = "healthy"
	StatusDegraded Status = "degraded"
	StatusFailing  Status = "failing"
	StatusUnknown  Status = "unknown"
)

// Overall classifies the integration as a whole.
type Overall string

const (
	OverallHealthy Overall = "healthy"
	OverallWarning Overall = "warning"
	OverallError   Overall = "error"
)

// Sync methods persisted on the status row.
const (
	MethodWebhook = "webhook"
	MethodPolling = "polling"
	MethodHybrid  = "hybrid"
)

// Bands holds the staleness thresholds for one channel. An event age below
// HealthyWithin is healthy, below DegradedWithin degraded, anything older
// failing. Boundary values fall into the worse band.
type Bands struct {
	HealthyWithin  time.Duration
	DegradedWithin time.Duration
}

// Classify maps the last event timestamp of a channel onto a Status. A
// disabled channel is always unknown. A nil or zero timestamp on an enabled
// channel counts as infinitely old: the channel is on but has never
// delivered, which is failing.
func Classify(enabled bool, last *time.Time, now time.Time, b Bands) Status {
	if !enabled {
		return StatusUnknown
	}
	if last == nil || last.IsZero() {
		return StatusFailing
	}
	age := now.Sub(*last)
	switch {
	case age < b.HealthyWithin:
		return StatusHealthy
	case age < b.DegradedWithin:
		return StatusDegraded
	default:
		return StatusFailing
	}
}

// Combine derives the overall health and the 0-100 confidence score from the
// pair of channel statuses. The mapping is fixed:
//
//	both healthy            -> healthy, 100
//	exactly one healthy     -> warning, 70
//	none healthy, a degrade -> warning, 40
//	otherwise               -> error, 0
func Combine(webhook, polling Status) (Overall, int) {
	webhookOK := webhook == StatusHealthy
	pollingOK := polling == StatusHealthy
	switch {
	case webhookOK && pollingOK:
		return OverallHealthy, 100
	case webhookOK || pollingOK:
		return OverallWarning, 70
	case webhook == StatusDegraded || polling == StatusDegraded:
		return OverallWarning, 40
	default:
		return OverallError, 0
	}
}
