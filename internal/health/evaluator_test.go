package health

import (
	"testing"
	"time"
)

var webhookBands = Bands{HealthyWithin: 10 * time.Minute, DegradedWithin: 30 * time.Minute}
var pollingBands = Bands{HealthyWithin: 20 * time.Minute, DegradedWithin: 60 * time.Minute}

func agoPtr(now time.Time, d time.Duration) *time.Time {
	t := now.Add(-d)
	return &t
}

func TestClassify_DisabledIsAlwaysUnknown(t *testing.T) {
	now := time.Now().UTC()
	for _, last := range []*time.Time{nil, agoPtr(now, 0), agoPtr(now, 5*time.Minute), agoPtr(now, 48*time.Hour)} {
		if got := Classify(false, last, now, webhookBands); got != StatusUnknown {
			t.Fatalf("Classify(disabled, %v) = %q, want unknown", last, got)
		}
	}
}

func TestClassify_WebhookBands(t *testing.T) {
	now := time.Now().UTC()
	tests := []struct {
		age  time.Duration
		want Status
	}{
		{0, StatusHealthy},
		{9*time.Minute + 59*time.Second, StatusHealthy},
		{10 * time.Minute, StatusDegraded}, // boundary belongs to the worse band
		{29 * time.Minute, StatusDegraded},
		{30 * time.Minute, StatusFailing},
		{45 * time.Minute, StatusFailing},
		{24 * time.Hour, StatusFailing},
	}
	for _, tt := range tests {
		if got := Classify(true, agoPtr(now, tt.age), now, webhookBands); got != tt.want {
			t.Fatalf("Classify(age=%v) = %q, want %q", tt.age, got, tt.want)
		}
	}
}

func TestClassify_PollingBands(t *testing.T) {
	now := time.Now().UTC()
	tests := []struct {
		age  time.Duration
		want Status
	}{
		{19 * time.Minute, StatusHealthy},
		{20 * time.Minute, StatusDegraded},
		{59 * time.Minute, StatusDegraded},
		{60 * time.Minute, StatusFailing},
	}
	for _, tt := range tests {
		if got := Classify(true, agoPtr(now, tt.age), now, pollingBands); got != tt.want {
			t.Fatalf("Classify(age=%v) = %q, want %q", tt.age, got, tt.want)
		}
	}
}

func TestClassify_NeverReceivedIsFailing(t *testing.T) {
	now := time.Now().UTC()
	if got := Classify(true, nil, now, webhookBands); got != StatusFailing {
		t.Fatalf("Classify(nil) = %q, want failing", got)
	}
	var zero time.Time
	if got := Classify(true, &zero, now, webhookBands); got != StatusFailing {
		t.Fatalf("Classify(zero) = %q, want failing", got)
	}
}

func TestCombine_ConfidenceTable(t *testing.T) {
	tests := []struct {
		webhook    Status
		polling    Status
		overall    Overall
		confidence int
	}{
		{StatusHealthy, StatusHealthy, OverallHealthy, 100},
		{StatusHealthy, StatusDegraded, OverallWarning, 70},
		{StatusHealthy, StatusFailing, OverallWarning, 70},
		{StatusHealthy, StatusUnknown, OverallWarning, 70},
		{StatusDegraded, StatusHealthy, OverallWarning, 70},
		{StatusFailing, StatusHealthy, OverallWarning, 70},
		{StatusUnknown, StatusHealthy, OverallWarning, 70},
		{StatusDegraded, StatusDegraded, OverallWarning, 40},
		{StatusDegraded, StatusFailing, OverallWarning, 40},
		{StatusFailing, StatusDegraded, OverallWarning, 40},
		{StatusDegraded, StatusUnknown, OverallWarning, 40},
		{StatusFailing, StatusFailing, OverallError, 0},
		{StatusFailing, StatusUnknown, OverallError, 0},
		{StatusUnknown, StatusUnknown, OverallError, 0},
	}
	for _, tt := range tests {
		overall, confidence := Combine(tt.webhook, tt.polling)
		if overall != tt.overall || confidence != tt.confidence {
			t.Fatalf("Combine(%s, %s) = (%s, %d), want (%s, %d)",
				tt.webhook, tt.polling, overall, confidence, tt.overall, tt.confidence)
		}
	}
}

func TestCombine_Deterministic(t *testing.T) {
	for _, w := range []Status{StatusHealthy, StatusDegraded, StatusFailing, StatusUnknown} {
		for _, p := range []Status{StatusHealthy, StatusDegraded, StatusFailing, StatusUnknown} {
			o1, c1 := Combine(w, p)
			o2, c2 := Combine(w, p)
			if o1 != o2 || c1 != c2 {
				t.Fatalf("Combine(%s, %s) not deterministic: (%s,%d) vs (%s,%d)", w, p, o1, c1, o2, c2)
			}
		}
	}
}
