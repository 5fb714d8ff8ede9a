package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"syncmonitor/internal/auth"
	"syncmonitor/internal/models"
)

type stubTelephony struct {
	calls []string
	err   error
}

func (s *stubTelephony) SyncAccount(_ context.Context, accountID string) (map[string]any, error) {
	s.calls = append(s.calls, accountID)
	if s.err != nil {
		return nil, s.err
	}
	return map[string]any{"account_id": accountID, "synced": true}, nil
}

type stubCalendar struct {
	calls  []string
	forced []bool
	err    error
}

func (s *stubCalendar) Sync(_ context.Context, integrationID string, force bool) (map[string]any, error) {
	s.calls = append(s.calls, integrationID)
	s.forced = append(s.forced, force)
	if s.err != nil {
		return nil, s.err
	}
	return map[string]any{"integration_id": integrationID}, nil
}

func strPtr(s string) *string { return &s }

func manualTrigger(repo *stubRepo) (*ManualSyncTrigger, *stubTelephony, *stubCalendar) {
	tel := &stubTelephony{}
	cal := &stubCalendar{}
	return &ManualSyncTrigger{Repo: repo, Telephony: tel, Calendar: cal}, tel, cal
}

func TestTrigger_EmptyIdentityIsUnauthorized(t *testing.T) {
	repo := newStubRepo()
	repo.addIntegration(models.Integration{ID: "int-1", UserID: strPtr("user-1"), Category: models.CategoryTelephony})
	svc, tel, _ := manualTrigger(repo)

	_, err := svc.Trigger(context.Background(), auth.Identity{}, "int-1")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if len(tel.calls) != 0 || len(repo.jobs) != 0 || len(repo.stamped) != 0 {
		t.Fatalf("unauthorized call performed work")
	}
}

func TestTrigger_WrongOwnerIsUnauthorized(t *testing.T) {
	repo := newStubRepo()
	repo.addIntegration(models.Integration{ID: "int-1", UserID: strPtr("user-1"), Category: models.CategoryTelephony})
	svc, tel, _ := manualTrigger(repo)

	_, err := svc.Trigger(context.Background(), auth.Identity{UserID: "intruder"}, "int-1")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if len(tel.calls) != 0 || len(repo.jobs) != 0 {
		t.Fatalf("wrong owner performed work")
	}
}

func TestTrigger_UnknownIntegrationIsNotFound(t *testing.T) {
	repo := newStubRepo()
	svc, _, _ := manualTrigger(repo)

	_, err := svc.Trigger(context.Background(), auth.Identity{UserID: "user-1"}, "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestTrigger_TelephonyEnqueuesJobsThenSyncs(t *testing.T) {
	repo := newStubRepo()
	repo.addIntegration(models.Integration{ID: "int-1", UserID: strPtr("user-1"), Provider: "ringer", Category: models.CategoryTelephony})
	svc, tel, cal := manualTrigger(repo)

	result, err := svc.Trigger(context.Background(), auth.Identity{UserID: "user-1"}, "int-1")
	if err != nil {
		t.Fatalf("Trigger: %v", err)
	}
	if !result.Success {
		t.Fatalf("result not successful: %+v", result)
	}

	if len(repo.jobs) != 2 {
		t.Fatalf("jobs queued = %d, want 2", len(repo.jobs))
	}
	types := map[string]bool{}
	for _, job := range repo.jobs {
		types[job.JobType] = true
		if job.IntegrationID != "int-1" || job.Provider != "ringer" || job.Status != models.JobStatusPending {
			t.Fatalf("bad queued job: %+v", job)
		}
	}
	if !types[models.JobTypeCalls] || !types[models.JobTypeMessages] {
		t.Fatalf("job types = %v, want calls and messages", types)
	}

	if len(tel.calls) != 1 || tel.calls[0] != "int-1" {
		t.Fatalf("telephony calls = %v", tel.calls)
	}
	if len(cal.calls) != 0 {
		t.Fatalf("calendar sync invoked for telephony integration")
	}
	if result.Details["jobs_queued"] != 2 {
		t.Fatalf("jobs_queued detail = %v", result.Details["jobs_queued"])
	}
	if len(repo.stamped) != 1 || repo.stamped[0] != "int-1" {
		t.Fatalf("last_sync_at not stamped: %v", repo.stamped)
	}
}

func TestTrigger_MultiCategoryBehavesLikeTelephony(t *testing.T) {
	repo := newStubRepo()
	repo.addIntegration(models.Integration{ID: "int-1", OrganizationID: strPtr("org-1"), Provider: "unifier", Category: models.CategoryMulti})
	svc, tel, _ := manualTrigger(repo)

	result, err := svc.Trigger(context.Background(), auth.Identity{OrganizationID: "org-1"}, "int-1")
	if err != nil {
		t.Fatalf("Trigger: %v", err)
	}
	if !result.Success || len(repo.jobs) != 2 || len(tel.calls) != 1 {
		t.Fatalf("multi category: success=%v jobs=%d calls=%d", result.Success, len(repo.jobs), len(tel.calls))
	}
}

func TestTrigger_CalendarForcesSync(t *testing.T) {
	repo := newStubRepo()
	repo.addIntegration(models.Integration{ID: "int-1", UserID: strPtr("user-1"), Provider: "calbook", Category: models.CategoryCalendar})
	svc, tel, cal := manualTrigger(repo)

	result, err := svc.Trigger(context.Background(), auth.Identity{UserID: "user-1"}, "int-1")
	if err != nil {
		t.Fatalf("Trigger: %v", err)
	}
	if !result.Success {
		t.Fatalf("result not successful: %+v", result)
	}
	if len(cal.calls) != 1 || cal.calls[0] != "int-1" || !cal.forced[0] {
		t.Fatalf("calendar sync = %v forced = %v", cal.calls, cal.forced)
	}
	if len(tel.calls) != 0 || len(repo.jobs) != 0 {
		t.Fatalf("calendar trigger queued telephony work")
	}
	if len(repo.stamped) != 1 {
		t.Fatalf("last_sync_at not stamped")
	}
}

func TestTrigger_UnknownCategorySucceedsWithoutSync(t *testing.T) {
	repo := newStubRepo()
	repo.addIntegration(models.Integration{ID: "int-1", UserID: strPtr("user-1"), Provider: "other", Category: "crm"})
	svc, tel, cal := manualTrigger(repo)

	result, err := svc.Trigger(context.Background(), auth.Identity{UserID: "user-1"}, "int-1")
	if err != nil {
		t.Fatalf("Trigger: %v", err)
	}
	if !result.Success {
		t.Fatalf("unknown category should succeed: %+v", result)
	}
	if result.Message == "" {
		t.Fatalf("expected explanatory message")
	}
	if len(tel.calls) != 0 || len(cal.calls) != 0 {
		t.Fatalf("unknown category invoked a syncer")
	}
	if len(repo.stamped) != 1 {
		t.Fatalf("last_sync_at not stamped")
	}
}

func TestTrigger_DelegatedFailureStillStampsAndQueues(t *testing.T) {
	repo := newStubRepo()
	repo.addIntegration(models.Integration{ID: "int-1", UserID: strPtr("user-1"), Provider: "ringer", Category: models.CategoryTelephony})
	svc, tel, _ := manualTrigger(repo)
	tel.err = fmt.Errorf("upstream says no")

	result, err := svc.Trigger(context.Background(), auth.Identity{UserID: "user-1"}, "int-1")
	if err == nil {
		t.Fatalf("expected delegated error")
	}
	if result.Success {
		t.Fatalf("failed sync reported success")
	}
	if len(repo.jobs) != 2 {
		t.Fatalf("queued jobs rolled back: %d", len(repo.jobs))
	}
	if len(repo.stamped) != 1 {
		t.Fatalf("last_sync_at not stamped on failure")
	}
}

func TestTrigger_JobInsertFailureIsBestEffort(t *testing.T) {
	repo := newStubRepo()
	repo.addIntegration(models.Integration{ID: "int-1", UserID: strPtr("user-1"), Provider: "ringer", Category: models.CategoryTelephony})
	repo.failJobInsert = true
	svc, tel, _ := manualTrigger(repo)

	result, err := svc.Trigger(context.Background(), auth.Identity{UserID: "user-1"}, "int-1")
	if err != nil {
		t.Fatalf("Trigger: %v", err)
	}
	if !result.Success {
		t.Fatalf("queue failure blocked the sync: %+v", result)
	}
	if result.Details["jobs_queued"] != 0 {
		t.Fatalf("jobs_queued detail = %v, want 0", result.Details["jobs_queued"])
	}
	if len(tel.calls) != 1 {
		t.Fatalf("provider sync skipped after queue failure")
	}
}
