package lifecycle_test

import (
	"testing"

	"kandu_backend/internal/lifecycle"
	"kandu_backend/internal/models"
)

// ── ParseStatus ────────────────────────────────────────────────────────────

func TestParseStatus_ValidValues(t *testing.T) {
	valid := []string{"open", "in_progress", "completed_by_employer", "completed", "cancelled"}
	for _, s := range valid {
		got, err := lifecycle.ParseStatus(s)
		if err != nil {
			t.Errorf("ParseStatus(%q) returned unexpected error: %v", s, err)
		}
		if string(got) != s {
			t.Errorf("ParseStatus(%q) = %q, want %q", s, got, s)
		}
	}
}

func TestParseStatus_Invalid(t *testing.T) {
	for _, s := range []string{"", "OPEN", "done"} {
		if _, err := lifecycle.ParseStatus(s); err == nil {
			t.Errorf("ParseStatus(%q) expected error, got nil", s)
		}
	}
}

// ── IsTransitionAllowed ────────────────────────────────────────────────────

func TestIsTransitionAllowed_Forward(t *testing.T) {
	cases := []struct{ from, to models.JobStatus }{
		{models.JobStatusOpen, models.JobStatusInProgress},
		{models.JobStatusInProgress, models.JobStatusCompletedByEmployer},
		{models.JobStatusCompletedByEmployer, models.JobStatusCompleted},
	}
	for _, tc := range cases {
		if !lifecycle.IsTransitionAllowed(tc.from, tc.to) {
			t.Errorf("IsTransitionAllowed(%s, %s) = false, want true", tc.from, tc.to)
		}
	}
}

func TestIsTransitionAllowed_Backward(t *testing.T) {
	cases := []struct{ from, to models.JobStatus }{
		{models.JobStatusInProgress, models.JobStatusOpen},
		{models.JobStatusCompletedByEmployer, models.JobStatusInProgress},
		{models.JobStatusCompleted, models.JobStatusCompletedByEmployer},
		{models.JobStatusCompleted, models.JobStatusOpen},
	}
	for _, tc := range cases {
		if lifecycle.IsTransitionAllowed(tc.from, tc.to) {
			t.Errorf("IsTransitionAllowed(%s, %s) = true, want false", tc.from, tc.to)
		}
	}
}

func TestIsTransitionAllowed_Skip(t *testing.T) {
	if lifecycle.IsTransitionAllowed(models.JobStatusOpen, models.JobStatusCompleted) {
		t.Error("open -> completed must not be allowed")
	}
	if lifecycle.IsTransitionAllowed(models.JobStatusInProgress, models.JobStatusCompleted) {
		t.Error("in_progress -> completed must not be allowed")
	}
}

func TestIsTransitionAllowed_NoCancellation(t *testing.T) {
	for _, from := range []models.JobStatus{models.JobStatusOpen, models.JobStatusInProgress, models.JobStatusCompletedByEmployer} {
		if lifecycle.IsTransitionAllowed(from, models.JobStatusCancelled) {
			t.Errorf("%s -> cancelled must not be allowed", from)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	if !lifecycle.IsTerminal(models.JobStatusCompleted) {
		t.Error("completed must be terminal")
	}
	if !lifecycle.IsTerminal(models.JobStatusCancelled) {
		t.Error("cancelled must be terminal")
	}
	if lifecycle.IsTerminal(models.JobStatusOpen) {
		t.Error("open must not be terminal")
	}
}

// ── Advance ────────────────────────────────────────────────────────────────

func TestAdvance_WorkerCompleteOnlyFromCompletedByEmployer(t *testing.T) {
	for _, from := range []models.JobStatus{models.JobStatusOpen, models.JobStatusInProgress, models.JobStatusCompleted} {
		got, err := lifecycle.Advance(lifecycle.ActionWorkerComplete, from)
		if err == nil {
			t.Errorf("Advance(worker_complete, %s) expected error", from)
		}
		if got != from {
			t.Errorf("Advance(worker_complete, %s) changed status to %s", from, got)
		}
	}

	got, err := lifecycle.Advance(lifecycle.ActionWorkerComplete, models.JobStatusCompletedByEmployer)
	if err != nil || got != models.JobStatusCompleted {
		t.Errorf("Advance(worker_complete, completed_by_employer) = %s, %v", got, err)
	}
}

func TestAdvance_StartIsIdempotent(t *testing.T) {
	got, err := lifecycle.Advance(lifecycle.ActionStart, models.JobStatusInProgress)
	if err != nil || got != models.JobStatusInProgress {
		t.Errorf("Advance(start, in_progress) = %s, %v", got, err)
	}
	got, err = lifecycle.Advance(lifecycle.ActionStart, models.JobStatusOpen)
	if err != nil || got != models.JobStatusInProgress {
		t.Errorf("Advance(start, open) = %s, %v", got, err)
	}
	if _, err := lifecycle.Advance(lifecycle.ActionStart, models.JobStatusCompleted); err == nil {
		t.Error("Advance(start, completed) expected error")
	}
}

func TestAdvance_EmployerComplete(t *testing.T) {
	if _, err := lifecycle.Advance(lifecycle.ActionEmployerComplete, models.JobStatusOpen); err == nil {
		t.Error("Advance(employer_complete, open) expected error")
	}
	got, err := lifecycle.Advance(lifecycle.ActionEmployerComplete, models.JobStatusInProgress)
	if err != nil || got != models.JobStatusCompletedByEmployer {
		t.Errorf("Advance(employer_complete, in_progress) = %s, %v", got, err)
	}
}

func TestAdvance_NothingLeavesCompleted(t *testing.T) {
	for _, a := range []lifecycle.Action{lifecycle.ActionAccept, lifecycle.ActionStart, lifecycle.ActionEmployerComplete, lifecycle.ActionWorkerComplete} {
		if _, err := lifecycle.Advance(a, models.JobStatusCompleted); err == nil {
			t.Errorf("Advance(%s, completed) expected error", a)
		}
	}
}
