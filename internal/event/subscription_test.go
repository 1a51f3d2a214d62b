package event

import "testing"

func TestSubscription_StateTransitions(t *testing.T) {
	s := newTestSub("id", "a:b")

	if !s.IsActive() || s.State().String() != "active" {
		t.Fatalf("new subscription state = %s", s.State())
	}

	s.Pause()
	if !s.IsPaused() {
		t.Error("expected paused")
	}
	if s.ShouldDeliver(nil) {
		t.Error("paused subscription should not deliver")
	}

	s.Resume()
	if !s.IsActive() {
		t.Error("expected active after Resume")
	}

	s.Cancel()
	s.Resume()
	if !s.IsCancelled() || s.State().String() != "cancelled" {
		t.Errorf("cancelled subscription resumed: %s", s.State())
	}
}

func TestSubscription_Config(t *testing.T) {
	s := newTestSub("id", "a", WithPriority(PriorityHigh), WithOnce())
	cfg := s.Config()
	if cfg.Priority != PriorityHigh || !cfg.Once {
		t.Errorf("config = %+v", cfg)
	}

	if DefaultSubscriptionConfig().Priority != PriorityNormal {
		t.Error("default priority should be normal")
	}
}

func TestPriority_String(t *testing.T) {
	tests := []struct {
		p    Priority
		want string
	}{
		{PriorityCritical, "critical"},
		{PriorityHigh, "high"},
		{150, "normal"},
		{PriorityNormal, "normal"},
		{PriorityLow, "low"},
	}
	for _, tt := range tests {
		if got := tt.p.String(); got != tt.want {
			t.Errorf("Priority(%d).String() = %s, want %s", tt.p, got, tt.want)
		}
	}
}
