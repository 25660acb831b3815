package game

import (
	"testing"
	"time"
)

func TestElapsed(t *testing.T) {
	anchor := time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)

	t.Run("stopped clock returns checkpoint", func(t *testing.T) {
		g := Game{Status: StatusInProgress, ElapsedSeconds: 600}
		if got := g.Elapsed(anchor.Add(time.Hour)); got != 600 {
			t.Fatalf("Elapsed = %d, want 600", got)
		}
	})

	t.Run("running clock adds wall delta", func(t *testing.T) {
		g := Game{Status: StatusInProgress, ElapsedSeconds: 600, LastResumeAt: &anchor}
		if got := g.Elapsed(anchor.Add(42 * time.Second)); got != 642 {
			t.Fatalf("Elapsed = %d, want 642", got)
		}
	})

	t.Run("backwards wall clock clamps at checkpoint", func(t *testing.T) {
		g := Game{Status: StatusInProgress, ElapsedSeconds: 600, LastResumeAt: &anchor}
		if got := g.Elapsed(anchor.Add(-time.Minute)); got != 600 {
			t.Fatalf("Elapsed = %d, want 600", got)
		}
	})

	t.Run("hard cap bounds runaway clocks", func(t *testing.T) {
		g := Game{Status: StatusInProgress, ElapsedSeconds: 600, LastResumeAt: &anchor}
		if got := g.Elapsed(anchor.Add(24 * time.Hour)); got != HardCapSeconds {
			t.Fatalf("Elapsed = %d, want %d", got, HardCapSeconds)
		}
	})
}

func TestRunning(t *testing.T) {
	anchor := time.Now()

	tests := []struct {
		name string
		g    Game
		want bool
	}{
		{name: "in progress with anchor", g: Game{Status: StatusInProgress, LastResumeAt: &anchor}, want: true},
		{name: "in progress paused", g: Game{Status: StatusInProgress}, want: false},
		{name: "halftime with stale anchor", g: Game{Status: StatusHalftime, LastResumeAt: &anchor}, want: false},
		{name: "scheduled", g: Game{Status: StatusScheduled}, want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.g.Running(); got != tc.want {
				t.Fatalf("Running = %t, want %t", got, tc.want)
			}
		})
	}
}

func TestValidTransition(t *testing.T) {
	valid := [][2]string{
		{StatusScheduled, StatusInProgress},
		{StatusInProgress, StatusHalftime},
		{StatusInProgress, StatusCompleted},
		{StatusHalftime, StatusInProgress},
		{StatusHalftime, StatusCompleted},
	}
	for _, pair := range valid {
		if !ValidTransition(pair[0], pair[1]) {
			t.Fatalf("expected %s -> %s to be valid", pair[0], pair[1])
		}
	}

	invalid := [][2]string{
		{StatusScheduled, StatusHalftime},
		{StatusScheduled, StatusCompleted},
		{StatusCompleted, StatusInProgress},
		{StatusCompleted, StatusHalftime},
		{StatusHalftime, StatusScheduled},
	}
	for _, pair := range invalid {
		if ValidTransition(pair[0], pair[1]) {
			t.Fatalf("expected %s -> %s to be invalid", pair[0], pair[1])
		}
	}
}

func TestNormalizeStatus(t *testing.T) {
	if got := NormalizeStatus("in_progress"); got != StatusInProgress {
		t.Fatalf("NormalizeStatus = %q", got)
	}
	if got := NormalizeStatus("paused?"); got != StatusScheduled {
		t.Fatalf("NormalizeStatus = %q, want scheduled", got)
	}
}
