package gateway

import (
	"context"
	"testing"
)

func TestDigest_DisabledIsNoOp(t *testing.T) {
	d := NewDigest(&DigestConfig{Enabled: false, Schedule: "@hourly"}, NewStats(), &fakePipeline{})
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if d.running {
		t.Error("disabled digest marked running")
	}
	d.Stop()
}

func TestDigest_StartStop(t *testing.T) {
	d := NewDigest(&DigestConfig{Enabled: true, Schedule: "@hourly"}, NewStats(), &fakePipeline{})
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if !d.running {
		t.Error("digest not running after Start")
	}

	// Second start is a no-op, not an error.
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("second Start returned error: %v", err)
	}

	d.Stop()
	if d.running {
		t.Error("digest still running after Stop")
	}
}

func TestDigest_InvalidSchedule(t *testing.T) {
	d := NewDigest(&DigestConfig{Enabled: true, Schedule: "not a cron spec"}, NewStats(), &fakePipeline{})
	if err := d.Start(context.Background()); err == nil {
		t.Error("expected error for invalid cron spec")
	}
}

func TestDigest_RunProbesHealth(t *testing.T) {
	pipeline := &fakePipeline{}
	d := NewDigest(DefaultDigestConfig(), NewStats(), pipeline)
	d.run(context.Background())
	// run consults the pipeline's health; it must not panic on zero stats.
}
