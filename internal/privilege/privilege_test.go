package privilege

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// skipIfRoot: a root process short-circuits the probe, so the command-level
// cases are unobservable.
func skipIfRoot(t *testing.T) {
	t.Helper()
	if os.Geteuid() == 0 {
		t.Skip("running as root; probe short-circuits before the command")
	}
}

func TestProbeSucceedingCommand(t *testing.T) {
	p := &Prober{Command: []string{"true"}, Log: zerolog.Nop()}
	if !p.Probe(context.Background()) {
		t.Fatal("a command exiting 0 must probe true")
	}
}

func TestProbeFailingCommand(t *testing.T) {
	skipIfRoot(t)
	p := &Prober{Command: []string{"false"}, Log: zerolog.Nop()}
	if p.Probe(context.Background()) {
		t.Fatal("a command exiting non-zero must probe false")
	}
}

func TestProbeMissingBinary(t *testing.T) {
	skipIfRoot(t)
	p := &Prober{
		Command: []string{"definitely-not-a-real-binary-5f2a"},
		Log:     zerolog.Nop(),
	}
	if p.Probe(context.Background()) {
		t.Fatal("a spawn failure must probe false, not error")
	}
}

func TestProbeTimeout(t *testing.T) {
	skipIfRoot(t)
	p := &Prober{
		Command: []string{"sleep", "10"},
		Timeout: 100 * time.Millisecond,
		Log:     zerolog.Nop(),
	}
	start := time.Now()
	if p.Probe(context.Background()) {
		t.Fatal("a timed-out probe must report false")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("probe did not honor its timeout: took %v", elapsed)
	}
}
