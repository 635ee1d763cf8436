// Package probe measures ICMP round-trip time and UDP port responsiveness.
//
// The default probers shell out to ping and nc. NativePing and NmapUDP are
// drop-in replacements behind the same Prober interface.
package probe

import (
	"bytes"
	"context"
	"math"
	"os/exec"
	"time"

	"github.com/pkg/errors"

	"github.com/gagliardetto/solana-latency/internal/config"
)

var errNoReply = errors.New("no reply")

// Prober returns the latency to target in milliseconds, or nil. A nil latency
// always comes with the error explaining it.
type Prober interface {
	Probe(ctx context.Context, target string, timeout time.Duration) (*float64, error)
}

// Runner starts a process and returns its stdout. Stdout is returned even when
// the process exits non-zero.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	err := cmd.Run()
	return stdout.Bytes(), err
}

// NewICMP builds the ICMP prober selected by cfg.ICMP.
func NewICMP(cfg config.ProbeConfig) Prober {
	if cfg.ICMP == config.ProbeNative {
		return NewNativePing(cfg)
	}
	return NewExecPing(ExecRunner{}, cfg)
}

// NewUDP builds the UDP prober selected by cfg.UDP.
func NewUDP(cfg config.ProbeConfig) Prober {
	if cfg.UDP == config.ProbeNmap {
		return NewNmapUDP(cfg)
	}
	return NewExecUDP(ExecRunner{}, cfg)
}

func durationMs(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

func isExitError(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr)
}
