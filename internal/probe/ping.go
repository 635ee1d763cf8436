package probe

import (
	"context"
	"regexp"
	"strconv"
	"time"

	"github.com/go-ping/ping"
	"github.com/pkg/errors"

	"github.com/gagliardetto/solana-latency/internal/config"
)

var rttPattern = regexp.MustCompile(`time=([\d.]+) ms`)

// ParseRTT returns the first "time=<n> ms" value found in ping output.
func ParseRTT(out []byte) (float64, bool) {
	m := rttPattern.FindSubmatch(out)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(string(m[1]), 64)
	if err != nil {
		return 0, false
	}

	return v, true
}

// ExecPing runs the OS ping utility and reports the first echo reply only.
type ExecPing struct {
	runner  Runner
	command string
	count   int
}

func NewExecPing(runner Runner, cfg config.ProbeConfig) *ExecPing {
	return &ExecPing{
		runner:  runner,
		command: cfg.PingCommand,
		count:   cfg.PingCount,
	}
}

func (p *ExecPing) Probe(ctx context.Context, target string, timeout time.Duration) (*float64, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := p.runner.Run(ctx, p.command, "-c", strconv.Itoa(p.count), target)
	if ctx.Err() != nil {
		return nil, errors.Wrap(ctx.Err(), p.command)
	}
	// ping exits non-zero when some echoes are lost; its output still counts.
	if err != nil && !isExitError(err) {
		return nil, errors.Wrap(err, p.command)
	}
	rtt, ok := ParseRTT(out)
	if !ok {
		return nil, errNoReply
	}

	return &rtt, nil
}

// NativePing sends echo requests from this process with go-ping.
type NativePing struct {
	count      int
	privileged bool
}

func NewNativePing(cfg config.ProbeConfig) *NativePing {
	return &NativePing{
		count:      cfg.PingCount,
		privileged: cfg.Privileged,
	}
}

func (p *NativePing) Probe(ctx context.Context, target string, timeout time.Duration) (*float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pinger, err := ping.NewPinger(target)
	if err != nil {
		return nil, errors.Wrap(err, "new pinger")
	}
	pinger.Count = p.count
	pinger.Timeout = timeout
	pinger.SetPrivileged(p.privileged)

	err = pinger.Run() // Blocks until finished.
	if err != nil {
		return nil, errors.Wrap(err, "ping")
	}

	return firstRTT(pinger.Statistics())
}

func firstRTT(stats *ping.Statistics) (*float64, error) {
	if stats == nil || len(stats.Rtts) == 0 {
		return nil, errNoReply
	}
	ms := durationMs(stats.Rtts[0])
	return &ms, nil
}
