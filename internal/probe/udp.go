package probe

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Ullaakut/nmap/v2"
	"github.com/pkg/errors"

	"github.com/gagliardetto/solana-latency/internal/config"
	"github.com/gagliardetto/solana-latency/internal/log"
)

// A UDP scan cannot tell "open" from "filtered": success only means no ICMP
// port-unreachable came back before the wait expired. The reported value is
// the scan's wall-clock duration, not a service round trip.

// ExecUDP runs nc in UDP zero-I/O mode against a fixed port.
type ExecUDP struct {
	runner  Runner
	command string
	port    int
	wait    time.Duration
	now     func() time.Time
}

func NewExecUDP(runner Runner, cfg config.ProbeConfig) *ExecUDP {
	return &ExecUDP{
		runner:  runner,
		command: cfg.ScanCommand,
		port:    cfg.UDPPort,
		wait:    cfg.UDPWait,
		now:     time.Now,
	}
}

func (u *ExecUDP) args(target string) []string {
	wait := int(u.wait / time.Second)
	if wait < 1 {
		wait = 1
	}
	return []string{"-u", "-w", strconv.Itoa(wait), "-z", target, strconv.Itoa(u.port)}
}

func (u *ExecUDP) Probe(ctx context.Context, target string, timeout time.Duration) (*float64, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := u.now()
	_, err := u.runner.Run(ctx, u.command, u.args(target)...)
	if ctx.Err() != nil {
		return nil, errors.Wrap(ctx.Err(), u.command)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "%s udp/%d", u.command, u.port)
	}
	ms := roundTenth(durationMs(u.now().Sub(start)))

	return &ms, nil
}

// NmapUDP scans the port with nmap -sU. Both "open" and "open|filtered" are
// treated as reachable, matching what nc -z reports.
type NmapUDP struct {
	port int
	now  func() time.Time
}

func NewNmapUDP(cfg config.ProbeConfig) *NmapUDP {
	return &NmapUDP{
		port: cfg.UDPPort,
		now:  time.Now,
	}
}

func (u *NmapUDP) Probe(ctx context.Context, target string, timeout time.Duration) (*float64, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	scanner, err := nmap.NewScanner(
		nmap.WithTargets(target),
		nmap.WithPorts(strconv.Itoa(u.port)),
		nmap.WithUDPScan(),
		nmap.WithSkipHostDiscovery(),
		nmap.WithDisabledDNSResolution(),
		nmap.WithHostTimeout(timeout),
		nmap.WithContext(ctx),
	)
	if err != nil {
		return nil, errors.Wrap(err, "nmap")
	}

	start := u.now()
	result, warnings, err := scanner.Run()
	if err != nil {
		return nil, errors.Wrap(err, "nmap")
	}
	if len(warnings) > 0 {
		log.Logger.Probe.Debugf("nmap %s: warnings %v", target, warnings)
	}
	if state := portState(result, uint16(u.port)); !udpReachable(state) {
		return nil, fmt.Errorf("udp/%d %s", u.port, state)
	}
	ms := roundTenth(durationMs(u.now().Sub(start)))

	return &ms, nil
}

func portState(result *nmap.Run, port uint16) string {
	if result == nil {
		return "unknown"
	}
	for _, host := range result.Hosts {
		for _, p := range host.Ports {
			if p.ID == port {
				return p.State.String()
			}
		}
	}
	return "unknown"
}

func udpReachable(state string) bool {
	return state == "open" || state == "open|filtered"
}
