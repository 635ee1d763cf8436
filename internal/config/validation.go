package config

import "fmt"

func (c Config) Validate() error {
	if c.Limit < 0 {
		return fmt.Errorf("invalid limit: %d", c.Limit)
	}
	if err := c.RPC.validate(); err != nil {
		return fmt.Errorf("rpc: %s", err)
	}
	if err := c.Geo.validate(); err != nil {
		return fmt.Errorf("geo: %s", err)
	}
	if err := c.Probe.validate(); err != nil {
		return fmt.Errorf("probe: %s", err)
	}

	return nil
}

func (r RPCConfig) validate() error {
	if r.Endpoint == "" {
		return fmt.Errorf("empty endpoint")
	}
	if r.Timeout <= 0 {
		return fmt.Errorf("invalid timeout: %s", r.Timeout)
	}

	return nil
}

func (g GeoConfig) validate() error {
	switch g.Provider {
	case GeoProviderIPAPI:
		if g.URL == "" {
			return fmt.Errorf("empty url")
		}
	case GeoProviderCymru:
	default:
		return fmt.Errorf("unknown provider %q", g.Provider)
	}
	if g.Timeout <= 0 {
		return fmt.Errorf("invalid timeout: %s", g.Timeout)
	}
	if g.CacheTTL < 0 {
		return fmt.Errorf("invalid cache_ttl: %s", g.CacheTTL)
	}

	return nil
}

func (p ProbeConfig) validate() error {
	switch p.ICMP {
	case ProbeExec, ProbeNative:
	default:
		return fmt.Errorf("unknown icmp prober %q", p.ICMP)
	}
	switch p.UDP {
	case ProbeExec, ProbeNmap:
	default:
		return fmt.Errorf("unknown udp prober %q", p.UDP)
	}
	if p.PingCount <= 0 {
		return fmt.Errorf("invalid ping_count: %d", p.PingCount)
	}
	if p.UDPPort <= 0 || p.UDPPort > 65535 {
		return fmt.Errorf("invalid udp_port: %d", p.UDPPort)
	}
	if p.PingTimeout <= 0 || p.UDPTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}

	return nil
}
