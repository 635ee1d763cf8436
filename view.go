package main

import (
	. "github.com/gagliardetto/utilz"

	"github.com/gagliardetto/solana-latency/internal/models"
)

type probeCounts struct {
	total     int
	located   int
	pinged    int
	udpOpen   int
	noAddress int
}

func countProbes(validators []models.Validator) (c probeCounts) {
	c.total = len(validators)
	for _, v := range validators {
		if v.IP == "" {
			c.noAddress++
			continue
		}
		if v.Operator != models.Unknown || v.City != models.Unknown {
			c.located++
		}
		if v.PingMs != nil {
			c.pinged++
		}
		if v.UDPMs != nil {
			c.udpOpen++
		}
	}
	return c
}

func printSummary(validators []models.Validator) {
	c := countProbes(validators)
	Sfln(
		"%v validators: %v located, %s, %s, %v without gossip address",
		c.total,
		c.located,
		formatReached("icmp", c.pinged, c.total-c.noAddress),
		formatReached("udp", c.udpOpen, c.total-c.noAddress),
		c.noAddress,
	)
}

func formatReached(kind string, reached, probed int) string {
	if reached == probed {
		return Lime(Sf("%s %v/%v", kind, reached, probed))
	}
	return Orange(Sf("%s %v/%v", kind, reached, probed))
}
