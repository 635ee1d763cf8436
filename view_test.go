package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gagliardetto/solana-latency/internal/models"
)

func TestCountProbes(t *testing.T) {
	ms := 10.0
	validators := []models.Validator{
		{IP: "10.0.0.1", City: "Paris", Operator: "AS1", PingMs: &ms, UDPMs: &ms},
		{IP: "10.0.0.2", City: models.Unknown, Operator: models.Unknown, PingMs: &ms},
		{City: models.Unknown, Operator: models.Unknown},
	}

	c := countProbes(validators)
	assert.Equal(t, probeCounts{total: 3, located: 1, pinged: 2, udpOpen: 1, noAddress: 1}, c)
}
