package models

import (
	"bytes"
	"strconv"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
)

// Unknown is rendered for any metadata that could not be resolved.
const Unknown = "Unknown"

// LamportsPerSOL is the native denomination granularity (9 decimals).
const LamportsPerSOL = 1_000_000_000

// Lamports decodes from either a JSON number or a numeric JSON string.
type Lamports uint64

func (l *Lamports) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) >= 2 && data[0] == '"' && data[len(data)-1] == '"' {
		data = data[1 : len(data)-1]
	}
	v, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return errors.Wrapf(err, "invalid lamports %q", data)
	}
	*l = Lamports(v)
	return nil
}

// SOL converts to the display amount. Never use it for ordering.
func (l Lamports) SOL() float64 {
	return float64(l) / LamportsPerSOL
}

type (
	VoteAccount struct {
		VotePubkey     solana.PublicKey `json:"votePubkey"`
		NodePubkey     solana.PublicKey `json:"nodePubkey"`
		ActivatedStake Lamports         `json:"activatedStake"`
	}

	VoteAccounts struct {
		Current    []VoteAccount `json:"current"`
		Delinquent []VoteAccount `json:"delinquent"`
	}

	// Validator is one ranked row, built fresh on every run.
	Validator struct {
		VotePubkey solana.PublicKey `json:"votePubkey"`
		NodePubkey solana.PublicKey `json:"nodePubkey"`
		Stake      Lamports         `json:"stake"`
		IP         string           `json:"ip"`
		City       string           `json:"city"`
		Operator   string           `json:"operator"`
		Name       string           `json:"name,omitempty"`
		PingMs     *float64         `json:"pingMs,omitempty"` // nil if no echo reply
		UDPMs      *float64         `json:"udpMs,omitempty"`  // nil if the port scan failed
	}
)

// All returns current followed by delinquent accounts.
func (v VoteAccounts) All() []VoteAccount {
	all := make([]VoteAccount, 0, len(v.Current)+len(v.Delinquent))
	all = append(all, v.Current...)
	return append(all, v.Delinquent...)
}
