// Package latency runs the rank, enrich and probe pipeline, one validator at a
// time.
package latency

import (
	"context"

	"github.com/davecgh/go-spew/spew"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/sirupsen/logrus"

	"github.com/gagliardetto/solana-latency/internal/config"
	"github.com/gagliardetto/solana-latency/internal/directory"
	"github.com/gagliardetto/solana-latency/internal/geo"
	"github.com/gagliardetto/solana-latency/internal/log"
	"github.com/gagliardetto/solana-latency/internal/models"
	"github.com/gagliardetto/solana-latency/internal/probe"
	"github.com/gagliardetto/solana-latency/internal/ranking"
)

type Directory interface {
	FetchVoteAccounts(ctx context.Context) (models.VoteAccounts, error)
	FetchClusterNodes(ctx context.Context) ([]*rpc.GetClusterNodesResult, error)
	ResolveValidatorName(ctx context.Context, votePubkey solana.PublicKey) string
}

type Pipeline struct {
	cfg  config.Config
	dir  Directory
	geo  geo.Resolver
	icmp probe.Prober
	udp  probe.Prober

	// OnValidator, when set, is called before each validator is enriched.
	OnValidator func(index, total int, v *models.Validator)
}

func New(cfg config.Config, dir Directory, resolver geo.Resolver, icmp, udp probe.Prober) *Pipeline {
	return &Pipeline{
		cfg:  cfg,
		dir:  dir,
		geo:  resolver,
		icmp: icmp,
		udp:  udp,
	}
}

// Select fetches the directory and returns the top validators by stake. RPC
// failures are logged and degrade to empty data.
func (p *Pipeline) Select(ctx context.Context) []models.Validator {
	accounts, err := p.dir.FetchVoteAccounts(ctx)
	if err != nil {
		log.Logger.Latency.Errorf("API error: %s", err)
		return nil
	}

	nodes, err := p.dir.FetchClusterNodes(ctx)
	if err != nil {
		log.Logger.Latency.Errorf("API error: %s; continuing without node addresses", err)
		nodes = nil
	}

	return ranking.SelectTop(accounts, directory.NodeIPs(nodes), p.cfg.Limit)
}

// Enrich fills in location, name and probe results. A validator without an IP
// is left untouched: no lookup and no probe is issued for it.
func (p *Pipeline) Enrich(ctx context.Context, v *models.Validator) {
	if p.cfg.RPC.ResolveNames {
		v.Name = p.dir.ResolveValidatorName(ctx, v.VotePubkey)
	}
	if v.IP == "" {
		return
	}

	loc := p.geo.Resolve(ctx, v.IP)
	v.City, v.Operator = loc.City, loc.Operator

	var err error
	if v.PingMs, err = p.icmp.Probe(ctx, v.IP, p.cfg.Probe.PingTimeout); err != nil {
		log.Logger.Probe.Debugf("icmp %s: %s", v.IP, err)
	}
	if v.UDPMs, err = p.udp.Probe(ctx, v.IP, p.cfg.Probe.UDPTimeout); err != nil {
		log.Logger.Probe.Debugf("udp %s: %s", v.IP, err)
	}
}

// Run selects validators and enriches each in turn. The returned slice always
// has one entry per selected validator, in stake order.
func (p *Pipeline) Run(ctx context.Context) []models.Validator {
	validators := p.Select(ctx)
	for i := range validators {
		if p.OnValidator != nil {
			p.OnValidator(i, len(validators), &validators[i])
		}
		p.Enrich(ctx, &validators[i])
		if log.Logger.Latency.Logger.IsLevelEnabled(logrus.DebugLevel) {
			log.Logger.Latency.Debugf("validator: %s", spew.Sdump(validators[i]))
		}
	}

	return validators
}
