package ranking

import (
	"sort"

	"github.com/gagliardetto/solana-go"

	"github.com/gagliardetto/solana-latency/internal/models"
)

// SelectTop merges current and delinquent accounts, orders them by raw
// lamports (descending, stable for equal stakes) and keeps the first limit.
// Geolocation fields start as models.Unknown; IP is empty when the node is
// missing from nodeIPs.
func SelectTop(accounts models.VoteAccounts, nodeIPs map[solana.PublicKey]string, limit int) []models.Validator {
	if limit <= 0 {
		return nil
	}
	all := accounts.All()
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].ActivatedStake > all[j].ActivatedStake
	})
	if len(all) > limit {
		all = all[:limit]
	}

	validators := make([]models.Validator, 0, len(all))
	for _, account := range all {
		validators = append(validators, models.Validator{
			VotePubkey: account.VotePubkey,
			NodePubkey: account.NodePubkey,
			Stake:      account.ActivatedStake,
			IP:         nodeIPs[account.NodePubkey],
			City:       models.Unknown,
			Operator:   models.Unknown,
		})
	}

	return validators
}
