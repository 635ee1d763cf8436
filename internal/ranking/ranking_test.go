package ranking

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gagliardetto/solana-latency/internal/models"
)

func account(stake models.Lamports) models.VoteAccount {
	return models.VoteAccount{
		VotePubkey:     solana.NewWallet().PublicKey(),
		NodePubkey:     solana.NewWallet().PublicKey(),
		ActivatedStake: stake,
	}
}

func TestSelectTopOrdersAcrossLists(t *testing.T) {
	five, ten, one := account(5_000_000_000), account(10_000_000_000), account(1_000_000_000)
	accounts := models.VoteAccounts{
		Current:    []models.VoteAccount{five, ten},
		Delinquent: []models.VoteAccount{one},
	}

	top := SelectTop(accounts, nil, 2)
	require.Len(t, top, 2)
	assert.Equal(t, ten.VotePubkey, top[0].VotePubkey)
	assert.Equal(t, five.VotePubkey, top[1].VotePubkey)
}

func TestSelectTopDelinquentCanRankFirst(t *testing.T) {
	small, big := account(1), account(1_000_000_000_000)
	accounts := models.VoteAccounts{
		Current:    []models.VoteAccount{small},
		Delinquent: []models.VoteAccount{big},
	}

	top := SelectTop(accounts, nil, 20)
	require.Len(t, top, 2)
	assert.Equal(t, big.VotePubkey, top[0].VotePubkey)
}

func TestSelectTopRowCount(t *testing.T) {
	accounts := models.VoteAccounts{
		Current:    []models.VoteAccount{account(3), account(9), account(4)},
		Delinquent: []models.VoteAccount{account(7), account(1)},
	}
	total := len(accounts.Current) + len(accounts.Delinquent)

	for limit := 0; limit <= total+3; limit++ {
		top := SelectTop(accounts, nil, limit)
		want := limit
		if want > total {
			want = total
		}
		require.Len(t, top, want, "limit %d", limit)
		for i := 1; i < len(top); i++ {
			assert.GreaterOrEqual(t, uint64(top[i-1].Stake), uint64(top[i].Stake))
		}
	}
}

func TestSelectTopStableTies(t *testing.T) {
	a, b, c := account(100), account(100), account(100)
	accounts := models.VoteAccounts{
		Current:    []models.VoteAccount{a, b},
		Delinquent: []models.VoteAccount{c},
	}

	top := SelectTop(accounts, nil, 3)
	require.Len(t, top, 3)
	assert.Equal(t, a.VotePubkey, top[0].VotePubkey)
	assert.Equal(t, b.VotePubkey, top[1].VotePubkey)
	assert.Equal(t, c.VotePubkey, top[2].VotePubkey)
}

func TestSelectTopRawStakeOrdering(t *testing.T) {
	// These two differ by one lamport; float64 conversion would collapse them.
	low, high := account(9_007_199_254_740_993), account(9_007_199_254_740_994)
	accounts := models.VoteAccounts{Current: []models.VoteAccount{low, high}}

	top := SelectTop(accounts, nil, 2)
	assert.Equal(t, high.VotePubkey, top[0].VotePubkey)
}

func TestSelectTopAttachesIPs(t *testing.T) {
	withIP, withoutIP := account(2), account(1)
	accounts := models.VoteAccounts{Current: []models.VoteAccount{withIP, withoutIP}}
	nodeIPs := map[solana.PublicKey]string{withIP.NodePubkey: "10.0.0.1"}

	top := SelectTop(accounts, nodeIPs, 2)
	require.Len(t, top, 2)
	assert.Equal(t, "10.0.0.1", top[0].IP)
	assert.Equal(t, "", top[1].IP)
	for _, v := range top {
		assert.Equal(t, models.Unknown, v.City)
		assert.Equal(t, models.Unknown, v.Operator)
		assert.Nil(t, v.PingMs)
		assert.Nil(t, v.UDPMs)
	}
}
