// Package directory reads the voting set and the gossip node directory from a
// Solana JSON-RPC endpoint.
package directory

import (
	"context"
	"net"
	"regexp"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"github.com/pkg/errors"

	"github.com/gagliardetto/solana-latency/internal/config"
	"github.com/gagliardetto/solana-latency/internal/log"
	"github.com/gagliardetto/solana-latency/internal/models"
)

const (
	methodGetVoteAccounts = "getVoteAccounts"

	// nameOffset skips the node pubkey at the head of the vote account data.
	nameOffset = 32
)

var namePattern = regexp.MustCompile(`[A-Za-z0-9_-]+`)

type Client struct {
	rpcClient jsonrpc.RPCClient
	solana    *rpc.Client
}

func New(cfg config.RPCConfig) *Client {
	rpcClient := newRPCClient(cfg.Endpoint, cfg.Timeout)
	return &Client{
		rpcClient: rpcClient,
		solana:    rpc.NewWithCustomRPCClient(rpcClient),
	}
}

// FetchVoteAccounts returns the current and delinquent vote accounts.
// The stake is decoded by hand since some RPC providers quote it.
func (c *Client) FetchVoteAccounts(ctx context.Context) (models.VoteAccounts, error) {
	var out models.VoteAccounts
	err := c.rpcClient.CallForInto(ctx, &out, methodGetVoteAccounts, nil)
	if err != nil {
		return out, errors.Wrap(reformatRPCError(err), methodGetVoteAccounts)
	}
	log.Logger.Directory.Debugf(
		"got %d vote accounts (%d current + %d delinquent)",
		len(out.Current)+len(out.Delinquent),
		len(out.Current),
		len(out.Delinquent),
	)

	return out, nil
}

func (c *Client) FetchClusterNodes(ctx context.Context) ([]*rpc.GetClusterNodesResult, error) {
	nodes, err := c.solana.GetClusterNodes(ctx)
	if err != nil {
		return nil, errors.Wrap(reformatRPCError(err), "getClusterNodes")
	}
	log.Logger.Directory.Debugf("got %d cluster nodes", len(nodes))

	return nodes, nil
}

// ResolveValidatorName extracts a best-effort name from the raw vote account
// data. The layout is undocumented and may change between cluster versions,
// so every failure maps to models.Unknown.
func (c *Client) ResolveValidatorName(ctx context.Context, votePubkey solana.PublicKey) string {
	res, err := c.solana.GetAccountInfoWithOpts(ctx, votePubkey, &rpc.GetAccountInfoOpts{
		Encoding: solana.EncodingBase64,
	})
	if err != nil {
		log.Logger.Directory.Debugf("getAccountInfo %s: %s", votePubkey, reformatRPCError(err))
		return models.Unknown
	}
	if res == nil || res.Value == nil || res.Value.Data == nil {
		return models.Unknown
	}

	return ScanName(res.Value.Data.GetBinary())
}

// ScanName returns the first [A-Za-z0-9_-] run found after the fixed offset.
func ScanName(data []byte) string {
	if len(data) <= nameOffset {
		return models.Unknown
	}
	match := namePattern.Find(data[nameOffset:])
	if match == nil {
		return models.Unknown
	}

	return string(match)
}

// NodeIPs maps node identity to the host part of its gossip address.
// Nodes without a usable gossip address are left out.
func NodeIPs(nodes []*rpc.GetClusterNodesResult) map[solana.PublicKey]string {
	ips := make(map[solana.PublicKey]string, len(nodes))
	for _, node := range nodes {
		if node == nil || node.Gossip == nil {
			continue
		}
		host := GossipHost(*node.Gossip)
		if host == "" {
			log.Logger.Directory.Debugf("node %s: unusable gossip address %q", node.Pubkey, *node.Gossip)
			continue
		}
		ips[node.Pubkey] = host
	}

	return ips
}

// GossipHost returns the IP of a host:port (or bare IP) gossip address, or ""
// when it holds no IP literal.
func GossipHost(gossip string) string {
	host, _, err := net.SplitHostPort(gossip)
	if err != nil {
		host = gossip
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return ""
	}

	return ip.String()
}
