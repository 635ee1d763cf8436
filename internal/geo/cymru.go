package geo

import (
	"context"
	"fmt"
	"net"

	"github.com/ammario/ipisp"
	"github.com/pkg/errors"

	"github.com/gagliardetto/solana-latency/internal/log"
	"github.com/gagliardetto/solana-latency/internal/models"
)

type asnLookuper interface {
	LookupIP(ip net.IP) (*ipisp.Response, error)
}

// Cymru resolves the operator through Team Cymru's DNS interface. It has no
// city data, so City is always models.Unknown.
type Cymru struct {
	client asnLookuper
}

func NewCymru() (*Cymru, error) {
	client, err := ipisp.NewDNSClient()
	if err != nil {
		return nil, errors.Wrap(err, "create ipisp client")
	}

	return &Cymru{client: client}, nil
}

func (c *Cymru) Resolve(_ context.Context, ip string) Location {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return UnknownLocation()
	}
	res, err := c.client.LookupIP(parsed)
	if err != nil || res == nil {
		log.Logger.Geo.Debugf("cymru %s: %v", ip, err)
		return UnknownLocation()
	}
	if res.ASN <= 0 {
		return UnknownLocation()
	}

	return Location{
		City:     models.Unknown,
		Operator: fmt.Sprintf("AS%d", int(res.ASN)),
	}
}
