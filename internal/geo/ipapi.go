package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/gagliardetto/solana-latency/internal/config"
	"github.com/gagliardetto/solana-latency/internal/log"
	"github.com/gagliardetto/solana-latency/internal/models"
)

const ipAPIStatusSuccess = "success"

type ipAPIResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	City    string `json:"city"`
	AS      string `json:"as"`
}

// IPAPI queries the ip-api.com JSON endpoint.
type IPAPI struct {
	baseURL    string
	httpClient *http.Client
}

func NewIPAPI(cfg config.GeoConfig) *IPAPI {
	return &IPAPI{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

func (g *IPAPI) Resolve(ctx context.Context, ip string) Location {
	loc, err := g.fetch(ctx, ip)
	if err != nil {
		log.Logger.Geo.Debugf("ip-api %s: %s", ip, err)
		return UnknownLocation()
	}

	return loc
}

func (g *IPAPI) fetch(ctx context.Context, ip string) (loc Location, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/"+ip, nil)
	if err != nil {
		return loc, errors.Wrap(err, "new request")
	}
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return loc, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return loc, fmt.Errorf("api error: %d", resp.StatusCode)
	}

	var apiResp ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return loc, errors.Wrap(err, "decode")
	}
	if apiResp.Status != ipAPIStatusSuccess {
		return loc, fmt.Errorf("api returned status %q: %s", apiResp.Status, apiResp.Message)
	}

	loc = Location{City: apiResp.City, Operator: ParseASN(apiResp.AS)}
	if loc.City == "" {
		loc.City = models.Unknown
	}

	return loc, nil
}
