package geo

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ammario/ipisp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gagliardetto/solana-latency/internal/config"
	"github.com/gagliardetto/solana-latency/internal/models"
)

func TestParseASN(t *testing.T) {
	tests := map[string]string{
		"AS15169 Google LLC":   "AS15169",
		"as16509 Amazon.com":   "AS16509",
		"24940 Hetzner Online": "AS24940",
		"  AS20326 TeraSwitch": "AS20326",
		"":                     models.Unknown,
		"Unknown":              models.Unknown,
		"ASN Private":          models.Unknown,
		"Hetzner AS24940":      models.Unknown,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseASN(in), "input %q", in)
	}
}

func newIPAPI(t *testing.T, handler http.HandlerFunc) *IPAPI {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewIPAPI(config.GeoConfig{URL: server.URL + "/json/", Timeout: time.Second})
}

func TestIPAPISuccess(t *testing.T) {
	var path string
	g := newIPAPI(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Write([]byte(`{"status":"success","city":"Frankfurt am Main","as":"AS24940 Hetzner Online GmbH"}`))
	})

	loc := g.Resolve(context.Background(), "88.99.1.2")
	assert.Equal(t, "/json/88.99.1.2", path)
	assert.Equal(t, Location{City: "Frankfurt am Main", Operator: "AS24940"}, loc)
}

func TestIPAPIFailStatus(t *testing.T) {
	g := newIPAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"fail","message":"private range","city":"Somewhere","as":"AS1"}`))
	})

	assert.Equal(t, UnknownLocation(), g.Resolve(context.Background(), "192.168.0.1"))
}

func TestIPAPIHTTPError(t *testing.T) {
	g := newIPAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	assert.Equal(t, UnknownLocation(), g.Resolve(context.Background(), "1.1.1.1"))
}

func TestIPAPIMalformed(t *testing.T) {
	g := newIPAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":`))
	})

	assert.Equal(t, UnknownLocation(), g.Resolve(context.Background(), "1.1.1.1"))
}

func TestIPAPITimeout(t *testing.T) {
	done := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-done:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(done)

	g := NewIPAPI(config.GeoConfig{URL: server.URL, Timeout: 50 * time.Millisecond})
	assert.Equal(t, UnknownLocation(), g.Resolve(context.Background(), "1.1.1.1"))
}

func TestIPAPIOmittedFields(t *testing.T) {
	g := newIPAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/json/1.1.1.1" {
			w.Write([]byte(`{"status":"success","as":"AS13335 Cloudflare"}`))
			return
		}
		w.Write([]byte(`{"status":"success","city":"Tokyo"}`))
	})

	assert.Equal(t, Location{City: models.Unknown, Operator: "AS13335"}, g.Resolve(context.Background(), "1.1.1.1"))
	assert.Equal(t, Location{City: "Tokyo", Operator: models.Unknown}, g.Resolve(context.Background(), "2.2.2.2"))
}

type fakeLookuper struct {
	res *ipisp.Response
	err error
}

func (f fakeLookuper) LookupIP(net.IP) (*ipisp.Response, error) {
	return f.res, f.err
}

func TestCymru(t *testing.T) {
	c := &Cymru{client: fakeLookuper{res: &ipisp.Response{ASN: 16509}}}
	assert.Equal(t, Location{City: models.Unknown, Operator: "AS16509"}, c.Resolve(context.Background(), "3.3.3.3"))

	c = &Cymru{client: fakeLookuper{err: errors.New("nxdomain")}}
	assert.Equal(t, UnknownLocation(), c.Resolve(context.Background(), "3.3.3.3"))

	assert.Equal(t, UnknownLocation(), c.Resolve(context.Background(), "not-an-ip"))
}

type countingResolver struct {
	calls map[string]int
}

func (r *countingResolver) Resolve(_ context.Context, ip string) Location {
	r.calls[ip]++
	return Location{City: "City " + ip, Operator: "AS1"}
}

func TestCached(t *testing.T) {
	next := &countingResolver{calls: map[string]int{}}
	c := NewCached(t.Name(), next, time.Minute)

	first := c.Resolve(context.Background(), "10.0.0.1")
	second := c.Resolve(context.Background(), "10.0.0.1")
	c.Resolve(context.Background(), "10.0.0.2")

	assert.Equal(t, first, second)
	assert.Equal(t, "City 10.0.0.1", first.City)
	assert.Equal(t, 1, next.calls["10.0.0.1"])
	assert.Equal(t, 1, next.calls["10.0.0.2"])
}

func TestCachedInstancesDoNotShareEntries(t *testing.T) {
	first := &countingResolver{calls: map[string]int{}}
	second := &countingResolver{calls: map[string]int{}}
	a := NewCached("geo/shared-name", first, time.Minute)
	b := NewCached("geo/shared-name", second, time.Minute)

	a.Resolve(context.Background(), "10.0.0.1")
	b.Resolve(context.Background(), "10.0.0.1")

	assert.Equal(t, 1, first.calls["10.0.0.1"])
	assert.Equal(t, 1, second.calls["10.0.0.1"])
}

func TestNewSelectsProvider(t *testing.T) {
	cfg := config.Default().Geo
	r, err := New(cfg)
	require.NoError(t, err)
	assert.IsType(t, &IPAPI{}, r)

	cfg.CacheTTL = time.Minute
	r, err = New(cfg)
	require.NoError(t, err)
	assert.IsType(t, &Cached{}, r)
}
