package config

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/gagliardetto/solana-go/rpc"
	"gopkg.in/yaml.v3"
)

const (
	GeoProviderIPAPI = "ip-api"
	GeoProviderCymru = "cymru"

	ProbeExec   = "exec"
	ProbeNative = "native"
	ProbeNmap   = "nmap"
)

// Config is passed explicitly to every component; there is no global state.
type Config struct {
	Limit    int          `yaml:"limit"`
	LogLevel string       `yaml:"log_level"`
	RPC      RPCConfig    `yaml:"rpc"`
	Geo      GeoConfig    `yaml:"geo"`
	Probe    ProbeConfig  `yaml:"probe"`
	Report   ReportConfig `yaml:"report"`
}

type RPCConfig struct {
	Endpoint     string        `yaml:"endpoint"`
	Timeout      time.Duration `yaml:"timeout"`
	ResolveNames bool          `yaml:"resolve_names"`
}

type GeoConfig struct {
	Provider string        `yaml:"provider"`
	URL      string        `yaml:"url"`
	Timeout  time.Duration `yaml:"timeout"`
	CacheTTL time.Duration `yaml:"cache_ttl"` // 0 disables the per-IP memo

}

type ProbeConfig struct {
	ICMP        string        `yaml:"icmp"`
	UDP         string        `yaml:"udp"`
	PingCommand string        `yaml:"ping_command"`
	PingCount   int           `yaml:"ping_count"`
	PingTimeout time.Duration `yaml:"ping_timeout"`
	Privileged  bool          `yaml:"privileged"`
	ScanCommand string        `yaml:"scan_command"`
	UDPPort     int           `yaml:"udp_port"`
	UDPWait     time.Duration `yaml:"udp_wait"`
	UDPTimeout  time.Duration `yaml:"udp_timeout"`
}

type ReportConfig struct {
	TokenSymbol string `yaml:"token_symbol"`
	CSVPath     string `yaml:"csv_path"`
	JSONPath    string `yaml:"json_path"`
}

func Default() Config {
	return Config{
		Limit:    20,
		LogLevel: "info",
		RPC: RPCConfig{
			Endpoint: rpc.MainNetBeta_RPC,
			Timeout:  5 * time.Second,
		},
		Geo: GeoConfig{
			Provider: GeoProviderIPAPI,
			URL:      "http://ip-api.com/json",
			Timeout:  5 * time.Second,
		},
		Probe: ProbeConfig{
			ICMP:        ProbeExec,
			UDP:         ProbeExec,
			PingCommand: "ping",
			PingCount:   3,
			PingTimeout: 5 * time.Second,
			ScanCommand: "nc",
			UDPPort:     8001,
			UDPWait:     2 * time.Second,
			UDPTimeout:  3 * time.Second,
		},
		Report: ReportConfig{
			TokenSymbol: "SOL",
		},
	}
}

// LoadFile parses the given YAML file on top of Default().
func LoadFile(filename string) (c Config, err error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return c, err
	}
	cfg, err := Load(content)
	if err != nil {
		return c, fmt.Errorf("parsing YAML file %s: %s", filename, err)
	}

	return cfg, nil
}

// Load parses the YAML input s on top of Default(). Unknown keys are rejected.
func Load(s []byte) (cfg Config, err error) {
	cfg = Default()
	d := yaml.NewDecoder(bytes.NewBuffer(s))
	d.KnownFields(true)
	err = d.Decode(&cfg)
	if err != nil {
		return cfg, err
	}

	return cfg, nil
}
