package client

import (
	"flag"
	"time"

	"github.com/pkg/errors"

	"github.com/stargate/stargate-grpc-go/pkg/query"
)

// Config holds the connection settings for a Client.
type Config struct {
	Addr               string        `yaml:"addr"`
	Token              string        `yaml:"token"`
	TLSEnabled         bool          `yaml:"tls_enabled"`
	CAPath             string        `yaml:"ca_path"`
	Timeout            time.Duration `yaml:"timeout"`
	MaxRecvMsgSize     int           `yaml:"max_recv_msg_size"`
	DefaultKeyspace    string        `yaml:"default_keyspace"`
	DefaultConsistency string        `yaml:"default_consistency"`

	consistency query.Consistency
}

// RegisterFlags adds the options required to configure this to a FlagSet.
func (cfg *Config) RegisterFlags(f *flag.FlagSet) {
	f.StringVar(&cfg.Addr, "stargate.addr", "localhost:8090", "Address of the query endpoint.")
	f.StringVar(&cfg.Token, "stargate.token", "", "Authentication token sent with every request.")
	f.BoolVar(&cfg.TLSEnabled, "stargate.tls-enabled", false, "Use TLS for the connection.")
	f.StringVar(&cfg.CAPath, "stargate.ca-path", "", "Path to the CA certificate used to verify the server. Uses the system pool when empty.")
	f.DurationVar(&cfg.Timeout, "stargate.timeout", 10*time.Second, "Per-request timeout. 0 to disable.")
	f.IntVar(&cfg.MaxRecvMsgSize, "stargate.max-recv-msg-size", 16*1024*1024, "Maximum size of a received response in bytes.")
	f.StringVar(&cfg.DefaultKeyspace, "stargate.default-keyspace", "", "Keyspace applied to queries that do not set one.")
	f.StringVar(&cfg.DefaultConsistency, "stargate.default-consistency", query.DefaultConsistency.String(), "Consistency level applied to queries that do not set one.")
}

// Validate checks the config and resolves the consistency name.
func (cfg *Config) Validate() error {
	if cfg.Addr == "" {
		return errors.New("stargate address is required")
	}
	c, err := query.ParseConsistency(cfg.DefaultConsistency)
	if err != nil {
		return errors.Wrap(err, "invalid default consistency")
	}
	cfg.consistency = c
	return nil
}
