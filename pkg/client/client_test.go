package client

import (
	"context"
	"flag"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stargate/stargate-grpc-go/pkg/query"
)

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	fs := flag.NewFlagSet("test", flag.PanicOnError)
	cfg.RegisterFlags(fs)
	require.NoError(t, fs.Parse(nil))

	require.Equal(t, "localhost:8090", cfg.Addr)
	require.Equal(t, 10*time.Second, cfg.Timeout)
	require.Equal(t, 16*1024*1024, cfg.MaxRecvMsgSize)
	require.False(t, cfg.TLSEnabled)
	require.Equal(t, "QUORUM", cfg.DefaultConsistency)

	require.NoError(t, cfg.Validate())
	require.Equal(t, query.Quorum, cfg.consistency)
}

func TestConfigValidate(t *testing.T) {
	t.Run("missing address", func(t *testing.T) {
		cfg := Config{DefaultConsistency: "QUORUM"}
		require.Error(t, cfg.Validate())
	})

	t.Run("unknown consistency", func(t *testing.T) {
		cfg := Config{Addr: "localhost:8090", DefaultConsistency: "SOMETIMES"}
		require.Error(t, cfg.Validate())
	})

	t.Run("consistency is case insensitive", func(t *testing.T) {
		cfg := Config{Addr: "localhost:8090", DefaultConsistency: "local_quorum"}
		require.NoError(t, cfg.Validate())
		require.Equal(t, query.LocalQuorum, cfg.consistency)
	})
}

func TestAuthToken(t *testing.T) {
	auth := NewAuthToken("secret-token", true)

	md, err := auth.GetRequestMetadata(context.Background())
	require.NoError(t, err)
	require.Equal(t, map[string]string{"x-cassandra-token": "secret-token"}, md)
	require.True(t, auth.RequireTransportSecurity())

	require.False(t, NewAuthToken("t", false).RequireTransportSecurity())
}

func TestRawCodec(t *testing.T) {
	codec := rawCodec{}

	in := rawMessage([]byte{0x0a, 0x03, 0x66, 0x6f, 0x6f})
	data, err := codec.Marshal(&in)
	require.NoError(t, err)

	var out rawMessage
	require.NoError(t, codec.Unmarshal(data, &out))
	require.Equal(t, in, out)

	_, err = codec.Marshal("not a raw message")
	require.Error(t, err)
	require.Error(t, codec.Unmarshal(data, &struct{}{}))
}

func TestClientBuilderDefaults(t *testing.T) {
	cfg := Config{
		Addr:               "localhost:8090",
		DefaultKeyspace:    "test",
		DefaultConsistency: "LOCAL_QUORUM",
	}
	require.NoError(t, cfg.Validate())
	c := &Client{cfg: cfg}

	q, err := c.Builder().Query("SELECT * FROM users").Build()
	require.NoError(t, err)
	require.Equal(t, "test", q.Keyspace)
	require.Equal(t, query.LocalQuorum, q.Consistency)
}
