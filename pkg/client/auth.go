package client

import (
	"context"
)

// tokenHeader is the metadata key the server reads the auth token from.
const tokenHeader = "x-cassandra-token"

// AuthToken attaches a Stargate authentication token to every outgoing RPC.
// It implements credentials.PerRPCCredentials.
type AuthToken struct {
	token      string
	requireTLS bool
}

// NewAuthToken returns per-RPC credentials carrying the given token.
// requireTLS refuses to send the token over an insecure connection.
func NewAuthToken(token string, requireTLS bool) AuthToken {
	return AuthToken{token: token, requireTLS: requireTLS}
}

func (a AuthToken) GetRequestMetadata(_ context.Context, _ ...string) (map[string]string, error) {
	return map[string]string{tokenHeader: a.token}, nil
}

func (a AuthToken) RequireTransportSecurity() bool {
	return a.requireTLS
}
