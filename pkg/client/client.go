// Package client provides the gRPC transport for executing queries and
// batches against a Stargate coordinator.
package client

import (
	"context"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/stargate/stargate-grpc-go/pkg/query"
	"github.com/stargate/stargate-grpc-go/pkg/result"
	"github.com/stargate/stargate-grpc-go/pkg/wire"
)

const (
	executeQueryMethod = "/stargate.StargateService/ExecuteQuery"
	executeBatchMethod = "/stargate.StargateService/ExecuteBatch"
)

// Client executes queries over a single gRPC connection. It is safe for
// concurrent use; the connection multiplexes requests.
type Client struct {
	cfg     Config
	conn    *grpc.ClientConn
	logger  log.Logger
	metrics *metrics
}

var _ result.Executor = (*Client)(nil)

// New connects to the endpoint named by the config. The returned client must
// be closed when no longer needed.
func New(cfg Config, logger log.Logger, reg prometheus.Registerer) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}

	opts := []grpc.DialOption{
		grpc.WithDefaultCallOptions(
			grpc.ForceCodec(rawCodec{}),
			grpc.MaxCallRecvMsgSize(cfg.MaxRecvMsgSize),
		),
	}
	if cfg.TLSEnabled {
		creds, err := tlsCredentials(cfg.CAPath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, grpc.WithTransportCredentials(creds))
	} else {
		opts = append(opts, grpc.WithTransportCredentials(insecure.NewCredentials()))
	}
	if cfg.Token != "" {
		opts = append(opts, grpc.WithPerRPCCredentials(NewAuthToken(cfg.Token, cfg.TLSEnabled)))
	}

	conn, err := grpc.NewClient(cfg.Addr, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "connecting to %s", cfg.Addr)
	}
	return &Client{
		cfg:     cfg,
		conn:    conn,
		logger:  logger,
		metrics: newMetrics(reg),
	}, nil
}

func tlsCredentials(caPath string) (credentials.TransportCredentials, error) {
	if caPath == "" {
		return credentials.NewClientTLSFromCert(nil, ""), nil
	}
	creds, err := credentials.NewClientTLSFromFile(caPath, "")
	if err != nil {
		return nil, errors.Wrapf(err, "loading CA certificate from %s", caPath)
	}
	return creds, nil
}

// Builder returns a query builder seeded with the client's configured
// defaults.
func (c *Client) Builder() *query.Builder {
	b := query.New().Consistency(c.cfg.consistency)
	if c.cfg.DefaultKeyspace != "" {
		b = b.Keyspace(c.cfg.DefaultKeyspace)
	}
	return b
}

// Execute runs a single query and returns its undecoded response envelope.
func (c *Client) Execute(ctx context.Context, q query.Query) (wire.Response, error) {
	return c.invoke(ctx, "execute_query", executeQueryMethod, wire.EncodeQuery(q))
}

// ExecuteBatch runs a batch of statements atomically on the server side.
func (c *Client) ExecuteBatch(ctx context.Context, b query.Batch) (wire.Response, error) {
	return c.invoke(ctx, "execute_batch", executeBatchMethod, wire.EncodeBatch(b))
}

func (c *Client) invoke(ctx context.Context, operation, method string, request []byte) (wire.Response, error) {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	in := rawMessage(request)
	var out rawMessage
	err := c.conn.Invoke(ctx, method, &in, &out)

	status := "success"
	if err != nil {
		status = "error"
	}
	c.metrics.requestDuration.WithLabelValues(operation, status).Observe(time.Since(start).Seconds())

	if err != nil {
		level.Warn(c.logger).Log("msg", "request failed", "operation", operation, "err", err)
		return wire.Response{}, errors.Wrap(err, operation)
	}
	level.Debug(c.logger).Log(
		"msg", "request completed",
		"operation", operation,
		"duration", time.Since(start),
	)
	return wire.DecodeResponse(out)
}

// Close tears down the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
