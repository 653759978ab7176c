// Package health probes Secret AI worker endpoints over HTTP and gRPC.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
)

// Checker performs health checks against one worker endpoint using different
// protocols.
type Checker struct {
	endpoint string
	conn     *grpc.ClientConn
	http     *http.Client
	log      *zap.Logger
}

// Option customizes a Checker.
type Option func(*Checker)

// WithGRPCConn supplies a pre-built connection instead of dialing the
// endpoint. Used by tests and by callers sharing a connection.
func WithGRPCConn(conn *grpc.ClientConn) Option {
	return func(c *Checker) { c.conn = conn }
}

// WithHTTPClient replaces the HTTP client used for HTTP probes.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Checker) { c.http = client }
}

// WithLogger sets the log sink.
func WithLogger(log *zap.Logger) Option {
	return func(c *Checker) { c.log = log }
}

// NewChecker builds a health checker for the given worker endpoint.
func NewChecker(endpoint string, opts ...Option) *Checker {
	c := &Checker{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		http:     &http.Client{},
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HTTP performs a GET against "<endpoint>/health" and returns the decoded
// JSON payload.
func (c *Checker) HTTP(ctx context.Context) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/health", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Error("failed to close health response", zap.Error(cerr))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("health check failed with status %d", resp.StatusCode)
	}

	var result map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode health response: %w", err)
	}
	return result, nil
}

// GRPC performs a standard gRPC health check against the endpoint, dialing a
// connection on first use unless one was supplied.
func (c *Checker) GRPC(ctx context.Context) (*grpc_health_v1.HealthCheckResponse, error) {
	if c.conn == nil {
		addr, creds := credsFromEndpoint(c.endpoint)
		conn, err := grpc.NewClient(addr, creds)
		if err != nil {
			return nil, fmt.Errorf("dialing %s: %w", c.endpoint, err)
		}
		c.conn = conn
	}

	client := grpc_health_v1.NewHealthClient(c.conn)
	resp, err := client.Check(ctx, &grpc_health_v1.HealthCheckRequest{})
	if err != nil {
		return nil, fmt.Errorf("grpc health check failed: %w", err)
	}
	return resp, nil
}

// Close releases the gRPC connection, if any.
func (c *Checker) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// credsFromEndpoint derives a dial address and dial option from an endpoint
// URL. "https://" enables TLS; "http://" and bare addresses use insecure
// credentials.
func credsFromEndpoint(endpoint string) (string, grpc.DialOption) {
	if strings.HasPrefix(endpoint, "https://") {
		return strings.TrimPrefix(endpoint, "https://"), grpc.WithTransportCredentials(credentials.NewTLS(nil))
	}
	if strings.HasPrefix(endpoint, "http://") {
		return strings.TrimPrefix(endpoint, "http://"), grpc.WithTransportCredentials(insecure.NewCredentials())
	}
	return endpoint, grpc.WithTransportCredentials(insecure.NewCredentials())
}
