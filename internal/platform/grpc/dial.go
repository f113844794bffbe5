// Package grpc holds client and server helpers shared by the gRPC health surface.
package grpc

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// DialFunc creates a client connection for target.
type DialFunc func(target string, opts ...gogrpc.DialOption) (*gogrpc.ClientConn, error)

// DialStage describes where a dial attempt failed.
type DialStage string

const (
	// DialStageConnect indicates a client construction failure.
	DialStageConnect DialStage = "connect"
	// DialStageHealth indicates the health check failed.
	DialStageHealth DialStage = "health"
)

// DialError wraps dial and health check failures with a stage indicator.
type DialError struct {
	Stage DialStage
	Err   error
}

// Error implements the error interface.
func (e *DialError) Error() string {
	if e == nil {
		return "gRPC dial error"
	}
	return fmt.Sprintf("gRPC %s error: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying error.
func (e *DialError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// DialConfig controls DialWithHealth.
type DialConfig struct {
	// Dial defaults to grpc.NewClient.
	Dial DialFunc
	// Timeout bounds the connect plus health wait; zero means ctx only.
	Timeout time.Duration
	// Service is the health service name; empty checks the whole server.
	Service string
	Logf    func(string, ...any)
	Options []gogrpc.DialOption
}

// DefaultClientDialOptions returns plaintext options with OTel client instrumentation.
func DefaultClientDialOptions() []gogrpc.DialOption {
	return []gogrpc.DialOption{
		gogrpc.WithTransportCredentials(insecure.NewCredentials()),
		gogrpc.WithStatsHandler(otelgrpc.NewClientHandler()),
	}
}

// DialWithHealth connects to addr and waits until its health check reports SERVING.
// It closes the connection if the health check fails.
func DialWithHealth(ctx context.Context, addr string, cfg DialConfig) (*gogrpc.ClientConn, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	dial := cfg.Dial
	if dial == nil {
		dial = gogrpc.NewClient
	}
	opts := cfg.Options
	if len(opts) == 0 {
		opts = DefaultClientDialOptions()
	}

	waitCtx := ctx
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	conn, err := dial(addr, opts...)
	if err != nil {
		return nil, &DialError{Stage: DialStageConnect, Err: err}
	}
	if err := WaitForHealth(waitCtx, conn, cfg.Service, cfg.Logf); err != nil {
		_ = conn.Close()
		return nil, &DialError{Stage: DialStageHealth, Err: err}
	}
	return conn, nil
}
