package grpc

import (
	"context"
	"fmt"
	"time"

	"github.com/Tiago21221/brasa-e-lenha/internal/platform/timeouts"
	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// RegisterHealth serves grpc.health.v1 on server for the restaurant process.
// The blank service and every name in services start SERVING; the returned
// server lets shutdown flip them to NOT_SERVING before the API closes.
func RegisterHealth(server *gogrpc.Server, services ...string) *health.Server {
	healthServer := health.NewServer()
	if server != nil {
		grpc_health_v1.RegisterHealthServer(server, healthServer)
	}
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	for _, service := range services {
		healthServer.SetServingStatus(service, grpc_health_v1.HealthCheckResponse_SERVING)
	}
	return healthServer
}

// WaitForHealth polls service on conn until it answers SERVING. The
// dashboard waits here before its first poll of the restaurant API.
// Retries back off from 200ms to 1s.
func WaitForHealth(ctx context.Context, conn *gogrpc.ClientConn, service string, logf func(string, ...any)) error {
	if conn == nil {
		return fmt.Errorf("gRPC connection is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	healthClient := grpc_health_v1.NewHealthClient(conn)
	backoff := 200 * time.Millisecond
	for {
		callCtx, cancel := context.WithTimeout(ctx, timeouts.HealthCheck)
		response, err := healthClient.Check(callCtx, &grpc_health_v1.HealthCheckRequest{Service: service})
		cancel()
		if err == nil && response.GetStatus() == grpc_health_v1.HealthCheckResponse_SERVING {
			if logf != nil {
				logf("%s health is SERVING", healthLabel(service))
			}
			return nil
		}
		if logf != nil {
			if err != nil {
				logf("waiting for %s health: %v", healthLabel(service), err)
			} else {
				logf("waiting for %s health: status %s", healthLabel(service), response.GetStatus().String())
			}
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("wait for %s health: %w", healthLabel(service), ctx.Err())
		case <-time.After(backoff):
		}

		if backoff < time.Second {
			backoff = min(backoff*2, time.Second)
		}
	}
}

func healthLabel(service string) string {
	if service == "" {
		return "server"
	}
	return service
}
