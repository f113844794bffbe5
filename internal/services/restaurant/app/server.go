// Package server wires the restaurant runtime: storage, use-cases, the HTTP
// API and the gRPC health endpoint.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Tiago21221/brasa-e-lenha/internal/platform/discovery"
	platformgrpc "github.com/Tiago21221/brasa-e-lenha/internal/platform/grpc"
	"github.com/Tiago21221/brasa-e-lenha/internal/platform/timeouts"
	"github.com/Tiago21221/brasa-e-lenha/internal/services/restaurant/api/httpapi"
	"github.com/Tiago21221/brasa-e-lenha/internal/services/restaurant/domain"
	"github.com/Tiago21221/brasa-e-lenha/internal/services/restaurant/payment"
	restaurantsqlite "github.com/Tiago21221/brasa-e-lenha/internal/services/restaurant/storage/sqlite"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
)

// Config holds the runtime settings of the restaurant server.
type Config struct {
	HTTPAddr         string
	GRPCAddr         string
	DBPath           string
	Location         *time.Location
	TransitionPolicy domain.TransitionPolicy
	WebhookSecret    string
}

// Server hosts the restaurant HTTP API and gRPC health service.
type Server struct {
	httpListener net.Listener
	grpcListener net.Listener
	httpServer   *http.Server
	grpcServer   *grpc.Server
	health       *health.Server
	store        *restaurantsqlite.Store
}

// New opens storage and binds both listeners.
func New(cfg Config) (*Server, error) {
	if strings.TrimSpace(cfg.DBPath) == "" {
		cfg.DBPath = filepath.Join("data", "restaurant.db")
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.TransitionPolicy == nil {
		cfg.TransitionPolicy = domain.PermissiveTransitions{}
	}

	store, err := openRestaurantStore(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	httpListener, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("listen on %s: %w", cfg.HTTPAddr, err)
	}
	grpcListener, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		_ = httpListener.Close()
		_ = store.Close()
		return nil, fmt.Errorf("listen on %s: %w", cfg.GRPCAddr, err)
	}

	orders := domain.NewOrderService(store, cfg.TransitionPolicy, nil)
	orders.UseSessionIDs(payment.NewSessionID)
	var payments *payment.Processor
	if verifier := payment.NewVerifier(cfg.WebhookSecret); verifier.Enabled() {
		payments = payment.NewProcessor(verifier, orders)
	} else {
		log.Printf("payment webhook disabled; set BRASA_PAYMENT_WEBHOOK_SECRET to accept payment events")
	}
	api := httpapi.New(httpapi.Dependencies{
		Orders:       orders,
		Reservations: domain.NewReservationService(store, nil),
		Stats:        domain.NewStatsService(store, nil, cfg.Location),
		Menu:         domain.NewMenuService(store, nil),
		Payments:     payments,
		Ping:         store.Ping,
	})

	grpcServer := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	healthServer := platformgrpc.RegisterHealth(grpcServer, discovery.ServiceRestaurant)

	log.Printf("restaurant configured order_transitions=%s timezone=%s db=%s",
		cfg.TransitionPolicy.Name(), cfg.Location, cfg.DBPath)

	return &Server{
		httpListener: httpListener,
		grpcListener: grpcListener,
		httpServer: &http.Server{
			Handler:           api.Routes(),
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
		grpcServer: grpcServer,
		health:     healthServer,
		store:      store,
	}, nil
}

// HTTPAddr returns the bound HTTP address.
func (s *Server) HTTPAddr() string {
	if s == nil || s.httpListener == nil {
		return ""
	}
	return s.httpListener.Addr().String()
}

// GRPCAddr returns the bound gRPC address.
func (s *Server) GRPCAddr() string {
	if s == nil || s.grpcListener == nil {
		return ""
	}
	return s.grpcListener.Addr().String()
}

// Run creates and serves a restaurant server until context cancellation.
func Run(ctx context.Context, cfg Config) error {
	server, err := New(cfg)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// Serve runs both servers until ctx ends or either fails, then shuts both down.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil {
		return errors.New("server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.Close()

	log.Printf("restaurant http listening at %v", s.httpListener.Addr())
	log.Printf("restaurant grpc health listening at %v", s.grpcListener.Addr())

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := s.httpServer.Serve(s.httpListener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		if err := s.grpcServer.Serve(s.grpcListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("serve gRPC: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		s.health.Shutdown()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		err := s.httpServer.Shutdown(shutdownCtx)
		s.grpcServer.GracefulStop()
		if err != nil {
			return fmt.Errorf("shutdown http: %w", err)
		}
		return nil
	})
	return group.Wait()
}

// Close releases server resources.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.health != nil {
		s.health.Shutdown()
	}
	if s.grpcServer != nil {
		s.grpcServer.Stop()
	}
	if s.httpServer != nil {
		_ = s.httpServer.Close()
	}
	if s.httpListener != nil {
		_ = s.httpListener.Close()
	}
	if s.grpcListener != nil {
		_ = s.grpcListener.Close()
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			log.Printf("close restaurant store: %v", err)
		}
	}
}

func openRestaurantStore(path string) (*restaurantsqlite.Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := restaurantsqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open restaurant sqlite store: %w", err)
	}
	return store, nil
}
