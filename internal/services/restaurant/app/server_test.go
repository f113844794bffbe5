package server

import (
	"context"
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Tiago21221/brasa-e-lenha/internal/platform/discovery"
	platformgrpc "github.com/Tiago21221/brasa-e-lenha/internal/platform/grpc"
)

func TestServerServesHTTPAndHealth(t *testing.T) {
	srv, err := New(Config{
		HTTPAddr: "127.0.0.1:0",
		GRPCAddr: "127.0.0.1:0",
		DBPath:   filepath.Join(t.TempDir(), "nested", "restaurant.db"),
	})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	runCtx, runCancel := context.WithCancel(context.Background())
	defer runCancel()

	serveDone := make(chan error, 1)
	go func() {
		serveDone <- srv.Serve(runCtx)
	}()
	t.Cleanup(func() {
		runCancel()
		select {
		case serveErr := <-serveDone:
			if serveErr != nil {
				t.Fatalf("serve: %v", serveErr)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("timeout waiting for server shutdown")
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, err := platformgrpc.DialWithHealth(ctx, srv.GRPCAddr(), platformgrpc.DialConfig{
		Service: discovery.ServiceRestaurant,
		Logf:    t.Logf,
	})
	if err != nil {
		t.Fatalf("dial with health: %v", err)
	}
	t.Cleanup(func() {
		if closeErr := conn.Close(); closeErr != nil {
			t.Fatalf("close gRPC connection: %v", closeErr)
		}
	})

	resp, err := http.Get("http://" + srv.HTTPAddr() + "/api/reservations/slots?date=2025-06-01")
	if err != nil {
		t.Fatalf("get slots: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var payload struct {
		Slots []struct {
			Time      string `json:"time"`
			Remaining int    `json:"remaining"`
		} `json:"slots"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode slots: %v", err)
	}
	if len(payload.Slots) != 12 || payload.Slots[0].Time != "11:30" || payload.Slots[0].Remaining != 5 {
		t.Fatalf("slots = %+v", payload.Slots)
	}

	webhook, err := http.Post("http://"+srv.HTTPAddr()+"/api/webhooks/payment", "application/json", strings.NewReader(`{}`))
	if err != nil {
		t.Fatalf("post webhook: %v", err)
	}
	webhook.Body.Close()
	if webhook.StatusCode != http.StatusNotFound {
		t.Fatalf("webhook without secret status = %d, want 404", webhook.StatusCode)
	}
}

func TestNewFailsOnBusyAddress(t *testing.T) {
	first, err := New(Config{HTTPAddr: "127.0.0.1:0", GRPCAddr: "127.0.0.1:0", DBPath: filepath.Join(t.TempDir(), "a.db")})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	defer first.Close()

	if _, err := New(Config{HTTPAddr: first.HTTPAddr(), GRPCAddr: "127.0.0.1:0", DBPath: filepath.Join(t.TempDir(), "b.db")}); err == nil {
		t.Fatal("expected listen error")
	}
}

func TestServeNilServer(t *testing.T) {
	var srv *Server
	if err := srv.Serve(context.Background()); err == nil {
		t.Fatal("expected error for nil server")
	}
}
