package app

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Tiago21221/brasa-e-lenha/internal/platform/discovery"
	platformgrpc "github.com/Tiago21221/brasa-e-lenha/internal/platform/grpc"
	"google.golang.org/grpc"
)

type logRecorder struct {
	mu    sync.Mutex
	lines []string
}

func (r *logRecorder) logf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}

func (r *logRecorder) contains(text string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, line := range r.lines {
		if strings.Contains(line, text) {
			return true
		}
	}
	return false
}

func startHealthServer(t *testing.T) string {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	server := grpc.NewServer()
	platformgrpc.RegisterHealth(server, discovery.ServiceRestaurant)
	go func() { _ = server.Serve(listener) }()
	t.Cleanup(server.Stop)
	return listener.Addr().String()
}

func TestRunNotifiesNewOrders(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/orders":
			if calls.Add(1) == 1 {
				_, _ = io.WriteString(w, `{"orders":[{"id":1,"status":"pending","totalCents":1000}]}`)
				return
			}
			_, _ = io.WriteString(w, `{"orders":[{"id":2,"status":"pending","totalCents":2500},{"id":1,"status":"pending","totalCents":1000}]}`)
		case "/api/reservations":
			_, _ = io.WriteString(w, `{"reservations":[]}`)
		case "/api/admin/stats":
			_, _ = io.WriteString(w, `{"dailyOrders":2,"statusCounts":{}}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(api.Close)

	recorder := &logRecorder{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, RuntimeConfig{
			APIURL:       api.URL,
			GRPCAddr:     startHealthServer(t),
			PollInterval: 10 * time.Millisecond,
			Locale:       "pt-BR",
			Logf:         recorder.logf,
		})
	}()

	deadline := time.After(5 * time.Second)
	for !recorder.contains("Novo pedido recebido!") {
		select {
		case err := <-done:
			t.Fatalf("run returned early: %v", err)
		case <-deadline:
			t.Fatal("no new order notification")
		case <-time.After(5 * time.Millisecond):
		}
	}
	if !recorder.contains("Pedido #2:") {
		t.Fatal("expected order line for order 2")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run did not stop")
	}
}

func TestRunRejectsUnknownDetector(t *testing.T) {
	t.Parallel()

	err := Run(context.Background(), RuntimeConfig{APIURL: "http://127.0.0.1:1", GRPCAddr: "127.0.0.1:1", Detector: "loudest"})
	if err == nil || !strings.Contains(err.Error(), "loudest") {
		t.Fatalf("error = %v", err)
	}
}

func TestRunFailsWhenRestaurantUnhealthy(t *testing.T) {
	t.Parallel()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := listener.Addr().String()
	_ = listener.Close()

	err = Run(context.Background(), RuntimeConfig{
		APIURL:          "http://" + addr,
		GRPCAddr:        addr,
		GRPCDialTimeout: 100 * time.Millisecond,
		Logf:            func(string, ...any) {},
	})
	if err == nil || !strings.Contains(err.Error(), "dial restaurant service") {
		t.Fatalf("error = %v", err)
	}
}
