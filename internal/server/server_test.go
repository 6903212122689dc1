package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"superstore-dashboard/internal/config"
	"superstore-dashboard/internal/dataset"
	"superstore-dashboard/internal/models"
	"superstore-dashboard/internal/observability"
	"superstore-dashboard/internal/services"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	day := time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC)
	ds := dataset.New([]models.Record{
		{OrderID: "A-1", CustomerID: "C-1", CustomerName: "Ann", OrderDate: day, ShipDate: day.AddDate(0, 0, 3), Region: "East", Category: "Tech", Segment: "Consumer", ProductName: "Phone", ShipMode: "First Class", Sales: 100, Profit: -20, Quantity: 1, Discount: 0.2},
	}, "memory")

	logger := testLogger()
	metrics := observability.NewMetrics()
	analytics := services.NewAnalytics(dataset.Preloaded(ds), config.DefaultDashboard(), metrics, logger)

	return NewServer(analytics, metrics, logger, &TemplateHandlers{
		Dashboard: func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, "dashboard")
		},
	})
}

func TestServer_Routes(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		method string
		path   string
		code   int
		body   string
	}{
		{"GET", "/", 200, "dashboard"},
		{"GET", "/health", 200, "healthy"},
		{"GET", "/admin/stats", 200, `"records":1`},
		{"GET", "/metrics", 200, "go_goroutines"},
		{"GET", "/api/options", 200, `"regions":["East"]`},
		{"GET", "/api/overview", 200, `"total_sales":100`},
		{"GET", "/api/tabs/operations", 200, "ship_modes"},
		{"GET", "/api/tabs/unknown", 404, "UNKNOWN_TAB"},
		{"GET", "/api/records", 200, "Phone"},
		{"GET", "/api/export.csv", 200, "Order Date"},
		{"GET", "/sse/tabs/customers", 200, `id="tab-customers"`},
		{"GET", "/sse/refresh-all", 200, `id="detail"`},
		{"GET", "/nope", 404, "NOT_FOUND"},
		{"POST", "/api/overview", 405, ""},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if rec.Code != tt.code {
				t.Errorf("status = %d, want %d", rec.Code, tt.code)
			}
			if tt.body != "" && !strings.Contains(rec.Body.String(), tt.body) {
				t.Errorf("body missing %q:\n%s", tt.body, rec.Body.String())
			}
		})
	}
}

func newGraceful(t *testing.T) *GracefulServer {
	t.Helper()
	httpServer := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}
	return NewGracefulServer(httpServer, testLogger(), config.ServerConfig{
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
		ShutdownTimeout: 5 * time.Second,
	})
}

func TestGracefulServer_RunsHooksOnCancel(t *testing.T) {
	gs := newGraceful(t)

	var calls atomic.Int32
	gs.RegisterShutdownHook("first", func(ctx context.Context) error {
		calls.Add(1)
		return nil
	})
	gs.RegisterShutdownHook("second", func(ctx context.Context) error {
		calls.Add(1)
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := gs.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("hooks run = %d, want 2", got)
	}
}

func TestGracefulServer_HookError(t *testing.T) {
	gs := newGraceful(t)
	boom := errors.New("flush failed")
	gs.RegisterShutdownHook("tracer", func(ctx context.Context) error { return boom })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := gs.Run(ctx)
	if !errors.Is(err, boom) {
		t.Fatalf("Run() error = %v, want %v", err, boom)
	}
	if !strings.Contains(err.Error(), "tracer") {
		t.Errorf("error %q should name the hook", err)
	}
}

func TestGracefulServer_ListenError(t *testing.T) {
	httpServer := &http.Server{Addr: "256.0.0.1:bad", Handler: http.NotFoundHandler()}
	gs := NewGracefulServer(httpServer, testLogger(), config.ServerConfig{ShutdownTimeout: time.Second})

	if err := gs.Run(context.Background()); err == nil {
		t.Error("expected listen error")
	}
}
