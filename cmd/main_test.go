package main

import (
	"errors"
	"net"
	"net/http"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/atieqrehman11/kids-cashflow/internal/storage"
)

func TestShutdownOnSignalStopsServer(t *testing.T) {
	router := newRouter(storage.NewMemoryStore(), zap.NewNop())
	srv := &http.Server{Handler: router}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	quit := make(chan os.Signal, 1)
	go shutdownOnSignal(srv, zap.NewNop(), quit)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(ln)
	}()

	resp, err := http.Get("http://" + ln.Addr().String() + "/api/health")
	if err != nil {
		t.Fatalf("health check: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	quit <- os.Interrupt

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			t.Fatalf("Serve returned %v, want ErrServerClosed", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down after signal")
	}
}
