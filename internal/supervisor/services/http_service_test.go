// CineMatch - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package services

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

var _ suture.Service = (*HTTPServerService)(nil)

// stubServer blocks in ListenAndServe until Shutdown is called.
type stubServer struct {
	listenErr   error
	shutdownErr error
	started     chan struct{}
	stopped     chan struct{}
	shutdowns   atomic.Int32
}

func newStubServer() *stubServer {
	return &stubServer{started: make(chan struct{}), stopped: make(chan struct{})}
}

func (s *stubServer) ListenAndServe() error {
	close(s.started)
	if s.listenErr != nil {
		return s.listenErr
	}
	<-s.stopped
	return http.ErrServerClosed
}

func (s *stubServer) Shutdown(context.Context) error {
	if s.shutdowns.Add(1) == 1 {
		close(s.stopped)
	}
	return s.shutdownErr
}

func serveAsync(ctx context.Context, svc *HTTPServerService) <-chan error {
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()
	return errCh
}

func TestNewHTTPServerService_DefaultTimeout(t *testing.T) {
	t.Parallel()
	for _, d := range []time.Duration{0, -5 * time.Second} {
		svc := NewHTTPServerService(newStubServer(), ":8000", d)
		if svc.shutdownTimeout != 10*time.Second {
			t.Errorf("timeout(%v) = %v, want 10s", d, svc.shutdownTimeout)
		}
	}
	if got := NewHTTPServerService(newStubServer(), ":8000", time.Second).String(); got != "http-server" {
		t.Errorf("String() = %q", got)
	}
}

func TestHTTPServerService_GracefulShutdown(t *testing.T) {
	t.Parallel()
	server := newStubServer()
	svc := NewHTTPServerService(server, ":8000", time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := serveAsync(ctx, svc)
	<-server.started
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return")
	}
	if got := server.shutdowns.Load(); got != 1 {
		t.Errorf("Shutdown called %d times, want 1", got)
	}
}

func TestHTTPServerService_ListenFailure(t *testing.T) {
	t.Parallel()
	bindErr := errors.New("bind: address already in use")
	server := newStubServer()
	server.listenErr = bindErr

	err := NewHTTPServerService(server, ":8000", time.Second).Serve(context.Background())
	if !errors.Is(err, bindErr) {
		t.Errorf("Serve() = %v, want %v", err, bindErr)
	}
}

func TestHTTPServerService_ShutdownFailure(t *testing.T) {
	t.Parallel()
	shutdownErr := errors.New("shutdown deadline exceeded")
	server := newStubServer()
	server.shutdownErr = shutdownErr

	ctx, cancel := context.WithCancel(context.Background())
	errCh := serveAsync(ctx, NewHTTPServerService(server, ":8000", time.Second))
	<-server.started
	cancel()

	if err := <-errCh; !errors.Is(err, shutdownErr) {
		t.Errorf("Serve() = %v, want %v", err, shutdownErr)
	}
}

func TestHTTPServerService_RealServer(t *testing.T) {
	t.Parallel()
	srv := &http.Server{
		Addr:              "127.0.0.1:0",
		Handler:           http.NotFoundHandler(),
		ReadHeaderTimeout: time.Second,
	}
	sup := suture.New("test", suture.Spec{Timeout: 2 * time.Second})
	sup.Add(NewHTTPServerService(srv, srv.Addr, time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := sup.ServeBackground(ctx)
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-errCh:
	case <-time.After(3 * time.Second):
		t.Fatal("supervisor did not stop the HTTP server")
	}
}
