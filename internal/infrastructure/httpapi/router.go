// Package httpapi exposes scanning, history and reviews over HTTP for a
// client that owns the camera and UI.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/doeshing/foodscan/internal/application/review"
	"github.com/doeshing/foodscan/internal/application/scan"
	"github.com/doeshing/foodscan/internal/domain"
	"github.com/doeshing/foodscan/internal/ports"
)

// DeviceHeader carries the caller's device identifier on review routes.
const DeviceHeader = "X-Device-ID"

// Dependencies wires the router to the application services.
type Dependencies struct {
	Scans   *scan.Service
	Reviews *review.Service
	Metrics http.Handler
	Logger  ports.Logger
}

// NewRouter builds the API routes.
func NewRouter(deps Dependencies) *mux.Router {
	h := &handlers{deps: deps}
	r := mux.NewRouter()
	r.HandleFunc("/health", h.health).Methods(http.MethodGet)

	r.HandleFunc("/products/{code}", h.getProduct).Methods(http.MethodGet)
	r.HandleFunc("/products/{code}/reviews", h.getProductReviews).Methods(http.MethodGet)
	r.HandleFunc("/products/{code}/reviews", h.submitReview).Methods(http.MethodPost)

	r.HandleFunc("/history", h.getHistory).Methods(http.MethodGet)
	r.HandleFunc("/history", h.clearHistory).Methods(http.MethodDelete)
	r.HandleFunc("/history/{code}", h.removeHistory).Methods(http.MethodDelete)

	r.HandleFunc("/reviews/mine", h.myReviews).Methods(http.MethodGet)
	r.HandleFunc("/reviews/{id}", h.updateReview).Methods(http.MethodPut)
	r.HandleFunc("/reviews/{id}", h.deleteReview).Methods(http.MethodDelete)

	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics).Methods(http.MethodGet)
	}
	r.Use(h.logRequests)
	return r
}

// Server runs the router until its context is cancelled.
type Server struct {
	Addr            string
	Handler         http.Handler
	Logger          ports.Logger
	ShutdownTimeout time.Duration
}

// Run listens on Addr and shuts down gracefully when ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	if s.Logger != nil {
		s.Logger.Info("http api listening", map[string]interface{}{"addr": ln.Addr().String()})
	}

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := s.ShutdownTimeout
	if timeout <= 0 {
		timeout = domain.DefaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
