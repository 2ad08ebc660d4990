package server

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"time"
)

// ServeOptions controls how Serve listens.
type ServeOptions struct {
	Addr string
	TLS  *tls.Config
	// ChallengeAddr serves ACME HTTP-01 challenges when Challenge is set.
	ChallengeAddr string
	Challenge     http.Handler
}

// Serve runs the API until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, opts ServeOptions) error {
	srv := &http.Server{
		Addr:              opts.Addr,
		Handler:           s.Router(),
		TLSConfig:         opts.TLS,
		ReadHeaderTimeout: 10 * time.Second,
	}
	var challenge *http.Server
	if opts.Challenge != nil && opts.ChallengeAddr != "" {
		challenge = &http.Server{Addr: opts.ChallengeAddr, Handler: opts.Challenge, ReadHeaderTimeout: 10 * time.Second}
		go func() {
			if err := challenge.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.log.Printf("acme challenge listener: %v", err)
			}
		}()
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		if challenge != nil {
			_ = challenge.Shutdown(shutdownCtx)
		}
	}()

	var err error
	if opts.TLS != nil {
		err = srv.ListenAndServeTLS("", "")
	} else {
		err = srv.ListenAndServe()
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
