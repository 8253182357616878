// Package httpapi exposes the public HTTP surface of the server: account
// signup/sign-in, the token-gated policy operations, and the local weather
// lookup.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/skycover/skycover/internal/logging"
	"github.com/skycover/skycover/internal/server/auth"
	"github.com/skycover/skycover/internal/server/blockchain"
	"github.com/skycover/skycover/internal/server/services"
	"github.com/skycover/skycover/internal/weatherxm"
)

type Server struct {
	address  string
	logger   logging.Logger
	tokens   *auth.TokenService
	users    *services.UserService
	policies *services.PolicyService
	verifier *blockchain.Verifier
	weather  *weatherxm.Client
}

func NewServer(address string, l logging.Logger, tokens *auth.TokenService, us *services.UserService, ps *services.PolicyService, v *blockchain.Verifier, w *weatherxm.Client) *Server {
	return &Server{
		address:  address,
		logger:   l.With("module", "http_server"),
		tokens:   tokens,
		users:    us,
		policies: ps,
		verifier: v,
		weather:  w,
	}
}

func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.router(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
