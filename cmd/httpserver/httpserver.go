// Package httpserver manages server creation and api routing.
package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/accountdelivery"
	"github.com/go-petr/pet-ledger/internal/accountrepo"
	"github.com/go-petr/pet-ledger/internal/accountservice"
	"github.com/go-petr/pet-ledger/internal/middleware"
	"github.com/go-petr/pet-ledger/internal/transferdelivery"
	"github.com/go-petr/pet-ledger/internal/transferservice"
	"github.com/go-petr/pet-ledger/pkg/configpkg"
)

// Server holds the account registry, handlers router and configuration.
type Server struct {
	Repo   *accountrepo.RepoMem
	Engine *gin.Engine
	Config configpkg.Config
	logger zerolog.Logger
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server type with instantiated domains and routes.
func New(logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	accountRepo := accountrepo.NewRepoMem()

	accountService := accountservice.New(accountRepo)
	transferService := transferservice.New(accountRepo)

	accountHandler := accountdelivery.NewHandler(accountService)
	transferHandler := transferdelivery.NewHandler(transferService)

	if err := accountdelivery.RegisterValidators(); err != nil {
		return nil, err
	}

	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	engine.POST("/accounts", accountHandler.Create)
	engine.GET("/accounts", accountHandler.List)
	engine.GET("/accounts/:id", accountHandler.Get)
	engine.POST("/accounts/:id/deposits", accountHandler.Deposit)
	engine.POST("/accounts/:id/withdrawals", accountHandler.Withdraw)
	engine.POST("/accounts/:id/deactivate", accountHandler.Deactivate)
	engine.GET("/accounts/:id/transactions", accountHandler.Transactions)

	engine.POST("/transfers", transferHandler.Create)

	server := &Server{
		Repo:   accountRepo,
		Engine: engine,
		Config: config,
		logger: logger,
	}

	return server, nil
}

// Run serves requests on the configured address until ctx is done, then
// shuts down gracefully within the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.Config.ServerAddress,
		Handler: s.Engine,
	}

	errCh := make(chan error, 1)

	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.Config.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
