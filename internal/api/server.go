package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/meta-ads-sync-api/internal/api/handler"
	"github.com/vfg2006/meta-ads-sync-api/internal/api/handler/router"
	"github.com/vfg2006/meta-ads-sync-api/internal/config"
	"github.com/vfg2006/meta-ads-sync-api/internal/usecases/account"
	"github.com/vfg2006/meta-ads-sync-api/internal/usecases/authenticating"
	"github.com/vfg2006/meta-ads-sync-api/internal/usecases/credential"
	"github.com/vfg2006/meta-ads-sync-api/internal/usecases/insighting"
	"github.com/vfg2006/meta-ads-sync-api/internal/usecases/syncing"
	"github.com/vfg2006/meta-ads-sync-api/pkg/middleware"
)

const shutdownTimeout = 15 * time.Second

// Services reúne as dependências expostas pela API HTTP
type Services struct {
	Authenticator authenticating.Authenticator
	Credentials   credential.Store
	Accounts      account.AccountService
	Sync          syncing.SyncService
	Insights      insighting.Aggregator
	CronJobs      map[string]handler.CronJob
}

type Server struct {
	httpServer *http.Server
}

func New(cfg *config.Config, services Services) (*Server, error) {
	srv := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
			Handler:           NewHandler(cfg, services),
			ReadHeaderTimeout: 2 * time.Second,
		},
	}

	return srv, nil
}

// NewHandler monta o router com a cadeia de middlewares globais
func NewHandler(cfg *config.Config, services Services) http.Handler {
	rt := router.New(
		router.WithRoutes(handler.Healthcheck()...),
		router.WithRoutes(handler.Credentials(services.Credentials)...),
		router.WithRoutes(handler.AdAccounts(services.Accounts)...),
		router.WithRoutes(handler.Sync(services.Sync)...),
		router.WithRoutes(handler.Insights(services.Insights)...),
		router.WithRoutes(handler.CronJobs(services.CronJobs)...),
	)

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(cfg.Server.AllowedOrigins),
		middleware.AuthMiddleware(services.Authenticator),
	}

	return alice.New(middlewares...).Then(rt)
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		logrus.WithFields(logrus.Fields{
			"address": s.httpServer.Addr,
		}).Info("Servidor iniciando")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("Erro durante a execução do servidor")
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(done)

	select {
	case <-done:
		logrus.Info("Sinal de interrupção recebido")
	case <-ctx.Done():
		logrus.Info("Contexto de aplicação cancelado")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logrus.WithField("timeout", shutdownTimeout.String()).Info("Iniciando desligamento gracioso do servidor")

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Erro durante o desligamento do servidor")
		return err
	}

	logrus.Info("Servidor desligado com sucesso")
	return nil
}
