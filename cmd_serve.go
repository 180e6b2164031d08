package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	configx "github.com/tanpawarit/advisor-query-dispatch/pkg/config"
	metricsx "github.com/tanpawarit/advisor-query-dispatch/pkg/metrics"
	"github.com/tanpawarit/advisor-query-dispatch/retrieval"
	"golang.org/x/sync/errgroup"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Retrieval Service HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	apiCfg, err := configx.New[retrieval.ServerConfig]("API")
	if err != nil {
		return err
	}

	store, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Warn().Err(err).Msg("close client store")
		}
	}()

	svc, err := retrieval.NewService(store)
	if err != nil {
		return err
	}
	server, err := retrieval.NewServer(svc, metricsx.New(), retrieval.WithRequestTimeout(apiCfg.RequestTimeout))
	if err != nil {
		return err
	}
	httpServer := retrieval.NewHTTPServer(*apiCfg, server)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", apiCfg.Addr).Msg("retrieval service listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down retrieval service")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), apiCfg.ShutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
