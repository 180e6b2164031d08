package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/tanpawarit/advisor-query-dispatch/agent/chat"
	metricsx "github.com/tanpawarit/advisor-query-dispatch/pkg/metrics"
)

var (
	chatLocal       bool
	chatMetricsAddr string
)

func init() {
	chatCmd.Flags().BoolVar(&chatLocal, "local", false, "read the dataset in-process instead of calling the Retrieval Service")
	chatCmd.Flags().StringVar(&chatMetricsAddr, "metrics-addr", "", "serve dispatch metrics on this address, e.g. :9090")
	rootCmd.AddCommand(chatCmd)
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Ask questions interactively",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		retriever, closeRetriever, err := newRetriever(chatLocal)
		if err != nil {
			return err
		}
		defer func() {
			if err := closeRetriever(); err != nil {
				log.Warn().Err(err).Msg("close retriever")
			}
		}()

		var metrics *metricsx.Metrics
		if chatMetricsAddr != "" {
			metrics = metricsx.New()
			stop := serveMetrics(chatMetricsAddr, metrics)
			defer stop()
		}

		d, err := newDispatcher(cmd.Context(), retriever, metrics)
		if err != nil {
			return err
		}
		conv, err := chat.NewConversation(d)
		if err != nil {
			return err
		}

		log.Info().Str("conversation_id", conv.ID()).Msg("chat started")
		return runChat(cmd.Context(), conv, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

// serveMetrics exposes the dispatch metrics for the lifetime of the chat.
func serveMetrics(addr string, metrics *metricsx.Metrics) func() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		log.Info().Str("addr", addr).Msg("metrics listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Str("addr", addr).Msg("metrics listener failed")
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Warn().Err(err).Msg("shutdown metrics listener")
		}
	}
}

// runChat reads one question per line until EOF or /exit.
func runChat(ctx context.Context, conv *chat.Conversation, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, "Financial Advisor Query Assistant")
	fmt.Fprintln(out, "Try one of:")
	for _, example := range chat.Examples {
		fmt.Fprintf(out, "  - %s\n", example)
	}
	fmt.Fprintln(out, "Commands: /clear resets the conversation, /exit quits.")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "/exit", "/quit":
			return nil
		case "/clear":
			conv.Clear()
			fmt.Fprintln(out, "Conversation cleared.")
			continue
		}

		fmt.Fprintln(out, conv.Ask(ctx, line))
	}
}
