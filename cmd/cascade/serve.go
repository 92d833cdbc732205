package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/oxygn-cloud-ai/cascade"
	httpAdapter "github.com/oxygn-cloud-ai/cascade/internal/adapters/http"
	"github.com/oxygn-cloud-ai/cascade/pkg/adapters/file"
	"github.com/oxygn-cloud-ai/cascade/pkg/adapters/memory"
	redisAdapter "github.com/oxygn-cloud-ai/cascade/pkg/adapters/redis"
	"github.com/oxygn-cloud-ai/cascade/pkg/adapters/stub"
	"github.com/oxygn-cloud-ai/cascade/pkg/observability"
	"github.com/oxygn-cloud-ai/cascade/pkg/ports"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP control server",
	Long: `Starts the cascade engine behind a JSON control API: start, pause, resume
and cancel runs over HTTP, watch progress as server-sent events, and scrape
Prometheus metrics from /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		treePath, _ := cmd.Flags().GetString("tree")
		port, _ := cmd.Flags().GetString("port")
		redisAddr, _ := cmd.Flags().GetString("redis")
		nodeDelay, _ := cmd.Flags().GetDuration("node-delay")

		logger := newLogger(cmd)

		provider, _, err := file.Load(treePath)
		if err != nil {
			return err
		}

		// Results go to Redis when an address is given, otherwise they stay
		// in process memory.
		var results ports.ResultStore
		if redisAddr != "" {
			store := redisAdapter.New(redisAddr, "", 0)
			defer store.Close()
			results = store
		} else {
			results = memory.NewStore()
		}

		metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
		streams := httpAdapter.NewStreamManager()

		engine, err := cascade.New(provider, stub.New(stub.WithDelay(nodeDelay)),
			cascade.WithLogger(logger),
			cascade.WithResultStore(results),
			cascade.WithHooks(metrics.Hooks()),
			cascade.WithHooks(httpAdapter.StreamHooks(streams)),
		)
		if err != nil {
			return err
		}
		server := httpAdapter.NewServer(engine, logger, httpAdapter.WithStreamManager(streams))

		mux := http.NewServeMux()
		mux.Handle("/", server.Handler())
		mux.Handle("/metrics", promhttp.Handler())

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: mux,
		}

		serverErrors := make(chan error, 1)
		go func() {
			fmt.Printf("Starting Cascade Server on %s\n", srv.Addr)
			fmt.Printf("Serving tree from: %s\n", treePath)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			engine.Cancel()

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			fmt.Println("Cascade Server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("redis", "", "Redis address for result persistence (empty = in-memory)")
	serveCmd.Flags().Duration("node-delay", 300*time.Millisecond, "Simulated generation latency per node")
}
