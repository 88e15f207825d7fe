package serve

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clientdesk/clientdesk/app"
	"github.com/clientdesk/clientdesk/repository"
	"github.com/clientdesk/clientdesk/rest"
	"github.com/clientdesk/clientdesk/service"
	"github.com/clientdesk/clientdesk/store"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var port int

// ServeCmd starts the HTTP server.
var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the clientdesk HTTP server.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func init() {
	ServeCmd.Flags().IntVar(&port, "port", 0, "listen port (overrides server.port)")
}

func run() error {
	cfg := app.Server()
	if port > 0 {
		cfg.Port = port
	}
	if cfg.SQLLog {
		store.SetSQLLogger(log.New(os.Stdout, "", log.LstdFlags))
	}

	db, err := store.DefaultDS()
	if err != nil {
		color.Red("Error: datasource initialization failed: %v", err)
		return err
	}
	defer func() { _ = store.CloseAllDataSources() }()

	clientRepo := repository.NewClientRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	clientSvc := service.NewClientService(clientRepo)
	orderSvc := service.NewOrderService(orderRepo, clientRepo)
	router := rest.NewRouter(clientSvc, orderSvc, cfg)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		color.Green("clientdesk listening on http://localhost:%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err = <-errCh:
		color.Red("Error: server failed: %v", err)
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err = srv.Shutdown(shutdownCtx); err != nil {
		color.Red("Error: shutdown failed: %v", err)
		return err
	}
	color.Green("clientdesk stopped")
	return nil
}
