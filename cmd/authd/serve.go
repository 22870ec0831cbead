package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"authd/internal/httpapi"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the authd HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.Store.Close()
	defer a.Log.Sync()

	deps := &httpapi.Dependencies{
		Config:    a.Config,
		Log:       a.Log,
		Repos:     a.Repos,
		Keys:      a.Keys,
		JWT:       a.JWT,
		Tokens:    a.Tokens,
		AuthCode:  a.AuthCode,
		Providers: a.Providers,
		Validate:  validator.New(),
	}
	router := httpapi.NewRouter(deps)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", a.Config.Server.Host, a.Config.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	gcCtx, cancelGC := context.WithCancel(context.Background())
	defer cancelGC()
	go a.Store.GCLoop(gcCtx, a.Config.OAuth2.GCInterval, a.Log)

	go func() {
		a.Log.Infof("authd listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Log.Errorf("http server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	a.Log.Infof("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		a.Log.Errorf("server forced to shutdown: %v", err)
	}
	cancelGC()
	return nil
}
