package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/splashgate/splashgate/idp"
	"github.com/splashgate/splashgate/idp/authstate"
	"github.com/splashgate/splashgate/internal/config"
	"github.com/splashgate/splashgate/internal/metrics"
	"github.com/splashgate/splashgate/meraki"
	"github.com/splashgate/splashgate/server"
	"github.com/splashgate/splashgate/sessions"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found")
	}
	setupLogging()

	for {
		if err := run(); err != nil {
			log.Error().Err(err).Msg("Error running server")
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Info().Msg("Server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	displayAppname(c.GetAppName())

	ctx := context.Background()
	provider, err := idp.New(ctx, c.GetOIDCIssuerURL(), c.GetOIDCClientID(), c.GetOIDCClientSecret(), c.GetCallbackURL())
	if err != nil {
		return fmt.Errorf("idp.New: %w", err)
	}

	notifier := meraki.New(c.GetMerakiBaseURL(), c.GetMerakiAPIKey(), c.GetMerakiNetworkID())
	if c.GetMerakiNetworkID() == "" && c.GetMerakiOrgID() != "" {
		logAvailableNetworks(ctx, notifier, c.GetMerakiOrgID())
	}

	srv := server.New(
		c,
		buildSessionRepo(c),
		authstate.NewInMemoryRepo(),
		provider,
		notifier,
		metrics.NewPrometheusRecorder(nil),
	)

	httpServer := &http.Server{Addr: c.GetPort(), Handler: srv}
	go listenAndServe(httpServer, c)
	waitForStopSignal()
	returnError = shutdown(httpServer)
	return returnError
}

func setupLogging() {
	if os.Getenv("ENV") == "" || os.Getenv("ENV") == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

// buildSessionRepo selects the session store: Redis when REDIS_ADDR is set
// (shared state across relay instances), in-memory otherwise.
func buildSessionRepo(c config.Config) sessions.Repo {
	addr := c.GetRedisAddr()
	if addr == "" {
		return sessions.NewInMemorySessionRepo()
	}
	log.Info().Str("addr", addr).Msg("using Redis session store")
	return sessions.NewRedisSessionRepo(redis.NewClient(&redis.Options{Addr: addr}))
}

// logAvailableNetworks helps first-time setup: without a configured network
// ID the relay cannot provision clients, so list the candidates.
func logAvailableNetworks(ctx context.Context, client *meraki.Client, orgID string) {
	networks, err := client.Networks(ctx, orgID)
	if err != nil {
		log.Warn().Err(err).Msg("could not list controller networks")
		return
	}
	log.Warn().Msg("MERAKI_NETWORK_ID is not set; client provisioning is disabled")
	for _, n := range networks {
		log.Info().Str("id", n.ID).Str("name", n.Name).Msg("available network")
	}
}

func listenAndServe(httpServer *http.Server, c config.Config) error {
	certFile, keyFile := c.GetTLSCertFile(), c.GetTLSKeyFile()
	if certFile != "" && keyFile != "" {
		log.Info().Str("addr", httpServer.Addr).Msg("Server listening with TLS")
		if err := httpServer.ListenAndServeTLS(certFile, keyFile); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server.ListenAndServeTLS %w", err)
		}
		return nil
	}

	log.Info().Str("addr", httpServer.Addr).Msg("Server listening")
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(httpServer *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
