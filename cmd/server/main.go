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
	"github.com/jrsteele09/go-event-portal/identity"
	"github.com/jrsteele09/go-event-portal/internal/config"
	"github.com/jrsteele09/go-event-portal/internal/logger"
	"github.com/jrsteele09/go-event-portal/server"
	"github.com/jrsteele09/go-event-portal/server/authflowrepo"
	"github.com/jrsteele09/go-event-portal/server/loginsession"
	"github.com/jrsteele09/go-event-portal/users"
	fakeuserrepo "github.com/jrsteele09/go-event-portal/users/repofake"
	"github.com/jrsteele09/go-event-portal/users/repopg"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Error running server")
	}
	log.Info().Msg("Server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	logger.Init(c.GetLogLevel(), c.GetLogFormat())
	displayAppname(c.GetAppName())

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	deps, closeDeps, err := buildDeps(ctx, c)
	cancel()
	if err != nil {
		return err
	}
	defer closeDeps()

	handler, err := server.New(c, deps)
	if err != nil {
		return err
	}
	defer handler.Close()

	httpServer := &http.Server{Addr: c.GetPort(), Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- listenAndServe(httpServer)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(httpServer)
}

// buildDeps connects the stores that are configured and falls back to in-memory ones
func buildDeps(ctx context.Context, c config.Config) (server.Deps, func(), error) {
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	auth, err := identity.NewOIDCClient(ctx, identity.OIDCConfig{
		Issuer:       c.GetOIDCIssuer(),
		ClientID:     c.GetOIDCClientID(),
		ClientSecret: c.GetOIDCClientSecret(),
		RedirectURL:  c.GetBaseURL() + server.RouteCallback,
		Scopes:       c.GetOIDCScopes(),
	})
	if err != nil {
		return server.Deps{}, nil, err
	}

	deps := server.Deps{
		Authenticator: auth,
		AuthFlows:     authflowrepo.NewInMemoryRepo(),
	}

	if secret := c.GetTokenSecret(); secret != "" {
		var opts []identity.TokenVerifierOption
		if issuer := c.GetTokenIssuer(); issuer != "" {
			opts = append(opts, identity.WithIssuer(issuer))
		}
		tokens, err := identity.NewTokenVerifier(secret, opts...)
		if err != nil {
			return server.Deps{}, nil, err
		}
		deps.Tokens = tokens
	} else {
		log.Warn().Msg("TOKEN_SECRET not set, the JSON route API is disabled")
	}

	if addr := c.GetRedisAddress(); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr, Password: c.GetRedisPassword()})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return server.Deps{}, nil, fmt.Errorf("redis ping: %w", err)
		}
		closers = append(closers, func() { client.Close() })
		deps.LoginSessions = loginsession.NewRedisRepo(client)
		log.Info().Str("address", addr).Msg("Login sessions stored in Redis")
	} else {
		deps.LoginSessions = loginsession.NewInMemoryLoginSessionRepo()
		log.Warn().Msg("REDIS_ADDRESS not set, login sessions are kept in memory")
	}

	var userRepo users.Repo
	if dsn := c.GetDatabaseURL(); dsn != "" {
		pg, err := repopg.Open(ctx, dsn)
		if err != nil {
			closeAll()
			return server.Deps{}, nil, err
		}
		closers = append(closers, func() { pg.Close() })
		userRepo = pg
		log.Info().Msg("Profiles stored in Postgres")
	} else {
		userRepo = fakeuserrepo.NewFakeUserRepo()
		log.Warn().Msg("DATABASE_URL not set, profiles are kept in memory")
	}
	deps.Users = userRepo

	return deps, closeAll, nil
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
