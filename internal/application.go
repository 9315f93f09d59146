package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-timeline/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-timeline/internal/config"
	"github.com/rocketscienceinc/tictactoe-timeline/internal/repository"
	"github.com/rocketscienceinc/tictactoe-timeline/internal/timeline"
	"github.com/rocketscienceinc/tictactoe-timeline/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-timeline/transport/rest"
	"github.com/rocketscienceinc/tictactoe-timeline/transport/websocket"
)

var (
	ErrAddrNotFound   = errors.New("redis address string is empty")
	ErrUnknownStorage = errors.New("unknown storage")
)

// RunApp - runs the application until ctx is canceled or a signal arrives.
func RunApp(ctx context.Context, logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gameManager, closeStorage, err := newGameManager(ctx, logger, conf)
	if err != nil {
		return err
	}

	defer func() {
		if err = closeStorage(); err != nil {
			log.Error("could not close storage", "error", err)
		}
	}()

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		httpErrCh <- rest.Start(ctx, conf.HTTPPort, rest.NewRouter(logger, gameManager))
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsErrCh <- websocket.New(logger, gameManager).Start(ctx, conf.SocketPort)
	}()

	select {
	case err = <-httpErrCh:
		if err != nil {
			return fmt.Errorf("HTTP server error: %w", err)
		}
	case err = <-wsErrCh:
		if err != nil {
			return fmt.Errorf("WebSocket server error: %w", err)
		}
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
	}

	return nil
}

func newGameManager(ctx context.Context, logger *slog.Logger, conf *config.Config) (*usecase.GameManager, func() error, error) {
	switch conf.Storage {
	case config.StorageMemory:
		games := repository.NewMemoryGames()
		manager := usecase.NewGameManager(logger, games, func(gameID string) timeline.Store {
			return games.Store(gameID)
		})

		return manager, func() error { return nil }, nil
	case config.StorageRedis:
		addr := conf.Redis.GetRedisAddr()
		if conf.Redis.Host == "" {
			return nil, nil, ErrAddrNotFound
		}

		client, err := repository.NewRedisClient(ctx, addr)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", apperror.ErrStorageNotReady, err)
		}

		games := repository.NewRedisGames(client)
		manager := usecase.NewGameManager(logger, games, func(gameID string) timeline.Store {
			return games.Store(gameID)
		})

		return manager, client.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownStorage, conf.Storage)
	}
}
