package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rivalplay/arena-backend/internal/config"
	"github.com/rivalplay/arena-backend/internal/repository"
	"github.com/rivalplay/arena-backend/internal/repository/storage"
	"github.com/rivalplay/arena-backend/internal/service"
	"github.com/rivalplay/arena-backend/transport/rest"
	"github.com/rivalplay/arena-backend/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.NewRedis(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	sqliteStorage, err := storage.NewSQLite(conf.SQLiteStoragePath)
	if err != nil {
		return fmt.Errorf("could not open sqlite storage: %w", err)
	}

	defer func() {
		if err = sqliteStorage.Close(); err != nil {
			log.Error("could not close sqlite storage", "error", err)
		}
	}()

	if err = sqliteStorage.Init(ctx); err != nil {
		return fmt.Errorf("could not init sqlite storage: %w", err)
	}

	userRepo := repository.NewUserRepository(sqliteStorage.Connection)
	recordRepo := repository.NewRecordRepository(sqliteStorage.Connection)
	playerRepo := repository.NewPlayerRepository(redisStorage.Connection)

	authService := service.NewAuthService(conf.JWTSecretKey)
	userService := service.NewUserService(userRepo)
	reporter := service.NewOutcomeReporter(userRepo, recordRepo)

	connRegistry := service.NewRegistry()
	wsServer := websocket.New(logger, connRegistry, playerRepo)

	roomManager := service.NewRoomManager(logger, connRegistry, reporter, wsServer)
	matchmaker := service.NewMatchmaker(logger, connRegistry, roomManager, authService, wsServer)
	wsServer.Bind(matchmaker, roomManager)

	authHandler := rest.NewAuth(logger, conf, authService, userService)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.Start(conf.HTTPPort, conf.SessionSecretKey, authHandler); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}
