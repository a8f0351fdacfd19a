// Package main launches the MUD: a dual-transport connection server (raw
// TCP and WebSocket) bridged to the room-based game layer.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DerekShute/muddle/internal/config"
	"github.com/DerekShute/muddle/internal/frontend"
	"github.com/DerekShute/muddle/internal/game"
	"github.com/DerekShute/muddle/internal/game/world"
	"github.com/DerekShute/muddle/internal/observability"
	"github.com/DerekShute/muddle/internal/server"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file (optional)")
	tcpPort := flag.Int("tcp", -1, "TCP port override (0 disables the TCP listener)")
	wsPort := flag.Int("ws", -1, "WebSocket port override (0 disables the WebSocket listener)")
	worldPath := flag.String("world", "", "path to world YAML file override")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("loading config: %v", err)
		}
		cfg = loaded
	}
	if *tcpPort >= 0 {
		cfg.Server.TCPPort = *tcpPort
	}
	if *wsPort >= 0 {
		cfg.Server.WSPort = *wsPort
	}
	if *worldPath != "" {
		cfg.World.Path = *worldPath
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()
	logger = logger.With(zap.String("run_id", uuid.NewString()))

	logger.Info("starting muddle",
		zap.Int("tcp_port", cfg.Server.TCPPort),
		zap.Int("ws_port", cfg.Server.WSPort),
	)

	w, err := loadWorld(cfg.World, logger)
	if err != nil {
		logger.Fatal("loading world", zap.Error(err))
	}
	logger.Info("world loaded",
		zap.Int("rooms", w.RoomCount()),
		zap.String("start_room", w.StartRoom),
	)

	g := game.New(w, cfg.World.MOTD, logger)
	srv := frontend.NewServer(cfg.Server, g, logger)

	// Bind eagerly so configuration and port problems fail the process
	// before anything is serving.
	if err := srv.Start(); err != nil {
		var bindErr *frontend.BindError
		switch {
		case errors.Is(err, frontend.ErrNoListeners):
			logger.Fatal("no listener configured: set a TCP or WebSocket port")
		case errors.Is(err, frontend.ErrPortConflict):
			logger.Fatal("TCP and WebSocket servers cannot use the same port",
				zap.Int("port", cfg.Server.TCPPort),
			)
		case errors.As(err, &bindErr):
			logger.Fatal("cannot bind listener",
				zap.String("transport", string(bindErr.Transport)),
				zap.String("addr", bindErr.Addr),
				zap.Error(bindErr.Err),
			)
		default:
			logger.Fatal("starting server", zap.Error(err))
		}
	}

	lifecycle := server.NewLifecycle(logger)
	lifecycle.Add("frontend", &server.FuncService{
		StartFn: srv.Run,
		StopFn:  srv.Shutdown,
	})

	logger.Info("muddle initialized",
		zap.Duration("startup", time.Since(start)),
		zap.String("tcp_addr", srv.TCPAddr()),
		zap.String("ws_addr", srv.WSAddr()),
	)

	if err := lifecycle.Run(context.Background()); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}

	logger.Info("server shutdown, good bye")
}

// loadWorld loads the configured world file, falling back to the built-in
// two-room world when no file exists at the default path.
func loadWorld(cfg config.WorldConfig, logger *zap.Logger) (*world.World, error) {
	if _, err := os.Stat(cfg.Path); errors.Is(err, os.ErrNotExist) {
		logger.Info("world file not found, using built-in world",
			zap.String("path", cfg.Path),
		)
		return world.Default(), nil
	}
	return world.LoadFromFile(cfg.Path)
}
