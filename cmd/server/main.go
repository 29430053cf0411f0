package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/drawparty/backend/internal/canvas"
	"github.com/drawparty/backend/internal/config"
	"github.com/drawparty/backend/internal/health"
	"github.com/drawparty/backend/internal/hub"
	"github.com/drawparty/backend/internal/room"
	"github.com/drawparty/backend/internal/ws"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to config file")
	port := flag.Int("port", 0, "Override server port")
	frontendDir := flag.String("frontend", "", "Serve a frontend directory at / (dev only)")
	flag.Parse()

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *port > 0 {
		cfg.Server.Port = *port
	}

	registry := room.NewRegistry(cfg.Room.Capacity, cfg.Room.Palette)
	history := canvas.NewHistory()
	h := hub.New(registry, history, cfg.WS.SendBuffer)

	reporter, err := health.NewReporter()
	if err != nil {
		log.Fatalf("Failed to init health reporter: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	server := ws.NewServer(cfg, h, reporter, *frontendDir)
	mux := http.NewServeMux()
	server.SetupRoutes(mux)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("Shutting down...")
		cancel()
		os.Exit(0)
	}()

	if err := ws.ListenAndServe(cfg.Server.Host, cfg.Server.Port, mux); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
