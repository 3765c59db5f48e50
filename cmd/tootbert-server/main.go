// Command tootbert-server runs the classification gateway: it loads the
// models once and serves classify requests over WebSocket.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ramou/TooT-BERT-T/internal/app"
	"github.com/ramou/TooT-BERT-T/internal/config"
	"github.com/ramou/TooT-BERT-T/internal/gateway"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "./config.yaml", "path to config file")
	portOverride := flag.Int("port", 0, "override gateway port")
	verbose := flag.Bool("verbose", false, "enable verbose logging")
	flag.Parse()

	if *verbose {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Printf("failed to load config: %v", err)
		return 1
	}
	cfg = config.WithDefaults(cfg)

	if *portOverride > 0 {
		cfg.Gateway.Port = *portOverride
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pipeline, cleanup, err := app.BuildPipeline(ctx, cfg)
	if err != nil {
		log.Printf("setup failed: %v", err)
		return 1
	}
	defer cleanup()

	server, err := gateway.NewServer(cfg.Gateway, cfg.Model.ID, pipeline)
	if err != nil {
		log.Printf("failed to initialize gateway: %v", err)
		return 1
	}

	if err := server.Start(ctx); err != nil {
		log.Printf("gateway error: %v", err)
		if err := server.Stop(); err != nil {
			log.Printf("gateway shutdown error: %v", err)
		}
		return 1
	}

	if err := server.Stop(); err != nil {
		log.Printf("gateway shutdown error: %v", err)
		return 1
	}

	return 0
}
