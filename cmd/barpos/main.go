package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"barpos/internal/app/api"
	"barpos/internal/app/notify"
	"barpos/internal/common/logger"
	"barpos/internal/config"
)

func main() {
	mode := flag.String("mode", "", "api-server | notification-subscriber")
	port := flag.Int("port", 0, "http port for the api server")
	cfgPath := flag.String("config", "", "path to YAML config (auto-discovered when empty)")
	flag.Parse()

	lg := logger.New("bootstrap")

	path := *cfgPath
	if path == "" {
		var err error
		if path, err = config.FindConfig(); err != nil {
			fmt.Fprintln(os.Stderr, "no config file found; pass --config")
			os.Exit(2)
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		lg.Error("config_load_failed", err, map[string]any{"path": path})
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch *mode {
	case "api-server":
		if *port == 0 {
			*port = cfg.HTTP.Port
		}
		lg.Info("service_started", map[string]any{"service": "api-server", "port": *port})
		if err := api.Run(ctx, cfg, *port); err != nil {
			lg.Error("fatal", err, nil)
			os.Exit(1)
		}
	case "notification-subscriber":
		lg.Info("service_started", map[string]any{"service": "notification-subscriber"})
		if err := notify.Run(ctx, cfg); err != nil {
			lg.Error("fatal", err, nil)
			os.Exit(1)
		}
	default:
		fmt.Fprintln(os.Stderr, "--mode is required: api-server | notification-subscriber")
		os.Exit(2)
	}
}
