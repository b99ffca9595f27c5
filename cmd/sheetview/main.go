package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sheetview/internal/config"
	"sheetview/internal/gateway"
	"sheetview/internal/ui"
	"sheetview/internal/util/logx"
	"sheetview/internal/version"
)

func main() {
	logx.SetLevelFromEnv()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}

	if cfg.ShowVersion {
		fmt.Println("sheetview", version.String())
		return
	}

	// Setup cancellation on SIGINT/SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	gw, err := gateway.New(cfg.ServerURL,
		gateway.WithPrefix(cfg.APIPrefix),
		gateway.WithTimeout(time.Duration(cfg.TimeoutSec)*time.Second),
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}

	logx.Infof("starting sheetview %s: %s", version.String(), cfg.String())
	if cfg.Batch {
		if err := runBatch(ctx, cfg, gw); err != nil {
			fmt.Fprintln(os.Stderr, "sheetview:", err)
			os.Exit(1)
		}
		return
	}
	if err := ui.Run(ctx, cfg, gw); err != nil {
		logx.Errorf("sheetview exited with error: %v", err)
		os.Exit(1)
	}
}
