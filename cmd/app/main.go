package main

import (
	"context"
	"fmt"
	"os"

	"tourguard/internal/config"
	"tourguard/internal/mylogger"

	trackingservice "tourguard/internal/tracking-service"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	mylog, err := mylogger.New(cfg.Log.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to init logger:", err)
		os.Exit(1)
	}

	if err := trackingservice.Execute(context.Background(), mylog, cfg); err != nil {
		mylog.Error("tracking service exited with error", err)
		os.Exit(1)
	}
}
