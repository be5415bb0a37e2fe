package main

import (
	"context"
	"os"
	"time"

	"video-converter/internal/memory"
	"video-converter/internal/server"
	"video-converter/internal/startup"
	"video-converter/internal/workspace"
)

func main() {
	startTime := time.Now()

	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}
	memory.ConfigureFromEnv()

	if err := config.SetupTempDir(); err != nil {
		startup.LogFatal("Temp directory setup failed: %v", err)
	}

	root := config.TempDir
	if root == "" {
		root = os.TempDir()
	}
	srv := server.New(config, workspace.NewProcessTemp(config.TempDir), map[string]string{"temp": root})

	ctx, stop := server.NotifyShutdown(context.Background())
	defer stop()

	if err := srv.Run(ctx, startTime); err != nil {
		startup.LogFatal("Server error: %v", err)
	}
}
