package main

import (
	"context"
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

	if err := config.SetupStandaloneDirs(); err != nil {
		startup.LogFatal("Directory setup failed: %v", err)
	}

	provider := workspace.NewDirs(config.UploadDir, config.ConvertedDir)
	srv := server.New(config, provider, map[string]string{
		"uploads":   config.UploadDir,
		"converted": config.ConvertedDir,
	})

	ctx, stop := server.NotifyShutdown(context.Background())
	defer stop()

	if err := srv.Run(ctx, startTime); err != nil {
		startup.LogFatal("Server error: %v", err)
	}
}
