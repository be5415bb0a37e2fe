package startup

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"time"

	"video-converter/internal/logging"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

const rule = "------------------------------------------------------------"

// section logs a titled divider.
func section(title string, args ...interface{}) {
	logging.Info("")
	logging.Info(rule)
	logging.Info(title, args...)
	logging.Info(rule)
}

func printBanner() {
	banner := `
` + rule + `
 _    ___     __                ______                           __
| |  / (_)___/ /__  ____       / ____/___  ____ _   _____  _____/ /_
| | / / / __  / _ \/ __ \     / /   / __ \/ __ \ | / / _ \/ ___/ __/
| |/ / / /_/ /  __/ /_/ /    / /___/ /_/ / / / / |/ /  __/ /  / /_
|___/_/\__,_/\___/\____/     \____/\____/_/ /_/|___/\___/_/   \__/

` + rule
	fmt.Println(banner)
	logging.Info("  Version:    %s", Version)
	logging.Info("  Commit:     %s", Commit)
	logging.Info("  Build Time: %s", BuildTime)
	logging.Info("  Started:    %s", time.Now().Format(time.RFC1123))
	logging.Info("")
}

func logSystemInfo() {
	section("SYSTEM INFORMATION")
	procs, cpus := runtime.GOMAXPROCS(0), runtime.NumCPU()
	logging.Info("  Runtime:         %s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	logging.Info("  CPUs:            %d usable of %d", procs, cpus)
	if procs < cpus {
		logging.Info("  (Container CPU limit detected)")
	}
	if path, err := exec.LookPath("ffmpeg"); err == nil {
		logging.Debug("  ffmpeg on PATH:  %s", path)
	}

	if logging.IsDebugEnabled() {
		if wd, err := os.Getwd(); err == nil {
			logging.Debug("  Working dir:     %s", wd)
		}
		if hostname, err := os.Hostname(); err == nil {
			logging.Debug("  Hostname:        %s", hostname)
		}
	}
}
