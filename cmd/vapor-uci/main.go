// Command vapor-uci is the UCI-speaking executable wrapping the engine
// core: it loads configuration, wires up logging, optionally profiles,
// and hands stdin/stdout to the UCI protocol loop.
package main

import (
	"flag"
	"os"

	"github.com/op/go-logging"
	"github.com/pkg/profile"

	"github.com/mikeleany/vapor-go/internal/engine"
	"github.com/mikeleany/vapor-go/internal/uci"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write a CPU profile to this directory")
	configPath = flag.String("config", "vapor.toml", "path to an optional TOML config file")
)

var log = logging.MustGetLogger("main")

func main() {
	flag.Parse()

	backend := logging.NewLogBackend(os.Stderr, "", 0)
	logging.SetBackend(backend)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if level, err := logging.LogLevel(cfg.LogLevel); err == nil {
		logging.SetLevel(level, "")
	}

	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		stop := profile.Start(profile.CPUProfile, profile.ProfilePath(profilePath), profile.NoShutdownHook)
		defer stop.Stop()
		log.Infof("CPU profiling enabled, writing to %s", profilePath)
	}

	eng := engine.NewEngine()
	eng.InitHash(cfg.HashMB * 1024 * 1024)

	protocol := uci.New(eng)
	protocol.Run()
}
