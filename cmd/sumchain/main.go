package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/togatoga/codevs-reborn/engine"
)

const aiName = "sumchain"

type commonFlags struct {
	configPath string
	logLevel   string
	pretty     bool
	depth      int
	width      int
	seed       uint64
	logStats   bool
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", getenv("SUMCHAIN_CONFIG", ""), "path to a JSON solver config")
	fs.StringVar(&c.logLevel, "log-level", getenv("SUMCHAIN_LOG_LEVEL", "info"), "log level (debug, info, warn, error)")
	fs.BoolVar(&c.pretty, "pretty", getenvBool("SUMCHAIN_PRETTY", false), "human readable logs on stderr")
	fs.IntVar(&c.depth, "depth", getenvInt("SUMCHAIN_DEPTH", 0), "beam depth override")
	fs.IntVar(&c.width, "width", getenvInt("SUMCHAIN_WIDTH", 0), "beam width override")
	fs.Uint64Var(&c.seed, "seed", uint64(getenvInt("SUMCHAIN_SEED", 0)), "jitter seed override")
	fs.BoolVar(&c.logStats, "stats", getenvBool("SUMCHAIN_STATS", false), "log search statistics every turn")
}

// config layers defaults, the JSON file and then explicit overrides.
func (c *commonFlags) config() (engine.Config, error) {
	config := engine.DefaultConfig()
	if c.configPath != "" {
		data, err := os.ReadFile(c.configPath)
		if err != nil {
			return config, fmt.Errorf("read config: %w", err)
		}
		if err := json.Unmarshal(data, &config); err != nil {
			return config, fmt.Errorf("parse config %s: %w", c.configPath, err)
		}
	}
	if c.depth > 0 {
		config.BeamDepth = c.depth
	}
	if c.width > 0 {
		config.BeamWidth = c.width
	}
	if c.seed > 0 {
		config.Seed = c.seed
	}
	if c.logStats {
		config.LogStats = true
	}
	if err := config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}

func (c *commonFlags) setupLogging() {
	level, err := zerolog.ParseLevel(strings.ToLower(c.logLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if c.pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		return
	}
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage: %s [command] [flags]

commands:
  run      play over stdin/stdout (default)
  bench    think once per pack file and write CSV results
  serve    analytics HTTP server without a live game
  genpack  write a random pack feed
`, aiName)
}

func main() {
	args := os.Args[1:]
	cmd := "run"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = args[0], args[1:]
	}
	var err error
	switch cmd {
	case "run":
		err = runCommand(args)
	case "bench":
		err = benchCommand(args)
	case "serve":
		err = serveCommand(args)
	case "genpack":
		err = genpackCommand(args)
	case "help", "-h", "--help":
		usage()
		return
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Str("command", cmd).Msg("exiting")
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "t", "yes", "y", "on":
			return true
		case "0", "false", "f", "no", "n", "off":
			return false
		}
	}
	return fallback
}
