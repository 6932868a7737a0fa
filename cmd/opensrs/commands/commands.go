// Package commands implements the opensrs CLI commands.
package commands

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/supernovus/opensrs-go/pkg/client"
	"github.com/supernovus/opensrs-go/pkg/config"
	"github.com/supernovus/opensrs-go/pkg/log"
)

// Exit codes.
const (
	exitSuccess      = 0
	exitCommandError = 1
	exitAPIFailure   = 2
)

// CommonOptions are the connection flags shared by every command that talks
// to the API.
type CommonOptions struct {
	ConfigFile  string
	Environment string
	URL         string
	Debug       bool
	ProtocolLog string
	LogLevel    string
	Format      string // text, yaml, json
}

func addCommonFlags(fs *flag.FlagSet) *CommonOptions {
	opts := &CommonOptions{}
	fs.StringVar(&opts.ConfigFile, "config", "", "Configuration file path (YAML)")
	fs.StringVar(&opts.Environment, "env", "", "API environment: test, live")
	fs.StringVar(&opts.URL, "url", "", "API URL (overrides -env)")
	fs.BoolVar(&opts.Debug, "debug", false, "Log request and response XML")
	fs.StringVar(&opts.ProtocolLog, "protocol-log", "", "Write protocol events to this file")
	fs.StringVar(&opts.LogLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	fs.StringVar(&opts.Format, "format", "text", "Output format: text, yaml, json")
	return opts
}

// loadConfig resolves settings from the config file, the environment and the
// command-line overrides, in that order.
func (o *CommonOptions) loadConfig() (config.Config, error) {
	cfg := config.Default()
	if o.ConfigFile != "" {
		if err := cfg.ReadFile(o.ConfigFile); err != nil {
			return config.Config{}, err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return config.Config{}, err
	}
	if o.Environment != "" {
		cfg.Environment = o.Environment
		cfg.URL = ""
	}
	if o.URL != "" {
		cfg.URL = o.URL
	}
	if o.Debug {
		cfg.Debug = true
	}
	if o.ProtocolLog != "" {
		cfg.ProtocolLog = o.ProtocolLog
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newClient builds a client from the options. The returned function closes
// the protocol log, if any.
func (o *CommonOptions) newClient(stderr io.Writer) (*client.Client, func() error, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	level, err := parseLevel(o.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Debug && level > slog.LevelDebug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	// In debug mode protocol events are echoed to the log as well.
	var protocol log.Logger
	if cfg.Debug {
		protocol = log.NewSlogAdapter(logger)
	}
	return client.FromConfig(cfg, logger, protocol)
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level: %s", s)
	}
}

func checkFormat(format string) error {
	switch format {
	case "text", "yaml", "json":
		return nil
	default:
		return fmt.Errorf("unknown format: %s (supported: text, yaml, json)", format)
	}
}
