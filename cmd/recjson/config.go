package main

import (
	"io"
	"strings"

	"github.com/caarlos0/env/v9"
	"github.com/gravitational/trace"
	"github.com/sirupsen/logrus"
)

const envPrefix = "RECJSON_"

// config holds defaults read from RECJSON_* variables. Command line flags
// override them.
type config struct {
	Workers   int    `env:"WORKERS"`
	OnError   string `env:"ON_ERROR" envDefault:"abort"`
	MaxDepth  int    `env:"MAX_DEPTH"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	Delimiter string `env:"DELIMITER" envDefault:"\t"`
}

// loadConfig reads the environment. A nil environ reads the process
// environment.
func loadConfig(environ map[string]string) (config, error) {
	var c config
	if err := env.ParseWithOptions(&c, env.Options{Prefix: envPrefix, Environment: environ}); err != nil {
		return c, trace.Wrap(err, "could not read configuration from env")
	}
	return c, nil
}

func newLogger(level string, out io.Writer) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, trace.BadParameter("invalid log level %q", level)
	}
	log := logrus.New()
	log.SetOutput(out)
	log.SetLevel(lvl)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableColors: true})
	return log, nil
}

// unescapeDelimiter accepts the common escaped spellings of tab.
func unescapeDelimiter(d string) string {
	switch strings.ToLower(d) {
	case `\t`, "tab":
		return "\t"
	}
	return d
}
