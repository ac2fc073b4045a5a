package main

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func setupLogging() {
	level := strings.ToLower(viper.GetString("log.level"))

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "trace":
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	case "disabled", "off":
		zerolog.SetGlobalLevel(zerolog.Disabled)
	default:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}

	pretty := viper.GetBool("log.pretty")
	switch output := viper.GetString("log.output"); output {
	case "stdout":
		log.Logger = newLogger(os.Stdout, pretty)
	case "", "stderr":
		log.Logger = newLogger(os.Stderr, pretty)
	default:
		fh, err := os.OpenFile(output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Logger = newLogger(os.Stderr, pretty)
			log.Error().Err(err).Str("path", output).Msg("could not open log file, logging to stderr")
			return
		}
		// log files are always JSON
		log.Logger = zerolog.New(fh).With().Timestamp().Logger()
	}
	log.Debug().Str("level", level).Msg("logging configured")
}

func newLogger(out *os.File, pretty bool) zerolog.Logger {
	if pretty {
		return log.Output(zerolog.ConsoleWriter{Out: out})
	}
	return zerolog.New(out).With().Timestamp().Logger()
}
