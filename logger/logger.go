package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init sets up the global logger. Output always goes to the console
// and additionally to logFilePath when it can be opened.
func Init(logFilePath string) {
	consoleWriter := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.ANSIC,
		FormatLevel: func(i any) string {
			s, _ := i.(string)
			return colorizeLevel(s)
		},
		FormatMessage: func(i any) string {
			if i == nil {
				return ""
			}
			return fmt.Sprintf("> %s", i)
		},
	}

	writers := []io.Writer{consoleWriter}

	if logFilePath != "" {
		if f, err := openLogFile(logFilePath); err != nil {
			log.Warn().Err(err).Msg("File logging disabled")
		} else {
			writers = append(writers, f)
		}
	}

	multi := zerolog.MultiLevelWriter(writers...)
	log.Logger = zerolog.New(multi).With().Timestamp().Logger()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("could not create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("could not open log file: %w", err)
	}
	return f, nil
}

// SetLevel sets the global logging level. Unknown levels fall back
// to info.
func SetLevel(level string) {
	logLevel, err := ParseLevel(level)
	if err != nil {
		log.Warn().Msgf("Invalid log level '%s'. Using 'info' level.", level)
	}
	zerolog.SetGlobalLevel(logLevel)
}

// ParseLevel is zerolog.ParseLevel with info as the fallback.
func ParseLevel(level string) (zerolog.Level, error) {
	logLevel, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || logLevel == zerolog.NoLevel {
		if err == nil {
			err = fmt.Errorf("empty log level")
		}
		return zerolog.InfoLevel, err
	}
	return logLevel, nil
}

func colorizeLevel(level string) string {
	switch strings.ToLower(level) {
	case "debug":
		return "\033[36mDBG\033[0m"
	case "info":
		return "\033[32mINF\033[0m"
	case "warn":
		return "\033[33mWRN\033[0m"
	case "error":
		return "\033[31mERR\033[0m"
	case "fatal":
		return "\033[35mFTL\033[0m"
	case "panic":
		return "\033[41mPNC\033[0m"
	default:
		return level
	}
}
