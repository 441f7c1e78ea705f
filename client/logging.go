package client

import (
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

// zerologAdapter routes resty's logger through the global zerolog logger.
type zerologAdapter struct{}

func (zerologAdapter) Errorf(format string, v ...interface{}) { log.Error().Msgf(format, v...) }
func (zerologAdapter) Warnf(format string, v ...interface{})  { log.Warn().Msgf(format, v...) }
func (zerologAdapter) Debugf(format string, v ...interface{}) { log.Debug().Msgf(format, v...) }

// debugLoggingRequested reports whether DAILY_DIET_DEBUG asks for wire logging.
func debugLoggingRequested() bool {
	switch strings.ToLower(os.Getenv("DAILY_DIET_DEBUG")) {
	case "1", "true", "yes":
		return true
	}
	return false
}
