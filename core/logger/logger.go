package logger

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the process logger. The debug level switches to zap's
// development preset; the console format produces colored human-readable
// output for local runs and the CLI, everything else is structured JSON.
func New(cfg *Config) (*zap.Logger, error) {
	base := zap.NewProductionConfig()
	if cfg.Level == "debug" {
		base = zap.NewDevelopmentConfig()
	}

	switch cfg.Format {
	case "console":
		base.Encoding = "console"
		base.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		base.DisableStacktrace = true
	default:
		base.Encoding = "json"
	}

	base.EncoderConfig.LevelKey = "level"
	base.EncoderConfig.TimeKey = "time"
	base.EncoderConfig.MessageKey = "message"

	return base.Build()
}

// WithRayID annotates the logger with the request's ray id so every log line
// of one HTTP request can be correlated.
func WithRayID(l *zap.Logger, c *fiber.Ctx) *zap.Logger {
	if rid, ok := c.Locals("ray_id").(string); ok && rid != "" {
		return l.With(zap.String("ray_id", rid))
	}
	return l
}
