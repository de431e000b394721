// Package logging builds the zap loggers used by the CLI.
package logging

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/conduit-lang/ogm/internal/config"
)

// New builds a logger from the logging configuration, writing to stderr.
func New(cfg *config.Config) *zap.Logger {
	return NewTo(cfg, os.Stderr)
}

// NewTo builds a logger writing to w. JSON output uses the production encoder
// config; console output uses the development one without stack traces
// below error level.
func NewTo(cfg *config.Config, w io.Writer) *zap.Logger {
	var enc zapcore.Encoder
	if cfg.Logging.JSON {
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	} else {
		ec := zap.NewDevelopmentEncoderConfig()
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		if f, ok := w.(*os.File); !ok || f != os.Stderr {
			ec.EncodeLevel = zapcore.CapitalLevelEncoder
		}
		enc = zapcore.NewConsoleEncoder(ec)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(w), zap.NewAtomicLevelAt(cfg.Level()))
	return zap.New(core, zap.AddStacktrace(zapcore.ErrorLevel))
}
