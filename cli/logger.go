package cli

import (
	"io"

	"github.com/dchest/uniuri"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger writes human-readable logs to w. Every line carries an invocation
// id so interleaved runs in a shared log can be told apart.
func NewLogger(w io.Writer, verbose bool) *zap.Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	enc := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), level)
	return zap.New(core).With(zap.String("invocation", uniuri.NewLen(8)))
}
