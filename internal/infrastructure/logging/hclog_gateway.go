package logging

import (
	"io"
	"os"
	"sort"

	"github.com/hashicorp/go-hclog"

	"mojoscan.dev/cli/internal/core/ports"
)

// Name is the logger name printed with every line.
const Name = "mojoscan"

// Options configures an HCLogGateway.
type Options struct {
	Level       ports.LogLevel
	Output      io.Writer
	JSON        bool
	DisableTime bool
}

// HCLogGateway implements ports.LoggingGateway on top of hclog.
type HCLogGateway struct {
	logger hclog.Logger
	level  ports.LogLevel
}

// NewHCLogGateway creates a gateway writing to opts.Output, or stderr when
// no output is given.
func NewHCLogGateway(opts Options) *HCLogGateway {
	output := opts.Output
	if output == nil {
		output = os.Stderr
	}
	level := opts.Level
	if level == "" {
		level = ports.LogLevelInfo
	}

	return &HCLogGateway{
		logger: hclog.New(&hclog.LoggerOptions{
			Name:        Name,
			Level:       toHCLevel(level),
			Output:      output,
			JSONFormat:  opts.JSON,
			DisableTime: opts.DisableTime,
		}),
		level: level,
	}
}

// Log writes message at level with fields as key/value pairs.
func (g *HCLogGateway) Log(level ports.LogLevel, message string, fields map[string]interface{}) {
	args := fieldArgs(fields)
	switch level {
	case ports.LogLevelDebug:
		g.logger.Debug(message, args...)
	case ports.LogLevelWarn:
		g.logger.Warn(message, args...)
	case ports.LogLevelError, ports.LogLevelFatal:
		g.logger.Error(message, args...)
	default:
		g.logger.Info(message, args...)
	}
}

// LogError writes message at error level with err attached.
func (g *HCLogGateway) LogError(err error, message string, fields map[string]interface{}) {
	args := fieldArgs(fields)
	if err != nil {
		args = append(args, "error", err.Error())
	}
	g.logger.Error(message, args...)
}

// SetLogLevel changes the minimum level written.
func (g *HCLogGateway) SetLogLevel(level ports.LogLevel) {
	g.level = level
	g.logger.SetLevel(toHCLevel(level))
}

// GetLogLevel returns the minimum level written.
func (g *HCLogGateway) GetLogLevel() ports.LogLevel {
	return g.level
}

// Logger exposes the underlying hclog logger.
func (g *HCLogGateway) Logger() hclog.Logger {
	return g.logger
}

func toHCLevel(level ports.LogLevel) hclog.Level {
	switch level {
	case ports.LogLevelDebug:
		return hclog.Debug
	case ports.LogLevelWarn:
		return hclog.Warn
	case ports.LogLevelError, ports.LogLevelFatal:
		return hclog.Error
	default:
		return hclog.Info
	}
}

// fieldArgs flattens fields into sorted key/value arguments.
func fieldArgs(fields map[string]interface{}) []interface{} {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]interface{}, 0, 2*len(keys))
	for _, k := range keys {
		args = append(args, k, fields[k])
	}
	return args
}

var _ ports.LoggingGateway = (*HCLogGateway)(nil)
