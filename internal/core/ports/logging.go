package ports

// LoggingGateway defines the interface for logging operations
type LoggingGateway interface {
	// Log logs a message with the specified level
	Log(level LogLevel, message string, fields map[string]interface{})

	// LogError logs an error
	LogError(err error, message string, fields map[string]interface{})

	// SetLogLevel sets the logging level
	SetLogLevel(level LogLevel)

	// GetLogLevel returns the current logging level
	GetLogLevel() LogLevel
}

// LogLevel defines the logging level
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
	LogLevelFatal LogLevel = "fatal"
)

// ParseLogLevel resolves a level name, reporting false for unknown names
func ParseLogLevel(name string) (LogLevel, bool) {
	switch l := LogLevel(name); l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError, LogLevelFatal:
		return l, true
	}
	return "", false
}

// Warn logs at warn level through gw, tolerating a nil gateway
func Warn(gw LoggingGateway, message string, fields map[string]interface{}) {
	if gw != nil {
		gw.Log(LogLevelWarn, message, fields)
	}
}

// Info logs at info level through gw, tolerating a nil gateway
func Info(gw LoggingGateway, message string, fields map[string]interface{}) {
	if gw != nil {
		gw.Log(LogLevelInfo, message, fields)
	}
}

// Debug logs at debug level through gw, tolerating a nil gateway
func Debug(gw LoggingGateway, message string, fields map[string]interface{}) {
	if gw != nil {
		gw.Log(LogLevelDebug, message, fields)
	}
}
