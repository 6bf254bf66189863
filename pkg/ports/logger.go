package ports

// LogLevel is the severity of a log message. Loggers write messages at or
// above their configured level.
type LogLevel int

const (
	LevelDebug LogLevel = iota // per-packet and per-frame details
	LevelInfo                  // pipeline progress
	LevelWarn                  // a packet or frame was skipped
	LevelError                 // the run failed
	LevelQuiet                 // nothing is written
)

var levelNames = [...]string{
	LevelDebug: "debug",
	LevelInfo:  "info",
	LevelWarn:  "warn",
	LevelError: "error",
	LevelQuiet: "quiet",
}

// String returns the flag spelling of the level.
func (l LogLevel) String() string {
	if l < LevelDebug || l > LevelQuiet {
		return "unknown"
	}
	return levelNames[l]
}

// ParseLogLevel parses a flag value. Unknown values select LevelInfo.
func ParseLogLevel(s string) LogLevel {
	for l, name := range levelNames {
		if name == s {
			return LogLevel(l)
		}
	}
	return LevelInfo
}

// Logger is the logging port. Messages are go-l10n keys; args are
// formatted after translation.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})

	// WithComponent returns a Logger that prefixes messages with component.
	WithComponent(component string) Logger
}
