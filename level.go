package wasmpdk

import "math"

// LogLevel is the host log level scale. The host's get-log-level import
// reports the minimum level it will record; LogNone disables logging.
type LogLevel int32

const (
	LogTrace LogLevel = iota
	LogDebug
	LogInfo
	LogWarn
	LogError

	LogNone LogLevel = math.MaxInt32
)

var levelNames = [...]string{
	LogTrace: "trace",
	LogDebug: "debug",
	LogInfo:  "info",
	LogWarn:  "warn",
	LogError: "error",
}

func (l LogLevel) String() string {
	if l == LogNone {
		return "none"
	}
	if l >= 0 && int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}
