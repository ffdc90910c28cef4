package logger

import (
	"fmt"
	"time"
)

// Color codes for terminal output
const (
	ColorReset  = "\033[0m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorCyan   = "\033[36m"
	ColorRed    = "\033[31m"
)

type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

var GlobalLogLevel = LogLevelInfo

// ParseLevel maps a config string to a LogLevel, defaulting to info.
func ParseLevel(s string) LogLevel {
	switch s {
	case "debug":
		return LogLevelDebug
	case "warn":
		return LogLevelWarn
	case "error":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

type Log struct {
	level LogLevel
	err   error
}

func New() *Log {
	return &Log{
		level: GlobalLogLevel,
	}
}

func (l *Log) SetLevel(level LogLevel) {
	l.level = level
}

func (l *Log) WithError(err error) *Log {
	return &Log{level: l.level, err: err}
}

func (l *Log) timestamp() string {
	return time.Now().Format("15:04:05")
}

func (l *Log) Debug(msg string) {
	if l.level > LogLevelDebug {
		return
	}
	if l.err != nil {
		fmt.Printf("%s[%s]%s DEBUG %s: %v\n", ColorCyan, l.timestamp(), ColorReset, msg, l.err)
		return
	}
	fmt.Printf("%s[%s]%s DEBUG %s\n", ColorCyan, l.timestamp(), ColorReset, msg)
}

func (l *Log) Info(msg string) {
	if l.level > LogLevelInfo {
		return
	}
	fmt.Printf("%s[%s]%s INFO  %s\n", ColorBlue, l.timestamp(), ColorReset, msg)
}

func (l *Log) Warn(msg string) {
	if l.level > LogLevelWarn {
		return
	}
	if l.err != nil {
		fmt.Printf("%s[%s]%s WARN  %s: %v\n", ColorYellow, l.timestamp(), ColorReset, msg, l.err)
		return
	}
	fmt.Printf("%s[%s]%s WARN  %s\n", ColorYellow, l.timestamp(), ColorReset, msg)
}

func (l *Log) Error(msg string) {
	if l.err != nil {
		fmt.Printf("%s[%s]%s ERROR %s: %v\n", ColorRed, l.timestamp(), ColorReset, msg, l.err)
		return
	}
	fmt.Printf("%s[%s]%s ERROR %s\n", ColorRed, l.timestamp(), ColorReset, msg)
}
