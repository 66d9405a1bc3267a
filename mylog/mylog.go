package mylog

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// Logger is the minimal interface used across the application
type Logger interface {
	Printf(string, ...interface{})
}

type Level int

const (
	LevelFatal Level = iota - 1
	LevelError
	LevelInfo
	LevelTrace
	LevelDebug
)

var levelStrings = map[string]Level{
	"FATAL": LevelFatal,
	"ERROR": LevelError,
	"INFO":  LevelInfo,
	"TRACE": LevelTrace,
	"DEBUG": LevelDebug,
}

var prefixes = map[Level]string{
	LevelFatal: "[FATAL] ",
	LevelError: "[ERROR] ",
	LevelInfo:  "[INFO ] ",
	LevelTrace: "[TRACE] ",
	LevelDebug: "[DEBUG] ",
}

var colors = map[Level]*color.Color{
	LevelFatal: color.New(color.FgHiRed, color.Bold),
	LevelError: color.New(color.FgRed),
	LevelInfo:  color.New(color.FgGreen),
	LevelTrace: color.New(color.FgCyan),
	LevelDebug: color.New(color.FgHiBlack),
}

// ParseLevel returns the level named by s
func ParseLevel(s string) (Level, error) {
	l, ok := levelStrings[strings.ToUpper(strings.TrimSpace(s))]
	if !ok {
		return LevelInfo, fmt.Errorf("invalid log level '%s'", s)
	}
	return l, nil
}

func (l Level) String() string {
	return strings.TrimSpace(strings.Trim(prefixes[l], "[] "))
}

type MyLog struct {
	sync.Mutex
	logLevel      Level
	consoleLogger Logger
	fileLogger    Logger
	exit          func(int)
}

// NewLog return a MyLog structure.
// The console logger receives messages up to the given level with a coloured prefix.
// When a file logger is given, the console only gets errors and the file gets everything up to the level.
func NewLog(lvl string, consoleLogger, fileLogger Logger) (*MyLog, error) {
	level, err := ParseLevel(lvl)
	if err != nil {
		return nil, err
	}

	return &MyLog{
		logLevel:      level,
		consoleLogger: consoleLogger,
		fileLogger:    fileLogger,
		exit:          os.Exit,
	}, nil
}

// NewWriterLog is a helper building a console logger on w
func NewWriterLog(lvl string, w io.Writer) (*MyLog, error) {
	return NewLog(lvl, log.New(w, "", log.LstdFlags), nil)
}

// SetConsole swaps the console logger and returns the previous one.
// The progress display uses it to route messages above the bars.
func (l *MyLog) SetConsole(c Logger) Logger {
	l.Lock()
	defer l.Unlock()
	old := l.consoleLogger
	l.consoleLogger = c
	return old
}

// Level returns the configured level
func (l *MyLog) Level() Level {
	if l == nil {
		return LevelInfo
	}
	return l.logLevel
}

// Fatal prepare the output of FATAL message
func (l *MyLog) Fatal() logcontext {
	return logcontext{l, LevelFatal}
}

// Error prepare the output of ERROR message
func (l *MyLog) Error() logcontext {
	return logcontext{l, LevelError}
}

// Info prepare the output of INFO message
func (l *MyLog) Info() logcontext {
	return logcontext{l, LevelInfo}
}

// Trace prepare the output of TRACE message
func (l *MyLog) Trace() logcontext {
	return logcontext{l, LevelTrace}
}

// Debug prepare the output of DEBUG message
func (l *MyLog) Debug() logcontext {
	return logcontext{l, LevelDebug}
}

// IsDebug return true if log level is DEBUG
func (l *MyLog) IsDebug() bool {
	if l == nil {
		return true
	}
	return l.logLevel >= LevelDebug
}

// Printf logs at INFO level, so a *MyLog is a Logger
func (l *MyLog) Printf(f string, args ...interface{}) {
	l.Info().Printf(f, args...)
}

// logcontext get the level of current message
type logcontext struct {
	mylog *MyLog
	lvl   Level
}

// Printf print message on configured writers
// When a log file writer is provided, only errors are written on
// console writer
// When the message is FATAL, the message is written on writers and the
// program exits
// If the logger isn't initialized, it logs to the console
func (c logcontext) Printf(f string, args ...interface{}) {
	if c.mylog == nil {
		if c.lvl == LevelFatal {
			log.Fatalf(prefixes[c.lvl]+f, args...)
		} else {
			log.Printf(prefixes[c.lvl]+f, args...)
		}
		return
	}
	c.mylog.Lock()
	console, file := c.mylog.consoleLogger, c.mylog.fileLogger
	c.mylog.Unlock()

	if console != nil && c.lvl <= c.mylog.logLevel && (file == nil || c.lvl <= LevelError) {
		console.Printf(colors[c.lvl].Sprint(prefixes[c.lvl])+f, args...)
	}
	if file != nil && c.lvl <= c.mylog.logLevel {
		file.Printf(prefixes[c.lvl]+f, args...)
	}
	if c.lvl == LevelFatal {
		if console == nil && file == nil {
			log.Printf(prefixes[c.lvl]+f, args...)
		}
		c.mylog.exit(1)
	}
}

// Discard gives a logger printing nothing, for components created without logger
func Discard() *MyLog {
	return &MyLog{
		logLevel:      LevelError,
		consoleLogger: log.New(io.Discard, "", 0),
		exit:          os.Exit,
	}
}
