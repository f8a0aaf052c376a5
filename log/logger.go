// Package log provides the codec's level-filtered logging. Messages carry
// a [level] marker; anything below the configured minimum level is
// discarded before it reaches the output.
package log

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"time"
)

type Level string

const (
	LDebug = Level("debug")
	LInfo  = Level("info")
	LWarn  = Level("warn")
	LError = Level("error")
)

var DefaultLogger *log.Logger
var defaultFilter *logFilter

func init() {
	defaultFilter = &logFilter{
		start:    time.Now(),
		writer:   os.Stderr,
		levels:   []Level{LDebug, LInfo, LWarn, LError},
		minLevel: LInfo,
	}
	defaultFilter.init()
	DefaultLogger = log.New(defaultFilter, "", 0)
}

type logFilter struct {
	start     time.Time
	writer    io.Writer
	badLevels map[Level]struct{}
	minLevel  Level
	levels    []Level
}

func (f *logFilter) SetMinLevel(lvl Level) {
	f.minLevel = lvl
	f.init()
}

func (f *logFilter) init() {
	badLevels := make(map[Level]struct{})
	for _, level := range f.levels {
		if level == f.minLevel {
			break
		}
		badLevels[level] = struct{}{}
	}
	f.badLevels = badLevels
}

func (f *logFilter) check(line []byte) bool {
	var level Level
	x := bytes.IndexByte(line, '[')
	if x >= 0 {
		y := bytes.IndexByte(line[x:], ']')
		if y >= 0 {
			level = Level(line[x+1 : x+y])
		}
	}
	_, ok := f.badLevels[level]
	return !ok
}

func (f *logFilter) Write(p []byte) (n int, err error) {
	if !f.check(p) {
		return 0, nil
	}
	// the log package guarantees a single line per Write
	b := bytes.Buffer{}
	fmt.Fprintf(&b, "[%s] ", time.Now().Format(time.RFC3339))
	b.Write(p)
	return f.writer.Write(b.Bytes())
}

func SetMinLevel(lvl Level) {
	defaultFilter.SetMinLevel(lvl)
}

func Debugf(format string, v ...interface{}) {
	DefaultLogger.Printf("[debug] "+format, v...)
}

func Infof(format string, v ...interface{}) {
	DefaultLogger.Printf("[info] "+format, v...)
}

func Warnf(format string, v ...interface{}) {
	DefaultLogger.Printf("[warn] "+format, v...)
}

func Errorf(format string, v ...interface{}) {
	DefaultLogger.Printf("[error] "+format, v...)
}

func Fatal(v ...interface{}) {
	DefaultLogger.Fatal(v...)
}

// Step logs the start of a named phase and returns a function that logs
// its duration when called.
func Step(name string) func() {
	start := time.Now()
	Infof("Starting: %s", name)
	return func() {
		Infof("Finished: %s in %s", name, time.Since(start))
	}
}
