package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/labstack/gommon/color"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu   sync.Mutex
	file io.WriteCloser
)

// SetFile mirrors every log line, without colour, to a size-rotated file.
// An empty path turns file output off.
func SetFile(path string) {
	mu.Lock()
	defer mu.Unlock()
	if file != nil {
		file.Close()
		file = nil
	}
	if path == "" {
		return
	}
	file = &lumberjack.Logger{
		Filename:   path,
		MaxSize:    16, // MB
		MaxBackups: 3,
		MaxAge:     14,
	}
}

// Close flushes and closes the log file, if any.
func Close() {
	SetFile("")
}

func write(level, tag, msg string, paint func(interface{}, ...string) string) {
	ts := time.Now().Format("15:04:05")
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(os.Stdout, "%s %s %s %s\n", color.Grey(ts), paint(level), color.Bold("["+tag+"]"), msg)
	if file != nil {
		fmt.Fprintf(file, "%s %s [%s] %s\n", time.Now().Format(time.RFC3339), level, tag, msg)
	}
}

// Info logs a neutral progress message.
func Info(tag, msg string) { write("INFO", tag, msg, color.Cyan) }

// Success logs a completed step.
func Success(tag, msg string) { write(" OK ", tag, msg, color.Green) }

// Warn logs a recoverable problem.
func Warn(tag, msg string) { write("WARN", tag, msg, color.Yellow) }

// Error logs a failure.
func Error(tag, msg string) { write("FAIL", tag, msg, color.Red) }

// Banner prints the startup banner.
func Banner(version string) {
	if version == "" {
		version = "dev"
	}
	line := strings.Repeat("=", 44)
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintln(os.Stdout, color.Blue(line))
	fmt.Fprintf(os.Stdout, "  %s %s\n", color.Bold("airmap"), color.Grey("v"+version))
	fmt.Fprintln(os.Stdout, "  airports and route connectivity")
	fmt.Fprintln(os.Stdout, color.Blue(line))
}

// Section prints a heading for a block of Stats lines.
func Section(title string) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(os.Stdout, "\n%s\n", color.Bold("-- "+title+" --"))
	if file != nil {
		fmt.Fprintf(file, "-- %s --\n", title)
	}
}

// Stats prints an aligned key/value line.
func Stats(key string, value interface{}) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(os.Stdout, "  %-22s %s\n", key, color.Green(fmt.Sprint(value)))
	if file != nil {
		fmt.Fprintf(file, "  %-22s %v\n", key, value)
	}
}

// Server announces the listen address.
func Server(addr string) {
	write("INFO", "Server", "Listening on "+color.Underline("http://"+addr), color.Cyan)
}
