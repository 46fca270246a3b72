// Package logutil provides logging utilities.
//
// Loggers are obtained with GetLogger and write to a process-wide output,
// which discards everything until SetOutput or SetOutputFile is called.
package logutil

import (
	"io"
	"log"
	"os"
	"sync"
)

var (
	mu      sync.Mutex
	out     io.Writer = io.Discard
	loggers []*log.Logger
)

// GetLogger gets a logger with a prefix.
func GetLogger(prefix string) *log.Logger {
	mu.Lock()
	defer mu.Unlock()
	logger := log.New(out, prefix, 0)
	loggers = append(loggers, logger)
	return logger
}

// SetOutput redirects the output of all loggers obtained with GetLogger to the
// new io.Writer.
func SetOutput(newOut io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = newOut
	for _, logger := range loggers {
		logger.SetOutput(out)
	}
}

// SetOutputFile redirects the output of all loggers obtained with GetLogger
// to the named file. If the old output was a file opened by SetOutputFile, it
// is closed. An empty name discards the output.
func SetOutputFile(fname string) error {
	if fname == "" {
		closeOldFile()
		SetOutput(io.Discard)
		return nil
	}
	file, err := os.OpenFile(fname, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	closeOldFile()
	SetOutput(file)
	return nil
}

func closeOldFile() {
	mu.Lock()
	defer mu.Unlock()
	if f, ok := out.(*os.File); ok && f != os.Stderr && f != os.Stdout {
		f.Close()
		out = io.Discard
	}
}
