// Package logging sets up the process-wide structured logger. Recall
// runs inside shell hooks where stdout belongs to the user, so logs
// always go to a file, and are discarded entirely unless debug mode is
// on.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Logger is the shared logger instance. It is never nil after
// Initialize returns.
var Logger *slog.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))

// maxLogFiles bounds how many per-run log files are kept before the
// oldest are rotated out.
const maxLogFiles = 20

// Initialize configures the logger. Debug mode can be forced through
// the RECALL_DEBUG environment variable so hook subprocesses inherit
// it from the parent shell.
func Initialize(debug bool, logDir string) error {
	if os.Getenv("RECALL_DEBUG") == "1" {
		debug = true
	}
	if !debug {
		Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
		return nil
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("logging: failed to create log directory: %w", err)
	}
	if err := rotateLogs(logDir, maxLogFiles); err != nil {
		// Rotation failure should never block logging.
		fmt.Fprintf(os.Stderr, "warning: log rotation failed: %v\n", err)
	}

	logPath := filepath.Join(logDir, fmt.Sprintf("%s.log", uuid.New().String()))
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("logging: failed to create log file: %w", err)
	}

	Logger = slog.New(slog.NewJSONHandler(logFile, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	Logger.Info("debug logging initialized", "log_file", logPath)
	return nil
}

// rotateLogs removes the oldest .log files so a new one fits under the
// limit.
func rotateLogs(logDir string, limit int) error {
	entries, err := os.ReadDir(logDir)
	if err != nil {
		return fmt.Errorf("logging: failed to read log directory: %w", err)
	}

	type logFile struct {
		path    string
		modTime time.Time
	}
	var files []logFile
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".log" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, logFile{
			path:    filepath.Join(logDir, entry.Name()),
			modTime: info.ModTime(),
		})
	}
	if len(files) < limit {
		return nil
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].modTime.Before(files[j].modTime)
	})
	numToDelete := len(files) - limit + 1
	for i := 0; i < numToDelete && i < len(files); i++ {
		if err := os.Remove(files[i].path); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to delete old log file %s: %v\n", files[i].path, err)
		}
	}
	return nil
}
