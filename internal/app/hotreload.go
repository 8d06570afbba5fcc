package app

import (
	"context"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
)

// BinaryWatcher polls the running executable and reports when it has been
// rebuilt. It is a development aid for restarting the desktop host.
type BinaryWatcher struct {
	execPath string
	baseline time.Time
	interval time.Duration
	stat     func(string) (os.FileInfo, error)
	log      zerolog.Logger
}

// NewBinaryWatcher watches the current executable. Symlinks are resolved
// so a rebuilt target is noticed.
func NewBinaryWatcher(interval time.Duration, log zerolog.Logger) (*BinaryWatcher, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, err
	}
	if real, err := filepath.EvalSymlinks(execPath); err == nil {
		execPath = real
	}
	return newBinaryWatcher(execPath, interval, os.Stat, log)
}

func newBinaryWatcher(path string, interval time.Duration, stat func(string) (os.FileInfo, error), log zerolog.Logger) (*BinaryWatcher, error) {
	info, err := stat(path)
	if err != nil {
		return nil, err
	}
	return &BinaryWatcher{
		execPath: path,
		baseline: info.ModTime(),
		interval: interval,
		stat:     stat,
		log:      log.With().Str("component", "hotreload").Logger(),
	}, nil
}

// ExecPath returns the watched file.
func (w *BinaryWatcher) ExecPath() string {
	return w.execPath
}

// Changed reports whether the file is newer than the baseline.
func (w *BinaryWatcher) Changed() bool {
	info, err := w.stat(w.execPath)
	if err != nil {
		return false
	}
	return info.ModTime().After(w.baseline)
}

// ResetBaseline accepts the current file as the new baseline, so a declined
// restart is not offered again for the same build.
func (w *BinaryWatcher) ResetBaseline() {
	if info, err := w.stat(w.execPath); err == nil {
		w.baseline = info.ModTime()
	}
}

// Run polls until ctx is done or a newer binary appears, in which case
// onChange is called once and Run returns.
func (w *BinaryWatcher) Run(ctx context.Context, onChange func()) {
	w.log.Debug().Str("path", w.execPath).Dur("interval", w.interval).Msg("watching binary")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if w.Changed() {
				w.log.Info().Msg("newer binary detected")
				onChange()
				return
			}
		}
	}
}

// Restart replaces the current process with the watched binary, keeping
// arguments and environment. It does not return on success.
func (w *BinaryWatcher) Restart() error {
	return syscall.Exec(w.execPath, os.Args, os.Environ())
}
