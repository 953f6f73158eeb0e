package daemonrun

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/gofrs/flock"

	"logbridge/internal/config"
	"logbridge/internal/logging"
)

// ErrAlreadyRunning is returned when another bridge holds the state lock.
var ErrAlreadyRunning = errors.New("another logbridge instance is already running")

// Run starts the bridge and blocks until the context ends or a termination
// signal arrives. When input is non-nil, JSON-lines entries read from it are
// published through the runtime's event source.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options, input io.Reader) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("ensure directories: %w", err)
	}

	lock := flock.New(cfg.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return ErrAlreadyRunning
	}
	defer func() { _ = lock.Unlock() }()

	pidPath := filepath.Join(cfg.Paths.StateDir, "logbridge.pid")
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rt, err := Build(signalCtx, cfg, opts)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := rt.Close(); closeErr != nil {
			rt.Logger.Warn("runtime close failed", logging.Error(closeErr))
		}
	}()
	if err := rt.Start(); err != nil {
		return err
	}

	if input != nil {
		go func() {
			count, err := rt.Publish(input)
			if err != nil {
				rt.Logger.Warn("input decoding stopped",
					logging.String(logging.FieldEventType, "input_failed"),
					logging.Int("entries", count),
					logging.Error(err),
				)
				return
			}
			rt.Logger.Info("input drained",
				logging.String(logging.FieldEventType, "input_drained"),
				logging.Int("entries", count),
			)
		}()
	}

	if opts.Echo != nil {
		go func() {
			if err := rt.Echo(signalCtx, opts.Echo); err != nil {
				rt.Logger.Warn("event echo stopped",
					logging.String(logging.FieldEventType, "echo_failed"),
					logging.Error(err),
				)
			}
		}()
	}

	if opts.FollowPath != "" {
		go func() {
			rt.Logger.Info("following entry file",
				logging.String(logging.FieldEventType, "follow_started"),
				logging.String("path", opts.FollowPath),
			)
			if err := rt.Follow(signalCtx, opts.FollowPath, false); err != nil {
				rt.Logger.Warn("follow stopped",
					logging.String(logging.FieldEventType, "follow_failed"),
					logging.String("path", opts.FollowPath),
					logging.Error(err),
				)
			}
		}()
	}

	<-signalCtx.Done()
	rt.Logger.Info("logbridge shutting down")
	return nil
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}
