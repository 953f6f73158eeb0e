package logging

import (
	"fmt"
	"log/slog"
	"sort"

	"logbridge/internal/config"
)

// Configure applies backend settings to ctx: tuning options, the root level,
// per-logger levels, and one appender per configured output. Console and JSON
// outputs are combined into a single handler appender on the root logger.
// Stream outputs publish to hub and are skipped when hub is nil.
//
// Configure does not start the context. It may be called again after Reset
// because Reset detaches every appender.
func Configure(ctx *Context, cfg config.Backend, hub *StreamHub) error {
	if ctx == nil {
		return fmt.Errorf("configure backend: nil context")
	}
	if cfg.MaxCallerDepth > 0 {
		ctx.SetMaxCallerDepth(cfg.MaxCallerDepth)
	}
	ctx.SetFrameworkPackages(cfg.FrameworkPackages)
	ctx.SetPackagingData(cfg.PackagingData)

	if cfg.RootLevel != "" {
		level, ok := ParseLevel(cfg.RootLevel)
		if !ok {
			return fmt.Errorf("backend.root_level: unsupported value %q", cfg.RootLevel)
		}
		ctx.Root().SetLevel(level)
	}

	names := make([]string, 0, len(cfg.Levels))
	for name := range cfg.Levels {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		level, ok := ParseLevel(cfg.Levels[name])
		if !ok {
			return fmt.Errorf("backend.levels.%q: unsupported level %q", name, cfg.Levels[name])
		}
		ctx.Logger(name).SetLevel(level)
	}

	var handlers []slog.Handler
	for i, app := range cfg.Appenders {
		threshold := LevelAll
		if app.Threshold != "" {
			level, ok := ParseLevel(app.Threshold)
			if !ok {
				return fmt.Errorf("backend.appenders[%d].threshold: unsupported value %q", i, app.Threshold)
			}
			threshold = level
		}
		switch app.Kind {
		case "stream":
			if hub == nil {
				continue
			}
			stream := NewStreamAppender(hub, cfg.CallerData)
			if threshold == LevelAll {
				ctx.Root().AddAppender(stream)
				continue
			}
			ctx.Root().AddAppender(AppenderFunc(func(rec *Record) error {
				if rec.Level < threshold {
					return nil
				}
				return stream.Append(rec)
			}))
		case "console", "json", "":
			path := app.Path
			if path == "" {
				path = "stdout"
			}
			handler, err := NewHandler(Options{
				Level:            LevelAll.String(),
				Format:           app.Kind,
				OutputPaths:      []string{path},
				ErrorOutputPaths: []string{path},
			})
			if err != nil {
				return fmt.Errorf("backend.appenders[%d]: %w", i, err)
			}
			if threshold != LevelAll {
				handler = newLevelOverrideHandler(handler, threshold.SlogLevel())
			}
			handlers = append(handlers, handler)
		default:
			return fmt.Errorf("backend.appenders[%d].kind: unsupported value %q", i, app.Kind)
		}
	}
	if len(handlers) > 0 {
		ctx.Root().AddAppender(NewHandlerAppender(TeeHandler(handlers...), WithCallerData(cfg.CallerData)))
	}
	return nil
}
