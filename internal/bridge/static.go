package bridge

import (
	"log/slog"

	"logbridge/internal/discovery"
	"logbridge/internal/logging"
)

// Lookup is the registry surface static binding consumes.
type Lookup interface {
	Lookup(kind string) (discovery.Instance, bool)
}

// BindStatic performs a single lookup of an admin service and an event source
// and binds them. When either is missing it does nothing and returns a nil
// binding without error.
func BindStatic(registry Lookup, backend *logging.Context, scope string, logger *slog.Logger, opts ...Option) (*Binding, error) {
	log := logging.NewComponentLogger(logger, "bridge")
	adminInst, ok := registry.Lookup(AdminKind)
	if !ok {
		log.Info("no admin service present; static binding skipped",
			logging.String(logging.FieldEventType, "static_bind_skipped"),
		)
		return nil, nil
	}
	sourceInst, ok := registry.Lookup(SourceKind)
	if !ok {
		log.Info("no event source present; static binding skipped",
			logging.String(logging.FieldEventType, "static_bind_skipped"),
		)
		return nil, nil
	}
	adm, ok := resolveAdmin(adminInst.Service, scope)
	if !ok {
		return nil, wrap(ErrConfiguration, "bind static", "admin service has unsupported type", nil)
	}
	src, ok := sourceInst.Service.(Source)
	if !ok {
		return nil, wrap(ErrConfiguration, "bind static", "event source has unsupported type", nil)
	}

	opts = append([]Option{WithLogger(logger)}, opts...)
	binding, err := NewBinding(adm, backend, opts...)
	if err != nil {
		return nil, err
	}
	binding.Initialize()
	if err := binding.Attach(src); err != nil {
		binding.Detach()
		return nil, err
	}
	return binding, nil
}
