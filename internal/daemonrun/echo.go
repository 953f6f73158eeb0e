package daemonrun

import (
	"context"
	"io"

	"github.com/goccy/go-json"
)

// Echo writes every stream event to w as a JSON line, starting with the ones
// still buffered in the hub, until ctx ends.
func (rt *Runtime) Echo(ctx context.Context, w io.Writer) error {
	enc := json.NewEncoder(w)
	var since uint64
	for {
		events, _, err := rt.Hub.Fetch(ctx, since, 0, true)
		for _, evt := range events {
			if encErr := enc.Encode(evt); encErr != nil {
				return encErr
			}
			since = evt.Sequence
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
}
