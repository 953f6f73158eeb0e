package bridge

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfiguration marks bindings that cannot be built from their inputs.
	ErrConfiguration = errors.New("configuration error")
	// ErrNotBound is returned when attaching sources to a detached binding.
	ErrNotBound = errors.New("binding detached")
)

// wrap tags err with marker and a short operation description.
func wrap(marker error, operation, message string, err error) error {
	detail := strings.TrimSpace(operation)
	if message = strings.TrimSpace(message); message != "" {
		if detail != "" {
			detail += ": "
		}
		detail += message
	}
	if detail == "" {
		detail = "bridge failure"
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}
