package discovery

import "errors"

var (
	// ErrEmptyKind is returned when registering or watching without a kind.
	ErrEmptyKind = errors.New("discovery: empty service kind")
	// ErrClosed is returned once the registry has been closed.
	ErrClosed = errors.New("discovery: registry closed")
)
