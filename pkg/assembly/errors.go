package assembly

import "errors"

var (
	// ErrAssemblyFailed blocks the send; it is surfaced to the user exactly
	// once per send attempt and the message text is preserved for retry.
	ErrAssemblyFailed = errors.New("context assembly failed")

	// ErrStaleSuperseded marks a result that arrived after a newer request
	// was issued. It is discarded silently, never shown to the user.
	ErrStaleSuperseded = errors.New("assembly superseded by a newer request")
)
