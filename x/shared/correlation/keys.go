package correlation

import (
	"cosmossdk.io/collections"
)

// Prefixes holds the store prefixes of one engine. Every key is namespaced by a
// module-chosen byte so an engine never collides with the owning keeper's state.
type Prefixes struct {
	LastCorrelationID collections.Prefix
	ByCorrelationID   collections.Prefix
	ByTransportKey    collections.Prefix
	Results           collections.Prefix
	ErrorSequence     collections.Prefix
	ErrorHead         collections.Prefix
	Errors            collections.Prefix
}

// NewPrefixes derives the engine prefixes from a namespace byte.
func NewPrefixes(namespace byte) Prefixes {
	return Prefixes{
		LastCorrelationID: collections.NewPrefix([]byte{namespace, 0x01}),
		ByCorrelationID:   collections.NewPrefix([]byte{namespace, 0x02}),
		ByTransportKey:    collections.NewPrefix([]byte{namespace, 0x03}),
		Results:           collections.NewPrefix([]byte{namespace, 0x04}),
		ErrorSequence:     collections.NewPrefix([]byte{namespace, 0x05}),
		ErrorHead:         collections.NewPrefix([]byte{namespace, 0x06}),
		Errors:            collections.NewPrefix([]byte{namespace, 0x07}),
	}
}
