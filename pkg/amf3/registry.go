package amf3

import "sync"

// arrayCollectionClassName is the one externalizable class name the decoder
// special-cases instead of consulting the registry (spec §4.5 "Object",
// externalizable branch): Flex's ArrayCollection externalizable wrapper
// just wraps a nested value and is transparently unwrapped.
const arrayCollectionClassName = "flex.messaging.io.ArrayCollection"

// externalizables is the process-wide externalizable reader registry.
// Registration is expected to happen before decoding begins; concurrent
// Register calls are race-free, but there is no guarantee that a reader
// registered mid-decode will be visible to a Decode call already in
// flight on another goroutine (spec §5).
var externalizables = struct {
	mu      sync.RWMutex
	readers map[string]ExternalReader
}{readers: make(map[string]ExternalReader)}

// Register installs reader as the externalizable decoder for className,
// process-wide. Registering the same name again replaces the prior reader;
// this is what spec §4.5 means by "idempotent per name" — calling it twice
// with equivalent readers has no observable effect.
func Register(className string, reader ExternalReader) {
	externalizables.mu.Lock()
	defer externalizables.mu.Unlock()
	externalizables.readers[className] = reader
}

func lookupExternal(className string) (ExternalReader, bool) {
	externalizables.mu.RLock()
	defer externalizables.mu.RUnlock()
	r, ok := externalizables.readers[className]
	return r, ok
}
