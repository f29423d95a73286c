package record

import "fmt"

// Resolve determines the single backend responsible for the given raw field
// values.
//
// An explicit backend overrides inference. Otherwise every backend-owned
// array input votes with its owner; two distinct owners are a conflict.
// Plain Go scalars and nested slices are backend-agnostic and do not vote.
// When nothing votes, the registered default (the baseline CPU backend)
// wins.
func Resolve(explicit Backend, values []any) (Backend, error) {
	if explicit != nil {
		return explicit, nil
	}

	var resolved Backend
	for _, v := range values {
		arr, ok := v.(Array)
		if !ok {
			continue
		}
		b := arr.Backend()
		if resolved == nil {
			resolved = b
			continue
		}
		if resolved.Name() != b.Name() {
			return nil, &ConflictingBackendsError{Names: []string{resolved.Name(), b.Name()}}
		}
	}
	if resolved != nil {
		return resolved, nil
	}

	if d := DefaultBackend(); d != nil {
		return d, nil
	}
	return nil, fmt.Errorf("no backend: no array inputs, no explicit backend, and no default registered")
}
