//go:build !cgo

package hooks

// Available reports false: the OS hook needs cgo.
func Available() (bool, string) {
	return false, "built without cgo (rebuild with CGO_ENABLED=1)"
}

func platformBackend() (<-chan Event, func(), error) {
	return nil, nil, ErrUnavailable
}
