package storage

import "context"

// ObjectStore persists uploaded media and returns a publicly reachable URL
// for it. The URL is what gets recorded on the podcast row and forwarded
// to the rendering worker.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
