// Package storage publishes rendered output files to their final
// destination.
package storage

import "context"

// Publisher copies a rendered file to a destination and returns a
// location string for it (a filesystem path or an object URL).
type Publisher interface {
	Publish(ctx context.Context, localPath, key string) (string, error)
}
