// Package storage abstracts where uploaded files live. Product images go
// through it so deployments can switch between the local filesystem and any
// S3-compatible object store without touching the catalog code.
//
//	storage.Connect()
//	storage.PutStream("products/ring-01.jpg", file)
//	url := storage.URL("products/ring-01.jpg")
package storage

import "io"

// Disk is the filesystem driver interface.
type Disk interface {
	// Put writes content to path, creating parent directories as needed.
	Put(path string, content []byte) error

	// PutStream writes from r to path.
	PutStream(path string, r io.Reader) error

	// Get returns the full content of the file at path.
	Get(path string) ([]byte, error)

	// Exists reports whether a file exists at path.
	Exists(path string) bool

	// Delete removes a file. Returns nil if the file did not exist.
	Delete(path string) error

	// URL returns the public URL for path.
	URL(path string) string
}
