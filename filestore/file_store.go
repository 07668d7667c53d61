package filestore

import "io"

// FileStore is the media hosting boundary. Uploaded blobs are addressed by an
// opaque key, which Media rows persist so the orphan cleanup can delete blobs
// together with rows.
type FileStore interface {
	// Store uploads the blob and returns its key and public url.
	Store(fileName string, body io.Reader) (key string, url string, err error)
	// Delete removes the blobs with the given keys. Missing keys are not an
	// error, the cleanup job may run against already deleted files.
	Delete(keys []string) error
	GetUrlFromKey(key string) string
}
