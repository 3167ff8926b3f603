package docenv

import "errors"

var (
	// ErrDocumentNotFound is the cause of lookups for names the environment does not know.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrSourceDirMissing indicates the configured source directory does not exist.
	ErrSourceDirMissing = errors.New("source directory does not exist")
)
