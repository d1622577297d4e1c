package ports

import "io"

// FileStore persists uploaded image files. Save streams the content to
// storage and returns the public path recorded on the post. Delete is
// best-effort: a false return is logged by the caller, never propagated.
type FileStore interface {
	Save(filename string, r io.Reader) (string, error)
	Delete(path string) bool
}
