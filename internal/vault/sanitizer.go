// sanitizer.go defines the metadata sanitizer seam used by the clean
// operation. Stripping embedded metadata (EXIF blocks, document author
// fields) is format-specific work that lives behind this interface; the
// service only orchestrates decrypt, sanitize, re-encrypt.
package vault

import "context"

// Sanitizer removes embedded metadata from decrypted file content.
// Implementations must return content that is safe to re-encrypt even when no
// metadata was found; returning the input unchanged is valid.
type Sanitizer interface {
	Sanitize(ctx context.Context, filename string, content []byte) ([]byte, error)
}

// NoopSanitizer returns content unchanged. Even with no format-specific
// stripping, a clean pass through the service still rotates the file's
// envelope key and marks the record metadata-clean.
type NoopSanitizer struct{}

func (NoopSanitizer) Sanitize(_ context.Context, _ string, content []byte) ([]byte, error) {
	return content, nil
}
