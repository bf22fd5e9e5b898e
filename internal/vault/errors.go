// errors.go defines the vault service error taxonomy. Handlers map these
// sentinels to HTTP status codes; the service never returns raw crypto or
// database errors for conditions a client can act on.
package vault

import "errors"

var (
	// ErrNotFound is returned when a file does not exist or is owned by a
	// different user. The two cases are deliberately indistinguishable so a
	// caller cannot probe for the existence of other users' files.
	ErrNotFound = errors.New("file not found")

	// ErrEmptyUpload is returned when an upload carries no content.
	ErrEmptyUpload = errors.New("no file uploaded")

	// ErrEmptyShredRequest is returned when a shred request names no files.
	ErrEmptyShredRequest = errors.New("no file ids provided")

	// ErrCorruptedRecord is returned when a stored record cannot be decrypted:
	// a missing envelope field, an undecodable key or IV, or a padding failure.
	// Corrupted content is never served in any form.
	ErrCorruptedRecord = errors.New("file record corrupted")
)
