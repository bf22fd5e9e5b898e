// Package models defines the database model types for the vault.
// Each type corresponds to a database table. Models are pure data types —
// business logic belongs in the vault service, query logic in the
// repositories layer.
package models

import "time"

// File represents an encrypted file record. The plaintext content never
// touches the database: Ciphertext is the AES-256-CBC output of the uploaded
// bytes under the per-file Key/IV pair stored alongside it.
type File struct {
	ID       string `db:"id"`
	OwnerID  string `db:"owner_id"`
	Filename string `db:"filename"`
	// Ciphertext is the encrypted content; its length is always a multiple
	// of the AES block size (16 bytes) due to padding.
	Ciphertext []byte `db:"ciphertext"`
	// Key is the base64-encoded 32-byte envelope key for the current
	// ciphertext. Exactly one key/iv pair is valid at any time; both are
	// replaced together with the ciphertext on re-encryption.
	Key string `db:"enc_key"`
	// IV is the base64-encoded 16-byte initialization vector.
	IV string `db:"enc_iv"`
	// MetadataClean is false until a metadata-clean pass has re-encrypted
	// the content under a fresh key.
	MetadataClean bool      `db:"metadata_clean"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// EnvelopeIntact reports whether the record carries a complete envelope:
// non-empty ciphertext together with its key and IV. A record failing this
// check is corrupted and must never be served; all-empty is equally
// inconsistent since a created record always stores all three fields.
func (f *File) EnvelopeIntact() bool {
	return len(f.Ciphertext) > 0 && f.Key != "" && f.IV != ""
}

// FileInfo is the metadata-only projection of a File returned by listings.
// Ciphertext, key, and IV are deliberately absent from the type so they can
// never leak through a listing response.
type FileInfo struct {
	ID            string    `db:"id" json:"id"`
	OwnerID       string    `db:"owner_id" json:"owner_id"`
	Filename      string    `db:"filename" json:"filename"`
	Size          int64     `db:"size" json:"size"`
	MetadataClean bool      `db:"metadata_clean" json:"metadata_clean"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}
