// api_key.go defines the APIKey model. Only a bcrypt hash of the key is
// stored; KeyPrefix holds the first characters of the plaintext so lookups
// can narrow candidates before the bcrypt comparison.
package models

import "time"

type APIKey struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	Name       string     `json:"name"`
	KeyHash    string     `json:"-"`
	KeyPrefix  string     `json:"key_prefix"`
	Revoked    bool       `json:"revoked"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}
