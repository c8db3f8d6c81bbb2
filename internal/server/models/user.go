package models

import "time"

// User is a registered account. PasswordDigest is the argon2id digest of the
// password under Salt.
type User struct {
	ID             string
	Email          string
	Salt           []byte
	PasswordDigest []byte
	CreatedAt      time.Time
}
