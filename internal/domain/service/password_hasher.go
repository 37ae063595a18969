// Package service defines interfaces for stateless domain logic that does
// not belong to a single entity, such as credential hashing, token issuance
// and identifier generation.
package service

// PasswordHasher abstracts the credential hashing algorithm so the domain
// never sees raw bcrypt details.
type PasswordHasher interface {
	// Hash generates a salted hash from a plaintext password.
	Hash(password string) (string, error)

	// Check reports whether the plaintext password matches the stored hash.
	Check(password, hash string) bool
}
