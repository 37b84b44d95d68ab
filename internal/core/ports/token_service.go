package ports

// TokenService issues and checks signed identity tokens.
type TokenService interface {
	Issue(subject string) (string, error)
	// Validate reports whether token is correctly signed, unexpired and
	// issued for expectedSubject.
	Validate(token, expectedSubject string) bool
	// ExtractSubject reads the subject without verifying the token.
	ExtractSubject(token string) (string, error)
	// Parse verifies signature and expiry and returns the subject.
	Parse(token string) (string, error)
}

// PasswordHasher is a one-way salted password hash.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(hash, plain string) bool
}
