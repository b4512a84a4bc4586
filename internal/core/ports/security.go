package ports

// PasswordHasher is a one-way verifiable hash.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(plain, hash string) bool
}

// Claims is the payload embedded in a bearer token.
type Claims struct {
	Subject   string
	Name      string
	Email     string
	Role      string
	Status    string
	CreatedBy string
}

// TokenIssuer signs and verifies time-bounded bearer tokens.
type TokenIssuer interface {
	Issue(claims Claims) (string, error)
	// Verify returns domain.ErrUnauthorized for any invalid or expired token.
	Verify(token string) (*Claims, error)
}
