package domain

// Identity is the authenticated caller extracted from a bearer token.
type Identity struct {
	Username string
	// Token is the raw bearer token, forwarded to the course API.
	Token string
}

// TokenVerifier verifies a token and returns the identity it was issued for.
type TokenVerifier interface {
	Verify(token string) (Identity, error)
}
