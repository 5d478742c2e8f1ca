package service

import "context"

// TokenVerifier resolves a bearer token to the caller's email.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (string, error)
}

// TokenIssuer mints session tokens for an email. Only the JWT provider issues tokens;
// Firebase tokens come from the client SDK.
type TokenIssuer interface {
	IssueToken(email string) (string, error)
}
