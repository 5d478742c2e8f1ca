package usecase

import (
	"context"
	"strings"

	"parcelmama/internal/domain/service"
	"parcelmama/pkg/errors"
)

type AuthUseCase struct {
	verifier service.TokenVerifier
	issuer   service.TokenIssuer
}

// NewAuthUseCase takes a nil issuer when tokens are minted elsewhere (Firebase).
func NewAuthUseCase(verifier service.TokenVerifier, issuer service.TokenIssuer) *AuthUseCase {
	return &AuthUseCase{
		verifier: verifier,
		issuer:   issuer,
	}
}

type AuthResult struct {
	Token string `json:"token"`
}

func (uc *AuthUseCase) IssueToken(email string) (*AuthResult, error) {
	if uc.issuer == nil {
		return nil, errors.BadRequest("Tokens are issued by the identity provider", nil)
	}

	token, err := uc.issuer.IssueToken(email)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token}, nil
}

// Authenticate resolves a bearer token to the caller email.
func (uc *AuthUseCase) Authenticate(ctx context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", errors.Unauthorized("unauthorized access", nil)
	}
	return uc.verifier.VerifyToken(ctx, token)
}
