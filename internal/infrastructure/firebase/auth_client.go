package firebase

import (
	"context"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"parcelmama/pkg/config"
	"parcelmama/pkg/errors"
)

// NewApp builds the Firebase app from either an inline service account or a file path.
func NewApp(ctx context.Context, cfg config.StorageConfig) (*firebase.App, error) {
	var opts []option.ClientOption
	switch {
	case cfg.ServiceAccountJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.ServiceAccountJSON)))
	case cfg.ServiceAccountPath != "":
		if _, err := os.Stat(cfg.ServiceAccountPath); err != nil {
			return nil, err
		}
		opts = append(opts, option.WithCredentialsFile(cfg.ServiceAccountPath))
	}

	return firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirebaseProject}, opts...)
}

type FirebaseAuthClient struct {
	client *auth.Client
}

func NewFirebaseAuthClient(client *auth.Client) *FirebaseAuthClient {
	return &FirebaseAuthClient{
		client: client,
	}
}

// VerifyToken checks a Firebase ID token and returns the email claim.
func (f *FirebaseAuthClient) VerifyToken(ctx context.Context, token string) (string, error) {
	result, err := f.client.VerifyIDToken(ctx, token)
	if err != nil {
		return "", errors.Unauthorized("Invalid or expired token", err)
	}

	email, _ := result.Claims["email"].(string)
	if email == "" {
		return "", errors.Unauthorized("Token carries no email", nil)
	}
	return email, nil
}
