package auth

import "context"

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	Profile(ctx context.Context, userID string) (ProfileResponse, error)
}
