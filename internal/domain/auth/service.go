package auth

import (
	"context"
)

type AuthService interface {
	Register(ctx context.Context, req RegisterRequest, tracking SessionTrackingRequest) (RegisterResponse, error)
	Login(ctx context.Context, req LoginRequest, tracking SessionTrackingRequest) (TokenResponse, error)
	LoginWithGoogle(ctx context.Context, signIn GoogleSignIn, tracking SessionTrackingRequest) (TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (AccessTokenResponse, error)
	Me(ctx context.Context, session Session) (MeResponse, error)
}
