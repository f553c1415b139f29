package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/workmatrix/workmatrix-backend-go/internal/domain/adminrequest"
	"github.com/workmatrix/workmatrix-backend-go/internal/domain/auth"
	"github.com/workmatrix/workmatrix-backend-go/internal/domain/user"
	"github.com/workmatrix/workmatrix-backend-go/internal/pkg/database"
	"github.com/workmatrix/workmatrix-backend-go/internal/pkg/jwt"
	"github.com/workmatrix/workmatrix-backend-go/internal/pkg/ratelimit"
	"golang.org/x/crypto/bcrypt"
)

const providerGoogle = "google"

type AuthServiceImpl struct {
	db           database.Transactor
	identityRepo auth.IdentityRepository
	profileRepo  user.ProfileRepository
	tokenRepo    auth.TokenRepository
	jwt.Service
	requests      adminrequest.RequestService
	signupLimiter *ratelimit.Limiter
	bcryptCost    int
	now           func() time.Time
}

type Option func(*AuthServiceImpl)

func WithClock(now func() time.Time) Option {
	return func(a *AuthServiceImpl) {
		a.now = now
	}
}

// WithBcryptCost overrides bcrypt.DefaultCost.
func WithBcryptCost(cost int) Option {
	return func(a *AuthServiceImpl) {
		a.bcryptCost = cost
	}
}

func NewAuthService(
	db database.Transactor,
	identityRepo auth.IdentityRepository,
	profileRepo user.ProfileRepository,
	tokenRepo auth.TokenRepository,
	jwtService jwt.Service,
	requests adminrequest.RequestService,
	signupLimiter *ratelimit.Limiter,
	opts ...Option,
) auth.AuthService {
	a := &AuthServiceImpl{
		db:            db,
		identityRepo:  identityRepo,
		profileRepo:   profileRepo,
		tokenRepo:     tokenRepo,
		Service:       jwtService,
		requests:      requests,
		signupLimiter: signupLimiter,
		bcryptCost:    bcrypt.DefaultCost,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (a *AuthServiceImpl) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// issueTokens creates an access/refresh pair and stores the refresh token.
func (a *AuthServiceImpl) issueTokens(ctx context.Context, identity auth.Identity, profile user.Profile, tracking auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	var tokenResponse auth.TokenResponse
	var err error

	tokenResponse.AccessToken, tokenResponse.AccessTokenExpiresIn, err = a.Service.GenerateAccessToken(identity.ID, profile.ID, profile.Email)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}
	tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn, err = a.Service.GenerateRefreshToken(identity.ID)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create refresh token: %w", err)
	}

	err = a.tokenRepo.CreateRefreshToken(ctx, identity.ID, tokenResponse.RefreshToken, time.Unix(tokenResponse.RefreshTokenExpiresIn, 0), tracking)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to save refresh token to database: %w", err)
	}
	return tokenResponse, nil
}

// Register implements auth.AuthService.
func (a *AuthServiceImpl) Register(ctx context.Context, registerReq auth.RegisterRequest, sessionTrackReq auth.SessionTrackingRequest) (auth.RegisterResponse, error) {
	if a.signupLimiter != nil {
		if wait, ok := a.signupLimiter.Reserve(sessionTrackReq.IPAddress); !ok {
			return auth.RegisterResponse{}, &auth.RateLimitError{RetryAfter: wait}
		}
	}

	email := normalizeEmail(registerReq.Email)

	// Check email before any identity is created
	exists, err := a.profileRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return auth.RegisterResponse{}, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return auth.RegisterResponse{}, auth.ErrEmailAlreadyExists
	}
	if _, err := a.identityRepo.GetByEmail(ctx, email); err == nil {
		return auth.RegisterResponse{}, auth.ErrEmailAlreadyExists
	} else if !errors.Is(err, auth.ErrIdentityNotFound) {
		return auth.RegisterResponse{}, fmt.Errorf("failed to check identity: %w", err)
	}

	hashedPassword, err := a.hashPassword(registerReq.Password)
	if err != nil {
		return auth.RegisterResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	var profile user.Profile
	var tokens auth.TokenResponse
	err = a.db.WithinTransaction(ctx, func(ctx context.Context) error {
		var identity auth.Identity
		identity, profile, err = a.createAccount(ctx, auth.Identity{
			Email:        email,
			PasswordHash: &hashedPassword,
		}, strings.TrimSpace(registerReq.FullName))
		if err != nil {
			return err
		}

		if registerReq.WantsAdmin() {
			if _, err := a.requests.Submit(ctx, profile.ID, nil); err != nil {
				return fmt.Errorf("failed to submit admin access request: %w", err)
			}
		}

		tokens, err = a.issueTokens(ctx, identity, profile, sessionTrackReq)
		return err
	})
	if err != nil {
		return auth.RegisterResponse{}, err
	}

	resp := auth.RegisterResponse{
		TokenResponse: tokens,
		ProfileID:     profile.ID,
		Role:          string(profile.Role),
		RequestedRole: registerReq.Role,
	}
	if registerReq.WantsAdmin() {
		next := auth.NextPendingApproval
		resp.Next = &next
	}
	return resp, nil
}

// createAccount inserts an identity and its employee profile. Callers run it in a transaction.
func (a *AuthServiceImpl) createAccount(ctx context.Context, identity auth.Identity, fullName string) (auth.Identity, user.Profile, error) {
	identityID, err := uuid.NewV7()
	if err != nil {
		return auth.Identity{}, user.Profile{}, err
	}
	identity.ID = identityID.String()

	created, err := a.identityRepo.Create(ctx, identity)
	if err != nil {
		return auth.Identity{}, user.Profile{}, err
	}

	profileID, err := uuid.NewV7()
	if err != nil {
		return auth.Identity{}, user.Profile{}, err
	}
	if fullName == "" {
		fullName, _, _ = strings.Cut(created.Email, "@")
	}

	profile, err := a.profileRepo.Create(ctx, user.Profile{
		ID:             profileID.String(),
		AuthIdentityID: created.ID,
		Email:          created.Email,
		FullName:       fullName,
		Role:           user.RoleEmployee,
		IsActive:       true,
	})
	if errors.Is(err, user.ErrProfileEmailExists) {
		return auth.Identity{}, user.Profile{}, auth.ErrEmailAlreadyExists
	}
	if err != nil {
		return auth.Identity{}, user.Profile{}, err
	}
	return created, profile, nil
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, loginReq auth.LoginRequest, sessionTrackReq auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	identity, err := a.identityRepo.GetByEmail(ctx, normalizeEmail(loginReq.Email))
	if err != nil {
		if errors.Is(err, auth.ErrIdentityNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get identity by email: %w", err)
	}

	// Google-only identities have no password
	if identity.PasswordHash == nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*identity.PasswordHash), []byte(loginReq.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	profile, err := a.profileRepo.GetByIdentityID(ctx, identity.ID)
	if err != nil {
		if errors.Is(err, user.ErrProfileNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get profile: %w", err)
	}

	return a.signIn(ctx, identity, profile, sessionTrackReq)
}

// signIn refuses disabled profiles, stamps lastLogin and issues tokens in one transaction.
func (a *AuthServiceImpl) signIn(ctx context.Context, identity auth.Identity, profile user.Profile, tracking auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	if !profile.IsActive {
		return auth.TokenResponse{}, auth.ErrAccountDisabled
	}

	var tokenResponse auth.TokenResponse
	err := a.db.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := a.profileRepo.TouchLastLogin(ctx, profile.ID, a.now()); err != nil {
			return fmt.Errorf("failed to update last login: %w", err)
		}

		var err error
		tokenResponse, err = a.issueTokens(ctx, identity, profile, tracking)
		return err
	})
	if err != nil {
		return auth.TokenResponse{}, err
	}

	return tokenResponse, nil
}

// LoginWithGoogle implements auth.AuthService.
func (a *AuthServiceImpl) LoginWithGoogle(ctx context.Context, signIn auth.GoogleSignIn, sessionTrackReq auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	email := normalizeEmail(signIn.Email)
	if email == "" {
		return auth.TokenResponse{}, auth.ErrOAuthEmailMissing
	}

	var identity auth.Identity
	var profile user.Profile
	err := a.db.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		identity, err = a.identityRepo.GetByOAuth(ctx, providerGoogle, signIn.GoogleID)
		if errors.Is(err, auth.ErrIdentityNotFound) {
			identity, err = a.identityRepo.GetByEmail(ctx, email)
			if err == nil {
				// Existing password account, link the Google account to it
				if err := a.identityRepo.LinkOAuth(ctx, identity.ID, providerGoogle, signIn.GoogleID); err != nil {
					return fmt.Errorf("failed to link google account: %w", err)
				}
			}
		}
		if errors.Is(err, auth.ErrIdentityNotFound) {
			provider := providerGoogle
			googleID := signIn.GoogleID
			identity, profile, err = a.createAccount(ctx, auth.Identity{
				Email:           email,
				OAuthProvider:   &provider,
				OAuthProviderID: &googleID,
			}, strings.TrimSpace(signIn.FullName))
			if err != nil {
				return err
			}
			if signIn.Intent == auth.IntentAdmin {
				if _, err := a.requests.Submit(ctx, profile.ID, nil); err != nil {
					return fmt.Errorf("failed to submit admin access request: %w", err)
				}
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get identity: %w", err)
		}

		profile, err = a.profileRepo.GetByIdentityID(ctx, identity.ID)
		if err != nil {
			return fmt.Errorf("failed to get profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return auth.TokenResponse{}, err
	}

	return a.signIn(ctx, identity, profile, sessionTrackReq)
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	_, isRevoked, err := a.tokenRepo.IsRefreshTokenRevoked(ctx, refreshToken)
	if err != nil {
		return fmt.Errorf("failed to check if refresh token is revoked: %w", err)
	}
	if isRevoked {
		return nil
	}
	if err := a.tokenRepo.RevokeRefreshToken(ctx, refreshToken); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

// RefreshToken implements auth.AuthService.
func (a *AuthServiceImpl) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	var accessTokenResponse auth.AccessTokenResponse

	// 1. Verify signature, expiry and token type
	identityID, err := a.Service.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	// 2. Check DB for revocation/expiry
	storedIdentityID, isRevoked, err := a.tokenRepo.IsRefreshTokenRevoked(ctx, req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to check refresh token: %w", err)
	}
	if isRevoked {
		return auth.AccessTokenResponse{}, auth.ErrRefreshTokenRevoked
	}
	if storedIdentityID != identityID {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	// 3. Load the profile behind the identity
	profile, err := a.profileRepo.GetByIdentityID(ctx, identityID)
	if err != nil {
		if errors.Is(err, user.ErrProfileNotFound) {
			return auth.AccessTokenResponse{}, auth.ErrInvalidToken
		}
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to get profile: %w", err)
	}
	if !profile.IsActive {
		return auth.AccessTokenResponse{}, auth.ErrAccountDisabled
	}

	// 4. Generate new access token
	accessTokenResponse.AccessToken, accessTokenResponse.AccessTokenExpiresIn, err =
		a.Service.GenerateAccessToken(identityID, profile.ID, profile.Email)
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	return accessTokenResponse, nil
}

// Me implements auth.AuthService.
func (a *AuthServiceImpl) Me(ctx context.Context, session auth.Session) (auth.MeResponse, error) {
	profile, err := a.profileRepo.GetByID(ctx, session.ProfileID)
	if err != nil {
		return auth.MeResponse{}, err
	}

	view, err := a.requests.Query(ctx, profile.ID)
	if err != nil {
		return auth.MeResponse{}, fmt.Errorf("failed to query admin request: %w", err)
	}

	me := auth.MeResponse{
		IdentityID:    session.IdentityID,
		ProfileID:     profile.ID,
		Email:         profile.Email,
		FullName:      profile.FullName,
		Role:          string(profile.Role),
		IsActive:      profile.IsActive,
		RequestStatus: string(view.Status),
	}
	if profile.LastLogin != nil {
		lastLogin := profile.LastLogin.Format(time.RFC3339)
		me.LastLogin = &lastLogin
	}
	return me, nil
}
