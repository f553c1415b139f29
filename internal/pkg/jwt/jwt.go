package jwt

import (
	"net/http"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
	TokenTypeSSE     = "sse"

	refreshCookieName = "refresh_token"
	refreshCookiePath = "/api/v1/auth"
)

// Service issues and verifies the HS256 tokens used by the API.
// Access tokens carry identity and profile ids only; roles are resolved per request.
type Service interface {
	GenerateAccessToken(identityID string, profileID string, email string) (token string, expiresAt int64, err error)
	GenerateRefreshToken(identityID string) (token string, expiresAt int64, err error)
	ValidateRefreshToken(tokenString string) (identityID string, err error)
	GenerateSSEToken(profileID string) (token string, expiresIn int, err error)
	ValidateSSEToken(tokenString string) (profileID string, err error)
	JWTAuth() *jwtauth.JWTAuth
	AccessTokenTTL() time.Duration
	RefreshTokenCookie(token string, expiresAt int64) *http.Cookie
	ClearRefreshTokenCookie() *http.Cookie
}

type JWTService struct {
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
	secureCookies   bool
	tokenAuth       *jwtauth.JWTAuth
	now             func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) AccessTokenTTL() time.Duration {
	return j.accessTokenTTL
}

func NewJWTService(secretKey string, accessTokenTTL time.Duration, refreshTokenTTL time.Duration, secureCookies bool) *JWTService {
	return &JWTService{
		accessTokenTTL:  accessTokenTTL,
		refreshTokenTTL: refreshTokenTTL,
		secureCookies:   secureCookies,
		tokenAuth:       jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:             time.Now,
	}
}

func (j *JWTService) GenerateAccessToken(identityID string, profileID string, email string) (token string, expiresAt int64, err error) {
	now := j.now()
	expiresAt = now.Add(j.accessTokenTTL).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"identity_id": identityID,
		"profile_id":  profileID,
		"email":       email,
		"type":        TokenTypeAccess,
		"iat":         now.Unix(),
		"exp":         expiresAt,
	})
	return tokenString, expiresAt, err
}

func (j *JWTService) GenerateRefreshToken(identityID string) (token string, expiresAt int64, err error) {
	now := j.now()
	expiresAt = now.Add(j.refreshTokenTTL).Unix()
	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"identity_id": identityID,
		"type":        TokenTypeRefresh,
		// jti keeps two refresh tokens issued in the same second distinct
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": expiresAt,
	})
	return tokenString, expiresAt, err
}

// ValidateRefreshToken verifies signature, expiry and type and returns the identity id.
func (j *JWTService) ValidateRefreshToken(tokenString string) (identityID string, err error) {
	return j.validate(tokenString, TokenTypeRefresh, "identity_id")
}

func (j *JWTService) RefreshTokenCookie(token string, expiresAt int64) *http.Cookie {
	return &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     refreshCookiePath,
		Expires:  time.Unix(expiresAt, 0),
		HttpOnly: true,
		Secure:   j.secureCookies,
		SameSite: http.SameSiteStrictMode,
	}
}

func (j *JWTService) ClearRefreshTokenCookie() *http.Cookie {
	return &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     refreshCookiePath,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   j.secureCookies,
		SameSite: http.SameSiteStrictMode,
	}
}

// GenerateSSEToken generates a short-lived token for SSE connections
func (j *JWTService) GenerateSSEToken(profileID string) (token string, expiresIn int, err error) {
	// SSE tokens are short-lived (5 minutes)
	expiresIn = 300
	expiresAt := j.now().Add(5 * time.Minute).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"profile_id": profileID,
		"type":       TokenTypeSSE,
		"exp":        expiresAt,
	})
	if err != nil {
		return "", 0, err
	}

	return tokenString, expiresIn, nil
}

// ValidateSSEToken validates an SSE token and returns the profile ID
func (j *JWTService) ValidateSSEToken(tokenString string) (profileID string, err error) {
	return j.validate(tokenString, TokenTypeSSE, "profile_id")
}

func (j *JWTService) validate(tokenString string, wantType string, claim string) (string, error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return "", err
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != wantType {
		return "", jwt.ErrInvalidJWT()
	}

	val, ok := token.Get(claim)
	if !ok {
		return "", jwt.ErrInvalidJWT()
	}

	s, ok := val.(string)
	if !ok || s == "" {
		return "", jwt.ErrInvalidJWT()
	}

	return s, nil
}
