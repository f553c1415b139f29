package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/workmatrix/workmatrix-backend-go/internal/domain/access"
	"github.com/workmatrix/workmatrix-backend-go/internal/domain/adminrequest"
	"github.com/workmatrix/workmatrix-backend-go/internal/domain/auth"
	"github.com/workmatrix/workmatrix-backend-go/internal/domain/user"
	"github.com/workmatrix/workmatrix-backend-go/internal/pkg/jwt"
	"github.com/workmatrix/workmatrix-backend-go/internal/pkg/ratelimit"
	"github.com/workmatrix/workmatrix-backend-go/internal/repository/memory"
	accessService "github.com/workmatrix/workmatrix-backend-go/internal/service/access"
	adminRequestService "github.com/workmatrix/workmatrix-backend-go/internal/service/adminrequest"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret-key-for-jwt"

var testSession = auth.SessionTrackingRequest{IPAddress: "127.0.0.1", UserAgent: "Mozilla/5.0"}

type authFixture struct {
	store      *memory.Store
	identities auth.IdentityRepository
	profiles   user.ProfileRepository
	requests   adminrequest.RequestService
	jwtService jwt.Service
	now        time.Time
	svc        auth.AuthService
}

func newAuthFixture(t *testing.T, interval time.Duration, burst int) *authFixture {
	t.Helper()
	f := &authFixture{now: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
	clock := func() time.Time { return f.now }

	f.store = memory.NewStore()
	f.identities = memory.NewIdentityRepository(f.store)
	f.profiles = memory.NewProfileRepository(f.store)
	f.requests = adminRequestService.NewRequestService(f.store, memory.NewAdminRequestRepository(f.store), f.profiles)
	f.jwtService = jwt.NewJWTService(testSecret, time.Hour, 24*time.Hour, false)

	f.svc = NewAuthService(
		f.store,
		f.identities,
		f.profiles,
		memory.NewTokenRepository(f.store),
		f.jwtService,
		f.requests,
		ratelimit.NewLimiter(interval, burst, clock),
		WithClock(clock),
		WithBcryptCost(bcrypt.MinCost),
	)
	return f
}

func registerRequest(email string, role string) auth.RegisterRequest {
	return auth.RegisterRequest{
		FullName:        "Test User",
		Email:           email,
		Password:        "password123",
		ConfirmPassword: "password123",
		Role:            role,
	}
}

func TestAuthService_Register_Employee(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, time.Minute, 5)

	resp, err := f.svc.Register(ctx, registerRequest("Emp@Example.com", auth.IntentEmployee), testSession)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "employee", resp.Role)
	assert.Nil(t, resp.Next)

	profile, err := f.profiles.GetByID(ctx, resp.ProfileID)
	require.NoError(t, err)
	assert.Equal(t, "emp@example.com", profile.Email)
	assert.True(t, profile.IsActive)

	view, err := f.requests.Query(ctx, resp.ProfileID)
	require.NoError(t, err)
	assert.Equal(t, adminrequest.StatusNone, view.Status)
}

// Signing up as admin yields an employee profile with a pending request,
// and the admin area sends the session to the pending-approval screen.
func TestAuthService_Register_AdminIntent_PendingApproval(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, time.Minute, 5)

	resp, err := f.svc.Register(ctx, registerRequest("a@x.com", auth.IntentAdmin), testSession)
	require.NoError(t, err)
	assert.Equal(t, "employee", resp.Role)
	assert.Equal(t, auth.IntentAdmin, resp.RequestedRole)
	require.NotNil(t, resp.Next)
	assert.Equal(t, auth.NextPendingApproval, *resp.Next)

	profile, err := f.profiles.GetByID(ctx, resp.ProfileID)
	require.NoError(t, err)
	assert.Equal(t, user.RoleEmployee, profile.Role)

	view, err := f.requests.Query(ctx, resp.ProfileID)
	require.NoError(t, err)
	assert.True(t, view.IsPending())

	guard := accessService.NewGuard(accessService.NewResolver(f.profiles), f.requests, access.DefaultPolicy())
	identityID := profile.AuthIdentityID
	decision, err := guard.Check(ctx, &identityID, access.AreaAdmin)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, access.DestinationPendingApproval, decision.Destination)

	decision, err = guard.Check(ctx, &identityID, access.AreaEmployee)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
}

func TestAuthService_Register_DuplicateEmail_CreatesNoIdentity(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, time.Minute, 5)

	first, err := f.svc.Register(ctx, registerRequest("dup@example.com", auth.IntentEmployee), testSession)
	require.NoError(t, err)

	_, err = f.svc.Register(ctx, registerRequest("DUP@example.com", auth.IntentAdmin), testSession)
	assert.ErrorIs(t, err, auth.ErrEmailAlreadyExists)

	identity, err := f.identities.GetByEmail(ctx, "dup@example.com")
	require.NoError(t, err)
	profile, err := f.profiles.GetByIdentityID(ctx, identity.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ProfileID, profile.ID)

	// the failed admin sign-up left no request behind
	view, err := f.requests.Query(ctx, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, adminrequest.StatusNone, view.Status)
}

func TestAuthService_Register_RollsBackWhenRequestFails(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, time.Minute, 5)

	f.store.FailNext("admin_access_requests.Create", assert.AnError)
	_, err := f.svc.Register(ctx, registerRequest("rb@example.com", auth.IntentAdmin), testSession)
	assert.ErrorIs(t, err, assert.AnError)

	_, err = f.identities.GetByEmail(ctx, "rb@example.com")
	assert.ErrorIs(t, err, auth.ErrIdentityNotFound)
	exists, err := f.profiles.ExistsByEmail(ctx, "rb@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestAuthService_Register_RollsBackWhenTokenSaveFails(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, time.Minute, 5)

	boom := errors.New("connection refused")
	f.store.FailNext("refresh_tokens.CreateRefreshToken", boom)
	_, err := f.svc.Register(ctx, registerRequest("tok@example.com", auth.IntentEmployee), testSession)
	assert.ErrorIs(t, err, boom)

	_, err = f.identities.GetByEmail(ctx, "tok@example.com")
	assert.ErrorIs(t, err, auth.ErrIdentityNotFound)

	// retrying is not refused as a duplicate
	resp, err := f.svc.Register(ctx, registerRequest("tok@example.com", auth.IntentEmployee), testSession)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.RefreshToken)
}

func TestAuthService_Register_SixthAttemptRateLimited(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, 42*time.Second, 5)

	for i := 0; i < 5; i++ {
		_, err := f.svc.Register(ctx, registerRequest(string(rune('a'+i))+"@burst.com", auth.IntentEmployee), testSession)
		require.NoError(t, err)
	}

	_, err := f.svc.Register(ctx, registerRequest("f@burst.com", auth.IntentEmployee), testSession)
	var rateLimitErr *auth.RateLimitError
	require.ErrorAs(t, err, &rateLimitErr)
	assert.Equal(t, 42*time.Second, rateLimitErr.RetryAfter)

	// the refused attempt created nothing
	_, err = f.identities.GetByEmail(ctx, "f@burst.com")
	assert.ErrorIs(t, err, auth.ErrIdentityNotFound)

	// another client is not affected
	other := auth.SessionTrackingRequest{IPAddress: "10.0.0.9"}
	_, err = f.svc.Register(ctx, registerRequest("g@burst.com", auth.IntentEmployee), other)
	assert.NoError(t, err)

	f.now = f.now.Add(42 * time.Second)
	_, err = f.svc.Register(ctx, registerRequest("f@burst.com", auth.IntentEmployee), testSession)
	assert.NoError(t, err)
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, time.Minute, 5)

	registered, err := f.svc.Register(ctx, registerRequest("login@example.com", auth.IntentEmployee), testSession)
	require.NoError(t, err)

	resp, err := f.svc.Login(ctx, auth.LoginRequest{Email: "login@example.com", Password: "password123"}, testSession)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Greater(t, resp.RefreshTokenExpiresIn, int64(0))

	profile, err := f.profiles.GetByID(ctx, registered.ProfileID)
	require.NoError(t, err)
	require.NotNil(t, profile.LastLogin)
	assert.Equal(t, f.now, *profile.LastLogin)

	_, err = f.svc.Login(ctx, auth.LoginRequest{Email: "login@example.com", Password: "wrongpassword"}, testSession)
	assert.Equal(t, auth.ErrInvalidCredentials, err)

	_, err = f.svc.Login(ctx, auth.LoginRequest{Email: "nobody@example.com", Password: "password123"}, testSession)
	assert.Equal(t, auth.ErrInvalidCredentials, err)
}

func TestAuthService_Login_DisabledAccount(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, time.Minute, 5)

	registered, err := f.svc.Register(ctx, registerRequest("off@example.com", auth.IntentEmployee), testSession)
	require.NoError(t, err)
	require.NoError(t, f.profiles.SetActive(ctx, registered.ProfileID, false))

	_, err = f.svc.Login(ctx, auth.LoginRequest{Email: "off@example.com", Password: "password123"}, testSession)
	assert.ErrorIs(t, err, auth.ErrAccountDisabled)
}

func TestAuthService_LoginWithGoogle_NewAdminIntent(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, time.Minute, 5)

	resp, err := f.svc.LoginWithGoogle(ctx, auth.GoogleSignIn{
		GoogleID: "google-id-123",
		Email:    "NewGoogleUser@example.com",
		FullName: "New Google User",
		Intent:   auth.IntentAdmin,
	}, testSession)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	identity, err := f.identities.GetByOAuth(ctx, "google", "google-id-123")
	require.NoError(t, err)
	assert.Equal(t, "newgoogleuser@example.com", identity.Email)
	assert.Nil(t, identity.PasswordHash)

	profile, err := f.profiles.GetByIdentityID(ctx, identity.ID)
	require.NoError(t, err)
	assert.Equal(t, user.RoleEmployee, profile.Role)
	assert.Equal(t, "New Google User", profile.FullName)

	view, err := f.requests.Query(ctx, profile.ID)
	require.NoError(t, err)
	assert.True(t, view.IsPending())

	// a second sign-in reuses the identity and submits nothing new
	_, err = f.svc.LoginWithGoogle(ctx, auth.GoogleSignIn{
		GoogleID: "google-id-123",
		Email:    "newgoogleuser@example.com",
		Intent:   auth.IntentAdmin,
	}, testSession)
	require.NoError(t, err)
}

func TestAuthService_LoginWithGoogle_LinksExistingAccount(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, time.Minute, 5)

	registered, err := f.svc.Register(ctx, registerRequest("existing@example.com", auth.IntentEmployee), testSession)
	require.NoError(t, err)

	_, err = f.svc.LoginWithGoogle(ctx, auth.GoogleSignIn{
		GoogleID: "google-id-456",
		Email:    "existing@example.com",
		Intent:   auth.IntentEmployee,
	}, testSession)
	require.NoError(t, err)

	identity, err := f.identities.GetByOAuth(ctx, "google", "google-id-456")
	require.NoError(t, err)
	profile, err := f.profiles.GetByIdentityID(ctx, identity.ID)
	require.NoError(t, err)
	assert.Equal(t, registered.ProfileID, profile.ID)

	// the password still works
	_, err = f.svc.Login(ctx, auth.LoginRequest{Email: "existing@example.com", Password: "password123"}, testSession)
	assert.NoError(t, err)
}

func TestAuthService_RefreshAndLogout(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, time.Minute, 5)

	registered, err := f.svc.Register(ctx, registerRequest("refresh@example.com", auth.IntentEmployee), testSession)
	require.NoError(t, err)

	refreshed, err := f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: registered.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	require.NoError(t, f.svc.Logout(ctx, registered.RefreshToken))
	// logging out twice is fine
	require.NoError(t, f.svc.Logout(ctx, registered.RefreshToken))

	_, err = f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: registered.RefreshToken})
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)

	_, err = f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: "not-a-token"})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestAuthService_Me(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, time.Minute, 5)

	registered, err := f.svc.Register(ctx, registerRequest("me@example.com", auth.IntentAdmin), testSession)
	require.NoError(t, err)
	profile, err := f.profiles.GetByID(ctx, registered.ProfileID)
	require.NoError(t, err)

	me, err := f.svc.Me(ctx, auth.Session{IdentityID: profile.AuthIdentityID, ProfileID: profile.ID})
	require.NoError(t, err)
	assert.Equal(t, "me@example.com", me.Email)
	assert.Equal(t, "employee", me.Role)
	assert.Equal(t, "pending", me.RequestStatus)
}
