package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nderitu/tma/internal/api/authenticator"
	"github.com/nderitu/tma/internal/config"
	"github.com/nderitu/tma/internal/perrors"
	"github.com/nderitu/tma/internal/services/token"
	"github.com/nderitu/tma/internal/services/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserStore struct {
	byEmail    map[string]*user.User
	byUsername map[string]*user.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byEmail:    map[string]*user.User{},
		byUsername: map[string]*user.User{},
	}
}

func (f *fakeUserStore) Create(_ context.Context, u *user.User) (*user.User, error) {
	cp := *u
	cp.ID = uuid.New()
	f.byEmail[cp.Email] = &cp
	f.byUsername[cp.Username] = &cp
	return &cp, nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*user.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, user.ErrUserNotFound
}

func (f *fakeUserStore) GetByUsername(_ context.Context, username string) (*user.User, error) {
	if u, ok := f.byUsername[username]; ok {
		return u, nil
	}
	return nil, user.ErrUserNotFound
}

type fakeTokenStore struct {
	records []*token.Token
}

func (f *fakeTokenStore) Save(_ context.Context, t *token.Token) (*token.Token, error) {
	cp := *t
	cp.ID = uuid.New()
	f.records = append(f.records, &cp)
	return &cp, nil
}

func (f *fakeTokenStore) Rotate(_ context.Context, userID uuid.UUID, fresh *token.Token) (*token.Token, error) {
	for _, rec := range f.records {
		if rec.UserID == userID && rec.Live() {
			rec.Expired = true
			rec.Revoked = true
		}
	}
	return f.Save(context.Background(), fresh)
}

func (f *fakeTokenStore) live(userID uuid.UUID) []*token.Token {
	var out []*token.Token
	for _, rec := range f.records {
		if rec.UserID == userID && rec.Live() {
			out = append(out, rec)
		}
	}
	return out
}

type authFixture struct {
	svc    *AuthService
	users  *fakeUserStore
	tokens *fakeTokenStore
	issuer *authenticator.Authenticator
}

func newAuthFixture() *authFixture {
	issuer := authenticator.New(&config.Config{
		JWT_SECRET:        "test-secret-key",
		JWT_ISSUER:        "test-issuer",
		ACCESS_TOKEN_TTL:  15 * time.Minute,
		REFRESH_TOKEN_TTL: 7 * 24 * time.Hour,
	})

	users := newFakeUserStore()
	tokens := &fakeTokenStore{}

	return &authFixture{
		svc:    NewAuthService(users, tokens, issuer),
		users:  users,
		tokens: tokens,
		issuer: issuer,
	}
}

func registerRequest() RegisterRequest {
	return RegisterRequest{
		Username: "alice",
		Email:    "alice@tma.local",
		Password: "s3cret",
		Role:     user.RoleUser,
	}
}

func httpStatus(t *testing.T, err error) int {
	t.Helper()
	var perr perrors.Err
	require.ErrorAs(t, err, &perr)
	return perr.HttpStatus()
}

func TestRegister(t *testing.T) {
	f := newAuthFixture()

	res, err := f.svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, res.AccessToken)
	assert.NotEmpty(t, res.RefreshToken)
	assert.Equal(t, user.RoleUser, res.User.Role)

	// password is stored hashed, never in the clear
	assert.NotEqual(t, "s3cret", res.User.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(res.User.PasswordHash), []byte("s3cret")))

	live := f.tokens.live(res.User.ID)
	require.Len(t, live, 1)
	assert.Equal(t, res.AccessToken, live[0].Token)
	assert.Equal(t, token.TypeBearer, live[0].TokenType)
}

func TestRegisterInvalidRoleDefaultsToUser(t *testing.T) {
	f := newAuthFixture()

	req := registerRequest()
	req.Role = "ROOT"

	res, err := f.svc.Register(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, user.RoleUser, res.User.Role)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	_, err := f.svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	dup := registerRequest()
	dup.Username = "alice2"
	_, err = f.svc.Register(ctx, dup)
	assert.Equal(t, 409, httpStatus(t, err))
}

func TestLoginRotatesTokens(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	reg, err := f.svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	res, err := f.svc.Login(ctx, "alice", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)

	// exactly one live token per user, and it is the newest one
	live := f.tokens.live(res.User.ID)
	require.Len(t, live, 1)
	assert.Equal(t, res.AccessToken, live[0].Token)

	// the registration token is now dead on both flags
	require.Len(t, f.tokens.records, 2)
	for _, rec := range f.tokens.records {
		if rec.Token == reg.AccessToken {
			assert.True(t, rec.Expired)
			assert.True(t, rec.Revoked)
		}
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	_, err := f.svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	_, err = f.svc.Login(ctx, "alice", "wrong")
	assert.Equal(t, 401, httpStatus(t, err))

	_, err = f.svc.Login(ctx, "nobody", "s3cret")
	assert.Equal(t, 401, httpStatus(t, err))
}

func TestRefresh(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	reg, err := f.svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	res, err := f.svc.Refresh(ctx, reg.RefreshToken)
	require.NoError(t, err)

	// the refresh token survives unchanged; only the access token is new
	assert.Equal(t, reg.RefreshToken, res.RefreshToken)
	assert.NotEqual(t, reg.AccessToken, res.AccessToken)

	live := f.tokens.live(res.User.ID)
	require.Len(t, live, 1)
	assert.Equal(t, res.AccessToken, live[0].Token)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	reg, err := f.svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	// an access token must not work on the refresh path
	_, err = f.svc.Refresh(ctx, reg.AccessToken)
	assert.Equal(t, 401, httpStatus(t, err))

	// and the live session is untouched by the failed attempt
	live := f.tokens.live(reg.User.ID)
	require.Len(t, live, 1)
	assert.Equal(t, reg.AccessToken, live[0].Token)
}

func TestRefreshRejectsGarbage(t *testing.T) {
	f := newAuthFixture()

	_, err := f.svc.Refresh(context.Background(), "not.a.valid.token")
	assert.Equal(t, 401, httpStatus(t, err))
}

func TestRefreshUnknownUser(t *testing.T) {
	f := newAuthFixture()

	// a well-formed token for a user the store has never seen
	ghost := &user.User{ID: uuid.New(), Username: "ghost", Email: "ghost@tma.local", Role: user.RoleUser}
	raw, err := f.issuer.GenerateRefreshToken(ghost)
	require.NoError(t, err)

	_, err = f.svc.Refresh(context.Background(), raw)
	assert.Equal(t, 404, httpStatus(t, err))
}
