package user

import (
	"context"
	"sync"
	"testing"
	"time"

	"route-planner/internal/models"
	emailSvc "route-planner/pkg/email"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type fakeMailer struct {
	mu   sync.Mutex
	sent []string
	done chan struct{}
}

func (f *fakeMailer) SendEmail(_ context.Context, to, _, _, _ string) error {
	f.mu.Lock()
	f.sent = append(f.sent, to)
	f.mu.Unlock()
	f.done <- struct{}{}
	return nil
}

func newTestService(t *testing.T, mailer emailSvc.ServiceInterface) ServiceInterface {
	t.Helper()
	tm, err := emailSvc.NewTemplateManager()
	require.NoError(t, err)
	return NewService(NewMemoryRepository(), mailer, tm, testSecret, "http://localhost:5173", nil)
}

func signupReq() models.SignupRequest {
	return models.SignupRequest{Nickname: " Olena ", Email: "Olena@Example.com", Password: "correct-horse"}
}

func TestSignupIssuesToken(t *testing.T) {
	svc := newTestService(t, nil)

	resp, err := svc.Signup(context.Background(), signupReq())
	require.NoError(t, err)
	assert.Equal(t, "olena@example.com", resp.User.Email)
	assert.Equal(t, "Olena", resp.User.Nickname)
	assert.Empty(t, resp.User.PasswordHash)

	claims := &models.JwtCustomClaims{}
	tok, err := jwt.ParseWithClaims(resp.AccessToken, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	assert.True(t, tok.Valid)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.WithinDuration(t, time.Now().Add(tokenTTL), claims.ExpiresAt.Time, time.Minute)
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc := newTestService(t, nil)
	_, err := svc.Signup(context.Background(), signupReq())
	require.NoError(t, err)

	req := signupReq()
	req.Email = "olena@example.com"
	_, err = svc.Signup(context.Background(), req)
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestSignupSendsWelcomeEmail(t *testing.T) {
	mailer := &fakeMailer{done: make(chan struct{}, 1)}
	svc := newTestService(t, mailer)

	_, err := svc.Signup(context.Background(), signupReq())
	require.NoError(t, err)

	select {
	case <-mailer.done:
	case <-time.After(2 * time.Second):
		t.Fatal("welcome email was not sent")
	}
	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	assert.Equal(t, []string{"olena@example.com"}, mailer.sent)
}

func TestLogin(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()
	_, err := svc.Signup(ctx, signupReq())
	require.NoError(t, err)

	resp, err := svc.Login(ctx, models.LoginRequest{Email: "OLENA@example.com ", Password: "correct-horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	_, err = svc.Login(ctx, models.LoginRequest{Email: "olena@example.com", Password: "wrong-horse"})
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	_, err = svc.Login(ctx, models.LoginRequest{Email: "nobody@example.com", Password: "x"})
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestProfile(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()
	resp, err := svc.Signup(ctx, signupReq())
	require.NoError(t, err)

	nick := "  Lena "
	updated, err := svc.UpdateUserProfile(ctx, resp.User.ID, models.UserUpdateData{Nickname: &nick})
	require.NoError(t, err)
	assert.Equal(t, "Lena", updated.Nickname)

	got, err := svc.GetUserProfile(ctx, resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lena", got.Nickname)
	assert.Empty(t, got.PasswordHash)

	_, err = svc.GetUserProfile(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}
