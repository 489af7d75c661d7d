package auth

import (
	"chat-hub/errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestHashAndCompare(t *testing.T) {
	req := require.New(t)
	password := "MonMotDePasseTr0pSûr!"

	hash, err := HashPassword(password)
	req.NoError(err)
	req.True(strings.HasPrefix(hash, "$argon2id$"))

	match, err := ComparePassword(password, hash)
	req.NoError(err)
	req.True(match)

	// Wrong password
	match, err = ComparePassword("MauvaisMDP", hash)
	req.NoError(err)
	req.False(match)

	_, err = ComparePassword(password, "not-a-hash")
	req.ErrorIs(err, ErrInvalidHash)
}

func TestSignupValidation(t *testing.T) {
	tests := []struct {
		name    string
		req     SignupRequest
		wantErr bool
	}{
		{"Valid request", SignupRequest{"Alice", "test@example.com", "ComplexPass123!"}, false},
		{"Missing name", SignupRequest{"  ", "test@example.com", "ComplexPass123!"}, true},
		{"Invalid email", SignupRequest{"Alice", "notanemail", "ComplexPass123!"}, true},
		{"Password too short", SignupRequest{"Alice", "test@example.com", "Short1!"}, true},
		{"Missing digit", SignupRequest{"Alice", "test@example.com", "NoDigitPass!"}, true},
		{"Missing special char", SignupRequest{"Alice", "test@example.com", "NoSpecialChar123"}, true},
		{"Missing uppercase", SignupRequest{"Alice", "test@example.com", "nouppercase123!"}, true},
		{"Password too long (edge case)", SignupRequest{"Alice", "test@example.com", strings.Repeat("a", 73)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSignup(tt.req)
			if tt.wantErr {
				require.ErrorIs(t, err, errors.ErrValidation)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestToken_Round_Trip(t *testing.T) {
	req := require.New(t)
	issuer := NewTokenIssuer("a-test-secret-of-decent-length", time.Hour)
	userID := uuid.NewString()

	token, err := issuer.GenerateToken(userID)
	req.NoError(err)

	claims, err := issuer.ValidateToken(token)
	req.NoError(err)
	req.Equal(userID, claims.UserID)
}

func TestToken_Rejections(t *testing.T) {
	req := require.New(t)
	issuer := NewTokenIssuer("a-test-secret-of-decent-length", time.Hour)
	other := NewTokenIssuer("another-secret-of-decent-length", time.Hour)

	foreign, err := other.GenerateToken(uuid.NewString())
	req.NoError(err)
	_, err = issuer.ValidateToken(foreign)
	req.ErrorIs(err, errors.ErrInvalidToken)

	expired := NewTokenIssuer("a-test-secret-of-decent-length", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, err := expired.GenerateToken(uuid.NewString())
	req.NoError(err)
	_, err = issuer.ValidateToken(old)
	req.ErrorIs(err, errors.ErrUnauthenticated)

	_, err = issuer.ValidateToken("garbage")
	req.ErrorIs(err, errors.ErrInvalidToken)
}

func TestProtect(t *testing.T) {
	req := require.New(t)
	issuer := NewTokenIssuer("a-test-secret-of-decent-length", time.Hour)
	userID := uuid.NewString()
	token, err := issuer.GenerateToken(userID)
	req.NoError(err)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(errors.HTTPStatus(err)).SendString(errors.PublicMessage(err))
		},
	})
	app.Get("/me", Protect(issuer), func(c *fiber.Ctx) error {
		return c.SendString(UserID(c))
	})

	// Bearer header
	r := httptest.NewRequest(http.MethodGet, "/me", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(r)
	req.NoError(err)
	req.Equal(http.StatusOK, resp.StatusCode)

	// Query parameter, used by the websocket handshake
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/me?token="+token, nil))
	req.NoError(err)
	req.Equal(http.StatusOK, resp.StatusCode)

	// No token
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/me", nil))
	req.NoError(err)
	req.Equal(http.StatusUnauthorized, resp.StatusCode)
}

// BenchmarkHashPassword measures the CPU/RAM cost of a signup
func BenchmarkHashPassword(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = HashPassword("A-very-long-and-complex-password-for-bench-123!")
	}
}
