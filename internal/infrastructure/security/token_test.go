package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookshelf/books-api/internal/core/domain"
	"github.com/bookshelf/books-api/internal/core/ports"
)

const testSecret = "test_secret_key_for_testing"

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newTestManager(t *testing.T, clock *fakeClock) *TokenManager {
	t.Helper()
	m, err := NewTokenManager(testSecret, 30*time.Minute, WithClock(clock.now))
	require.NoError(t, err)
	return m
}

func TestNewTokenManager_RequiresSecret(t *testing.T) {
	_, err := NewTokenManager("", time.Minute)
	require.Error(t, err)
}

func TestCreateAccessToken_Payload(t *testing.T) {
	testCases := []struct {
		name    string
		subject string
		claims  ports.TokenClaims
	}{
		{name: "no claims", subject: "user-1"},
		{name: "permissions only", subject: "user-2", claims: ports.TokenClaims{
			Permissions: []string{domain.PermBookRead, domain.PermBookCreate},
		}},
		{name: "roles and permissions", subject: "user-3", claims: ports.TokenClaims{
			Roles:       []string{domain.RoleEditor},
			Permissions: []string{domain.PermBookRead},
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
			m := newTestManager(t, clock)

			token, err := m.CreateAccessToken(tc.subject, tc.claims, 0)
			require.NoError(t, err)

			raw := jwt.MapClaims{}
			_, err = jwt.ParseWithClaims(token, raw, func(*jwt.Token) (interface{}, error) {
				return []byte(testSecret), nil
			}, jwt.WithTimeFunc(clock.now))
			require.NoError(t, err)

			assert.Equal(t, tc.subject, raw["sub"])
			assert.EqualValues(t, clock.t.Add(30*time.Minute).Unix(), raw["exp"])
			assert.Contains(t, raw, "roles")
			assert.Contains(t, raw, "permissions")

			p, err := m.DecodeAndVerify(token)
			require.NoError(t, err)
			assert.Equal(t, tc.subject, p.Subject)
			assert.ElementsMatch(t, tc.claims.Permissions, p.Permissions)
			assert.ElementsMatch(t, tc.claims.Roles, p.Roles)
		})
	}
}

func TestDecodeAndVerify_ExpiryBoundary(t *testing.T) {
	issued := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{t: issued}
	m := newTestManager(t, clock)

	token, err := m.CreateAccessToken("user-1", ports.TokenClaims{}, 10*time.Minute)
	require.NoError(t, err)

	for _, offset := range []time.Duration{0, time.Minute, 9*time.Minute + 59*time.Second} {
		clock.t = issued.Add(offset)
		_, err := m.DecodeAndVerify(token)
		assert.NoError(t, err, "token must be valid %s after issuance", offset)
	}

	for _, offset := range []time.Duration{10 * time.Minute, 10*time.Minute + time.Second, time.Hour} {
		clock.t = issued.Add(offset)
		_, err := m.DecodeAndVerify(token)
		assert.ErrorIs(t, err, domain.ErrInvalidToken, "token must be expired %s after issuance", offset)
	}
}

func TestDecodeAndVerify_RejectsTampering(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	m := newTestManager(t, clock)

	valid, err := m.CreateAccessToken("user-1", ports.TokenClaims{Permissions: []string{domain.PermBookRead}}, 0)
	require.NoError(t, err)

	other, err := NewTokenManager("another-secret", time.Minute, WithClock(clock.now))
	require.NoError(t, err)
	foreign, err := other.CreateAccessToken("user-1", ports.TokenClaims{}, 0)
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "user-1"}).
		SignedString([]byte(testSecret))
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"sub": "user-1",
		"exp": clock.t.Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	noSub, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": clock.t.Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	testCases := map[string]string{
		"garbage":           "not-a-token",
		"truncated":         valid[:len(valid)-4],
		"foreign signature": foreign,
		"missing exp":       noExp,
		"wrong algorithm":   hs512,
		"missing subject":   noSub,
	}

	for name, token := range testCases {
		t.Run(name, func(t *testing.T) {
			p, err := m.DecodeAndVerify(token)
			assert.Nil(t, p)
			assert.ErrorIs(t, err, domain.ErrInvalidToken)
		})
	}
}
