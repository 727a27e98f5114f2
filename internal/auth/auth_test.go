package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/railzwaylabs/subcommerce/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTokens() *Tokens {
	return NewTokens(config.Config{Auth: config.AuthConfig{
		JWTSecret: "0123456789abcdef0123",
		Issuer:    "subcommerce-test",
		TokenTTL:  time.Hour,
	}})
}

func TestIssueAndVerify(t *testing.T) {
	tokens := testTokens()

	raw, err := tokens.Issue(42, RoleCustomer)
	require.NoError(t, err)

	principal, err := tokens.Verify(raw)
	require.NoError(t, err)
	assert.EqualValues(t, 42, principal.UserID)
	assert.Equal(t, RoleCustomer, principal.Role)
}

func TestVerifyRejects(t *testing.T) {
	tokens := testTokens()

	_, err := tokens.Verify("")
	require.ErrorIs(t, err, ErrMissingToken)

	_, err = tokens.Verify("not.a.token")
	require.ErrorIs(t, err, ErrInvalidToken)

	other := testTokens()
	other.secret = []byte("another-secret-value!!")
	forged, err := other.Issue(42, RoleAdmin)
	require.NoError(t, err)
	_, err = tokens.Verify(forged)
	require.ErrorIs(t, err, ErrInvalidToken)

	expired := testTokens()
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, err := expired.Issue(42, RoleAdmin)
	require.NoError(t, err)
	_, err = tokens.Verify(old)
	require.ErrorIs(t, err, ErrInvalidToken)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "42", "role": "admin", "iss": "subcommerce-test"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = tokens.Verify(unsigned)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssueRejectsUnknownRole(t *testing.T) {
	_, err := testTokens().Issue(42, Role("root"))
	require.ErrorIs(t, err, ErrInvalidRole)
}

func TestAuthorizer(t *testing.T) {
	a, err := NewAuthorizer()
	require.NoError(t, err)

	cases := []struct {
		role   Role
		path   string
		method string
		allow  bool
	}{
		{RoleAdmin, "/api/admin/renewals/run", "POST", true},
		{RoleAdmin, "/api/admin/renewals/runs", "GET", true},
		{RoleAdmin, "/api/admin/renewals/run", "DELETE", false},
		{RoleAdmin, "/api/portal/invoices", "GET", true},
		{RoleCustomer, "/api/portal/invoices", "GET", true},
		{RoleCustomer, "/api/portal/invoices", "POST", false},
		{RoleCustomer, "/api/admin/renewals/run", "POST", false},
		{RoleCustomer, "/api/admin/subscriptions", "GET", false},
	}
	for _, c := range cases {
		got, err := a.Allow(c.role, c.path, c.method)
		require.NoError(t, err)
		assert.Equal(t, c.allow, got, "%s %s %s", c.role, c.method, c.path)
	}
}
