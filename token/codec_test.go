package token

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testAccessSecret  = []byte("test-access-secret-0123456789abcdef")
	testRefreshSecret = []byte("test-refresh-secret-0123456789abcde")
)

func newTestCodec(t *testing.T, now func() time.Time) *Codec {
	t.Helper()

	c, err := NewCodec(Config{
		AccessSecret:  testAccessSecret,
		RefreshSecret: testRefreshSecret,
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
		Issuer:        "authcore-test",
		Audience:      "campus",
	}, now)
	require.NoError(t, err)
	return c
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	c := newTestCodec(t, nil)
	scope := Scope{OrganizationID: "org-1", BranchID: "b-1"}

	for _, kind := range []Kind{KindAccess, KindRefresh} {
		tok, err := c.Issue("acct-1", "teacher", scope, "fam-1", kind, 42)
		require.NoError(t, err, "kind %s", kind)

		claims, err := c.Verify(tok, kind)
		require.NoError(t, err, "kind %s", kind)
		assert.Equal(t, "acct-1", claims.Subject)
		assert.Equal(t, "teacher", claims.Role)
		assert.Equal(t, "org-1", claims.Org)
		assert.Equal(t, "b-1", claims.Branch)
		assert.Equal(t, "fam-1", claims.Family)
		assert.Equal(t, string(kind), claims.Kind)
		assert.Equal(t, int64(42), claims.Epoch)
	}
}

func TestVerifyExpired(t *testing.T) {
	current := time.Now()
	c := newTestCodec(t, func() time.Time { return current })

	tok, err := c.Issue("acct-1", "teacher", Scope{OrganizationID: "org-1"}, "fam-1", KindAccess, 1)
	require.NoError(t, err)

	current = current.Add(16 * time.Minute)
	_, err = c.Verify(tok, KindAccess)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestVerifyCrossKindFailsSignature(t *testing.T) {
	c := newTestCodec(t, nil)

	refresh, err := c.Issue("acct-1", "teacher", Scope{OrganizationID: "org-1"}, "fam-1", KindRefresh, 1)
	require.NoError(t, err)

	_, err = c.Verify(refresh, KindAccess)
	assert.ErrorIs(t, err, ErrBadSignature)

	access, err := c.Issue("acct-1", "teacher", Scope{OrganizationID: "org-1"}, "fam-1", KindAccess, 1)
	require.NoError(t, err)

	_, err = c.Verify(access, KindRefresh)
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestVerifyWrongKindClaim(t *testing.T) {
	c := newTestCodec(t, nil)

	// Forge a token signed with the refresh secret but claiming the access
	// kind; the signature passes and the knd check must catch it.
	now := time.Now()
	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role:   "teacher",
		Org:    "org-1",
		Family: "fam-1",
		Kind:   string(KindAccess),
		Epoch:  1,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "acct-1",
			Issuer:    "authcore-test",
			Audience:  jwt.ClaimStrings{"campus"},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	})
	signed, err := forged.SignedString(testRefreshSecret)
	require.NoError(t, err)

	_, err = c.Verify(signed, KindRefresh)
	assert.ErrorIs(t, err, ErrWrongKind)
}

func TestVerifyTamperedToken(t *testing.T) {
	c := newTestCodec(t, nil)

	tok, err := c.Issue("acct-1", "teacher", Scope{OrganizationID: "org-1"}, "fam-1", KindAccess, 1)
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	_, err = c.Verify(tampered, KindAccess)
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestVerifyGarbage(t *testing.T) {
	c := newTestCodec(t, nil)

	_, err := c.Verify("not-a-token", KindAccess)
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = c.Verify("", KindAccess)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestNewCodecRejectsBadConfig(t *testing.T) {
	base := Config{
		AccessSecret:  testAccessSecret,
		RefreshSecret: testRefreshSecret,
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	}

	short := base
	short.AccessSecret = []byte("short")
	_, err := NewCodec(short, nil)
	assert.Error(t, err)

	same := base
	same.RefreshSecret = base.AccessSecret
	_, err = NewCodec(same, nil)
	assert.Error(t, err)

	noTTL := base
	noTTL.AccessTTL = 0
	_, err = NewCodec(noTTL, nil)
	assert.Error(t, err)

	badLeeway := base
	badLeeway.Leeway = 5 * time.Minute
	_, err = NewCodec(badLeeway, nil)
	assert.Error(t, err)
}

func TestIssueRejectsEmptyIdentity(t *testing.T) {
	c := newTestCodec(t, nil)

	_, err := c.Issue("", "teacher", Scope{}, "fam-1", KindAccess, 1)
	assert.Error(t, err)

	_, err = c.Issue("acct-1", "teacher", Scope{}, "", KindAccess, 1)
	assert.Error(t, err)
}
