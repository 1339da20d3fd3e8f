// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/tokenbroker/pkg/settings"
)

// fakeGoogle stands in for the IAM signJwt method and the OAuth2 token
// endpoint.
type fakeGoogle struct {
	t *testing.T

	signedAccount string
	signedClaims  map[string]any

	server *httptest.Server
}

func newFakeGoogle(t *testing.T) *fakeGoogle {
	t.Helper()
	f := &fakeGoogle{t: t}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /sign/{account}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer broker-token", r.Header.Get("Authorization"))
		f.signedAccount = r.PathValue("account")

		var body struct {
			Payload string `json:"payload"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.NoError(t, json.Unmarshal([]byte(body.Payload), &f.signedClaims))

		_ = json.NewEncoder(w).Encode(map[string]string{"signedJwt": "signed.jwt.assertion"})
	})
	mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, jwtBearerGrantType, r.FormValue("grant_type"))
		assert.Equal(t, "signed.jwt.assertion", r.FormValue("assertion"))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "ya29.minted",
			"expires_in":   3600,
		})
	})

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

// bind points the minter at the fake endpoints.
func (f *fakeGoogle) bind(m *jwtMinter) {
	m.signEndpoint = f.server.URL + "/sign/%s"
	m.tokenURL = f.server.URL + "/token"
	m.brokerToken = func(context.Context) (string, error) { return "broker-token", nil }
}

func TestJWTMinterMint(t *testing.T) {
	t.Parallel()
	fake := newFakeGoogle(t)

	minter := newJWTMinter(30)
	fake.bind(minter)
	issued := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	minter.now = func() time.Time { return issued }

	token, err := minter.mint(context.Background(), "sa@project.iam.gserviceaccount.com", "storage.rw", nil)
	require.NoError(t, err)

	assert.Equal(t, "ya29.minted", token.AccessToken)
	assert.Equal(t, issued.Add(time.Hour).UnixMilli(), token.ExpiresAt)

	assert.Equal(t, "sa@project.iam.gserviceaccount.com", fake.signedAccount)
	assert.Equal(t, "sa@project.iam.gserviceaccount.com", fake.signedClaims["iss"])
	assert.Equal(t, minter.tokenURL, fake.signedClaims["aud"])
	assert.Equal(t, "storage.rw", fake.signedClaims["scope"])
	assert.Equal(t, float64(issued.Unix()), fake.signedClaims["iat"])
	assert.Equal(t, float64(issued.Unix()+30), fake.signedClaims["exp"])
}

func TestJWTMinterSignFailure(t *testing.T) {
	t.Parallel()
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "denied", http.StatusForbidden)
	}))
	t.Cleanup(failing.Close)

	minter := newJWTMinter(30)
	minter.signEndpoint = failing.URL + "/sign/%s"
	minter.brokerToken = func(context.Context) (string, error) { return "broker-token", nil }

	_, err := minter.mint(context.Background(), "sa@project.iam.gserviceaccount.com", "storage.rw", nil)
	assert.ErrorContains(t, err, "signJwt failed")
}

func TestShadowProviderUsesShadowAccount(t *testing.T) {
	t.Parallel()
	fake := newFakeGoogle(t)

	provider := NewShadowServiceAccountProvider(&settings.Settings{
		JWTLife:       30,
		ShadowProject: "shadow-project",
	})
	fake.bind(provider.minter)

	token, err := provider.GetAccessToken(context.Background(), "alice@EXAMPLE.COM", "storage.rw")
	require.NoError(t, err)
	assert.Equal(t, "ya29.minted", token.AccessToken)

	// The shadow account is named after the owner's local part, and the
	// assertion is self-issued.
	want := "alice-shadow@shadow-project.iam.gserviceaccount.com"
	assert.Equal(t, want, fake.signedAccount)
	assert.Equal(t, want, fake.signedClaims["iss"])
	_, hasSub := fake.signedClaims["sub"]
	assert.False(t, hasSub)
}

func TestDomainWideDelegationProviderSetsSubject(t *testing.T) {
	t.Parallel()
	fake := newFakeGoogle(t)

	provider := &DomainWideDelegationProvider{
		minter:        newJWTMinter(30),
		brokerAccount: "broker@project.iam.gserviceaccount.com",
		domain:        "example.com",
	}
	fake.bind(provider.minter)

	_, err := provider.GetAccessToken(context.Background(), "alice@EXAMPLE.COM", "storage.rw")
	require.NoError(t, err)

	// Broker-issued assertion, delegated to the mapped cloud identity.
	assert.Equal(t, "broker@project.iam.gserviceaccount.com", fake.signedAccount)
	assert.Equal(t, "broker@project.iam.gserviceaccount.com", fake.signedClaims["iss"])
	assert.Equal(t, "alice@example.com", fake.signedClaims["sub"])
}

func TestDomainWideDelegationSubjectMapping(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		domain string
		owner  string
		want   string
	}{
		{"realm swapped for domain", "example.com", "alice@EXAMPLE.COM", "alice@example.com"},
		{"bare username", "example.com", "alice", "alice@example.com"},
		{"no domain configured", "", "alice@EXAMPLE.COM", "alice@EXAMPLE.COM"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := &DomainWideDelegationProvider{domain: tt.domain}
			assert.Equal(t, tt.want, p.subject(tt.owner))
		})
	}
}

func TestProviderFactoryUnknownBackend(t *testing.T) {
	t.Parallel()
	_, err := New(context.Background(), &settings.Settings{ProviderBackend: "nope"}, nil, nil)
	assert.Error(t, err)
}

func TestExpiresAtMillis(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, now.Add(time.Hour).UnixMilli(), expiresAtMillis(now, 3600))
	assert.Equal(t, now.UnixMilli(), expiresAtMillis(now, 0))
}
