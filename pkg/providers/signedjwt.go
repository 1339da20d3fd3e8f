// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cloud.google.com/go/compute/metadata"
	"github.com/golang-jwt/jwt/v5"

	"github.com/stacklok/tokenbroker/pkg/accesstokens"
)

const (
	// googleTokenURL exchanges signed JWT assertions for access tokens.
	googleTokenURL = "https://www.googleapis.com/oauth2/v4/token"

	// iamSignEndpoint is the IAM credentials signJwt method. The wildcard
	// project segment lets IAM resolve the service account's home project.
	iamSignEndpoint = "https://iam.googleapis.com/v1/projects/-/serviceAccounts/%s:signJwt"

	jwtBearerGrantType = "urn:ietf:params:oauth:grant-type:jwt-bearer"

	mintTimeout = 30 * time.Second
)

// jwtMinter turns a service account identity into an access token by having
// the IAM API sign a short-lived JWT assertion and exchanging it at the OAuth2
// token endpoint. The broker never holds the signing key.
type jwtMinter struct {
	client  *http.Client
	jwtLife int64 // seconds

	signEndpoint string
	tokenURL     string

	// brokerToken returns an access token for the broker's own identity,
	// used to authorize the signJwt call.
	brokerToken func(ctx context.Context) (string, error)

	now func() time.Time
}

func newJWTMinter(jwtLife int) *jwtMinter {
	return &jwtMinter{
		client:       &http.Client{Timeout: mintTimeout},
		jwtLife:      int64(jwtLife),
		signEndpoint: iamSignEndpoint,
		tokenURL:     googleTokenURL,
		brokerToken:  metadataAccessToken,
		now:          time.Now,
	}
}

// mint signs a JWT assertion as serviceAccount and exchanges it for an access
// token. extraClaims lets the caller add claims such as the delegation
// subject; iss, aud, iat and exp are always set here.
func (m *jwtMinter) mint(ctx context.Context, serviceAccount, scope string, extraClaims jwt.MapClaims) (*accesstokens.AccessToken, error) {
	issuedAt := m.now()
	claims := jwt.MapClaims{
		"iss":   serviceAccount,
		"aud":   m.tokenURL,
		"scope": scope,
		"iat":   issuedAt.Unix(),
		"exp":   issuedAt.Unix() + m.jwtLife,
	}
	for name, value := range extraClaims {
		claims[name] = value
	}

	assertion, err := m.signJWT(ctx, serviceAccount, claims)
	if err != nil {
		return nil, err
	}

	token, expiresIn, err := m.exchangeJWT(ctx, assertion)
	if err != nil {
		return nil, err
	}
	return &accesstokens.AccessToken{
		AccessToken: token,
		ExpiresAt:   expiresAtMillis(m.now(), expiresIn),
	}, nil
}

func (m *jwtMinter) signJWT(ctx context.Context, serviceAccount string, claims jwt.MapClaims) (string, error) {
	payload, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("failed to encode JWT claims: %w", err)
	}
	body, err := json.Marshal(map[string]string{"payload": string(payload)})
	if err != nil {
		return "", fmt.Errorf("failed to encode signJwt request: %w", err)
	}

	bearer, err := m.brokerToken(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to obtain broker credentials: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf(m.signEndpoint, serviceAccount), bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("signJwt call failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read signJwt response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("signJwt failed for %s: %s: %s", serviceAccount, resp.Status, raw)
	}

	var signed struct {
		SignedJWT string `json:"signedJwt"`
	}
	if err := json.Unmarshal(raw, &signed); err != nil {
		return "", fmt.Errorf("failed to decode signJwt response: %w", err)
	}
	return signed.SignedJWT, nil
}

func (m *jwtMinter) exchangeJWT(ctx context.Context, assertion string) (string, int64, error) {
	form := url.Values{
		"grant_type": {jwtBearerGrantType},
		"assertion":  {assertion},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.tokenURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.client.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("token exchange failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, fmt.Errorf("failed to read token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", 0, fmt.Errorf("token exchange failed: %s: %s", resp.Status, raw)
	}

	var token struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.Unmarshal(raw, &token); err != nil {
		return "", 0, fmt.Errorf("failed to decode token response: %w", err)
	}
	return token.AccessToken, token.ExpiresIn, nil
}

// metadataAccessToken fetches an access token for the broker's attached
// service account from the instance metadata server.
func metadataAccessToken(ctx context.Context) (string, error) {
	raw, err := metadata.GetWithContext(ctx, "instance/service-accounts/default/token")
	if err != nil {
		return "", fmt.Errorf("metadata token lookup failed: %w", err)
	}

	var token struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal([]byte(raw), &token); err != nil {
		return "", fmt.Errorf("failed to decode metadata token: %w", err)
	}
	return token.AccessToken, nil
}

// brokerServiceAccount resolves the broker's own service account email from
// the instance metadata server.
func brokerServiceAccount(ctx context.Context) (string, error) {
	email, err := metadata.EmailWithContext(ctx, "default")
	if err != nil {
		return "", fmt.Errorf("metadata email lookup failed: %w", err)
	}
	return email, nil
}
