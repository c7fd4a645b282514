package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// GoogleIdentity is the verified subset of a Google ID token
type GoogleIdentity struct {
	Subject       string
	Email         string
	Name          string
	EmailVerified bool
	Audience      string
}

// GoogleVerifier checks a Google ID token credential
type GoogleVerifier interface {
	Verify(ctx context.Context, credential string) (*GoogleIdentity, error)
}

// tokenInfo mirrors the tokeninfo endpoint payload; email_verified arrives
// as either a string or a boolean
type tokenInfo struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	EmailVerified any    `json:"email_verified"`
	Aud           string `json:"aud"`
}

type tokenInfoVerifier struct {
	endpoint   string
	httpClient *http.Client
}

// DefaultTokenInfoURL is Google's ID token introspection endpoint
const DefaultTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// NewGoogleVerifier creates a verifier backed by the tokeninfo endpoint
func NewGoogleVerifier(endpoint string) GoogleVerifier {
	if endpoint == "" {
		endpoint = DefaultTokenInfoURL
	}
	return &tokenInfoVerifier{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (v *tokenInfoVerifier) Verify(ctx context.Context, credential string) (*GoogleIdentity, error) {
	u := v.endpoint + "?id_token=" + url.QueryEscape(credential)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tokeninfo request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read tokeninfo response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, newError(ErrValidation, "Invalid Google credential")
	}

	var info tokenInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("failed to parse tokeninfo response: %w", err)
	}

	verified := false
	switch ev := info.EmailVerified.(type) {
	case bool:
		verified = ev
	case string:
		verified = ev == "true"
	}

	return &GoogleIdentity{
		Subject:       strings.TrimSpace(info.Sub),
		Email:         strings.ToLower(strings.TrimSpace(info.Email)),
		Name:          strings.TrimSpace(info.Name),
		EmailVerified: verified,
		Audience:      info.Aud,
	}, nil
}
