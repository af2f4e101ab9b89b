package idp

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// Client drives the federated login round trip against a single OIDC
// provider (Auth0 in the reference deployment). Discovery runs once at
// construction; the verifier caches the provider's signing keys.
type Client struct {
	provider *oidc.Provider
	oauth2   oauth2.Config
	verifier *oidc.IDTokenVerifier
}

func New(ctx context.Context, issuerURL, clientID, clientSecret, redirectURL string) (*Client, error) {
	provider, err := oidc.NewProvider(ctx, issuerURL)
	if err != nil {
		return nil, fmt.Errorf("[idp New] discover provider %q: %w", issuerURL, err)
	}

	return &Client{
		provider: provider,
		oauth2: oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     provider.Endpoint(),
			RedirectURL:  redirectURL,
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
		verifier: provider.Verifier(&oidc.Config{ClientID: clientID}),
	}, nil
}

// AuthCodeURL returns the provider's login URL for one state/nonce pair.
func (c *Client) AuthCodeURL(state, nonce string) string {
	return c.oauth2.AuthCodeURL(state, oidc.Nonce(nonce))
}

// Exchange trades the callback's authorization code for a verified identity.
// Signature, audience, expiry and nonce are all checked; any failure is
// fatal to the login attempt.
func (c *Client) Exchange(ctx context.Context, code, nonce string) (Identity, error) {
	token, err := c.oauth2.Exchange(ctx, code)
	if err != nil {
		return Identity{}, fmt.Errorf("[idp Exchange] token exchange: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return Identity{}, fmt.Errorf("[idp Exchange] no id_token in token response")
	}

	idToken, err := c.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return Identity{}, fmt.Errorf("[idp Exchange] verify id token: %w", err)
	}

	var claims struct {
		Nonce string `json:"nonce"`
		Sub   string `json:"sub"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return Identity{}, fmt.Errorf("[idp Exchange] extract claims: %w", err)
	}

	if claims.Nonce != nonce {
		return Identity{}, fmt.Errorf("[idp Exchange] nonce mismatch")
	}

	return Identity{Subject: claims.Sub, Name: claims.Name, Email: claims.Email}, nil
}
