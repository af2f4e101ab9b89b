package config

import "strings"

type OIDC struct{}

var _ OIDCConfig = OIDC{}

// GetOIDCIssuerURL returns the identity provider's issuer URL. OIDC_ISSUER_URL
// takes precedence; AUTH0_DOMAIN is accepted for parity with the original
// Auth0 deployment and gets the https scheme prepended.
func (OIDC) GetOIDCIssuerURL() string {
	if issuer := GetEnv("OIDC_ISSUER_URL", ""); issuer != "" {
		return issuer
	}
	domain := GetEnv("AUTH0_DOMAIN", "")
	if domain == "" {
		return ""
	}
	if strings.HasPrefix(domain, "http://") || strings.HasPrefix(domain, "https://") {
		return domain
	}
	return "https://" + domain
}

func (OIDC) GetOIDCClientID() string {
	if id := GetEnv("OIDC_CLIENT_ID", ""); id != "" {
		return id
	}
	return GetEnv("AUTH0_CLIENT_ID", "")
}

func (OIDC) GetOIDCClientSecret() string {
	if secret := GetEnv("OIDC_CLIENT_SECRET", ""); secret != "" {
		return secret
	}
	return GetEnv("AUTH0_CLIENT_SECRET", "")
}

// GetCallbackURL returns the redirect URI registered with the identity
// provider.
func (OIDC) GetCallbackURL() string {
	return strings.TrimRight(EnvVars{}.GetBaseURL(), "/") + "/callback"
}
