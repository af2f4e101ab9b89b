package config

type Config interface {
	EnvConfig
	OIDCConfig
	MerakiConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetBaseURL() string
	GetEnv() string
	GetTLSCertFile() string
	GetTLSKeyFile() string
	GetRedisAddr() string
}

type OIDCConfig interface {
	GetOIDCIssuerURL() string
	GetOIDCClientID() string
	GetOIDCClientSecret() string
	GetCallbackURL() string
}

type MerakiConfig interface {
	GetMerakiBaseURL() string
	GetMerakiAPIKey() string
	GetMerakiNetworkID() string
	GetMerakiOrgID() string
}

type mainConfig struct {
	EnvVars
	OIDC
	Meraki
}

func New() Config {
	return mainConfig{}
}
