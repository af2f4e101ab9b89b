package config

type Meraki struct{}

var _ MerakiConfig = Meraki{}

func (Meraki) GetMerakiBaseURL() string {
	return GetEnv("MERAKI_BASE_URL", "")
}

func (Meraki) GetMerakiAPIKey() string {
	return GetEnv("MERAKI_API_KEY", "")
}

func (Meraki) GetMerakiNetworkID() string {
	return GetEnv("MERAKI_NETWORK_ID", "")
}

// GetMerakiOrgID returns the organization ID, used only to list candidate
// networks at startup when no network ID is configured.
func (Meraki) GetMerakiOrgID() string {
	return GetEnv("MERAKI_ORG_ID", "")
}
