package portal

import "net/url"

// Query parameter names the access controller appends to its splash
// redirect.
const (
	ParamGrantURL    = "base_grant_url"
	ParamContinueURL = "user_continue_url"
	ParamNodeMAC     = "node_mac"
	ParamClientIP    = "client_ip"
	ParamClientMAC   = "client_mac"
)

// CaptureFromQuery extracts a candidate grant record from splash-request
// query parameters. It returns ok=false unless both required parameters are
// present and non-empty; a half-populated request yields nothing rather than
// a record that would later produce a malformed redirect.
func CaptureFromQuery(query url.Values) (GrantRecord, bool) {
	record := GrantRecord{
		GrantURL:    query.Get(ParamGrantURL),
		ContinueURL: query.Get(ParamContinueURL),
		NodeID:      query.Get(ParamNodeMAC),
		ClientIP:    query.Get(ParamClientIP),
		ClientMAC:   query.Get(ParamClientMAC),
	}
	if !record.Valid() {
		return GrantRecord{}, false
	}
	return record, true
}
