package portal

// GrantRecord is one access-controller redirect request waiting for
// authentication to complete. GrantURL is the controller endpoint that marks
// the client device as authorized; ContinueURL is where the controller sends
// the user afterwards. The remaining fields are opaque controller
// passthrough and play no part in the redirect decision.
type GrantRecord struct {
	GrantURL    string `json:"grantURL"`
	ContinueURL string `json:"continueURL"`
	NodeID      string `json:"nodeId,omitempty"`
	ClientIP    string `json:"clientIP,omitempty"`
	ClientMAC   string `json:"clientMAC,omitempty"`
}

// Valid reports whether the record can produce a grant redirect. A record
// missing either URL is unusable and must be treated the same as no record
// at all.
func (r GrantRecord) Valid() bool {
	return r.GrantURL != "" && r.ContinueURL != ""
}
