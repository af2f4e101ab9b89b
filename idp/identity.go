package idp

// Identity is the verified principal returned by the identity provider. The
// relay treats it as read-only: it is displayed on the profile page and
// forwarded to the access controller, nothing else.
type Identity struct {
	Subject string `json:"sub"`
	Name    string `json:"name"`
	Email   string `json:"email"`
}
