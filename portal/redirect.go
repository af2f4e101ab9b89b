package portal

import (
	"context"
	"fmt"
	"net/url"
)

// Decision is the outcome of evaluating the splash route for one request.
type Decision int

const (
	// ShowLogin renders the login prompt; any grant parameters on the
	// request have been captured so they survive the login redirect.
	ShowLogin Decision = iota
	// RedirectToGrant issues the access-controller redirect; the pending
	// record has been consumed.
	RedirectToGrant
	// ShowStatus renders the plain authenticated page; nothing usable was
	// pending.
	ShowStatus
)

// Decide computes the one response for the splash route. Capture runs on
// every request that carries grant parameters; then, first match wins:
//
//  1. unauthenticated: show the login prompt; never consume, the record has
//     to outlive the login redirect;
//  2. authenticated with a valid pending record: consume it and redirect to
//     the grant target;
//  3. authenticated otherwise: show the authenticated status page.
//
// Returns the decision and, for RedirectToGrant, the target URL.
func (c *Correlator) Decide(ctx context.Context, sessionID string, authenticated bool, query url.Values) (Decision, string, error) {
	if _, err := c.Capture(ctx, sessionID, query); err != nil {
		if !authenticated {
			return ShowLogin, "", err
		}
		return ShowStatus, "", err
	}
	if !authenticated {
		return ShowLogin, "", nil
	}

	record, ok, err := c.Consume(ctx, sessionID)
	if err != nil {
		return ShowStatus, "", err
	}
	if !ok {
		return ShowStatus, "", nil
	}

	target, err := GrantRedirectURL(record)
	if err != nil {
		// An unparseable grant URL behaves like no record at all rather
		// than surfacing a malformed redirect to the controller.
		return ShowStatus, "", nil
	}
	return RedirectToGrant, target, nil
}

// GrantRedirectURL builds the final access-controller redirect target: the
// continue URL is appended to the grant URL as a percent-encoded
// continue_url query parameter. An existing query string on the grant URL is
// preserved.
func GrantRedirectURL(record GrantRecord) (string, error) {
	u, err := url.Parse(record.GrantURL)
	if err != nil {
		return "", fmt.Errorf("[GrantRedirectURL] parse grant url: %w", err)
	}
	q := u.Query()
	q.Set("continue_url", record.ContinueURL)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
