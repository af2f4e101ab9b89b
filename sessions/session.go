package sessions

import (
	"time"

	"github.com/splashgate/splashgate/idp"
	"github.com/splashgate/splashgate/portal"
)

// Session is one browser's server-side state, keyed by the opaque session ID
// delivered in the cookie. The pending grant is the only field the relay
// mutates after login; everything else is written once.
type Session struct {
	ID            string              `json:"id"`
	Authenticated bool                `json:"authenticated"`
	Identity      idp.Identity        `json:"identity"`
	PendingGrant  *portal.GrantRecord `json:"pendingGrant,omitempty"`
	CreatedAt     time.Time           `json:"createdAt"`
}
