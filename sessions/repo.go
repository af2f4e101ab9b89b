package sessions

import (
	"context"

	"github.com/splashgate/splashgate/portal"
)

// Repo stores sessions keyed by session ID. Implementations must offer
// read-your-writes consistency for a given ID: a grant captured on the
// splash request has to be visible to the callback request that follows the
// identity-provider round trip, which may arrive on a different connection.
//
// The pending-grant methods satisfy portal.GrantStore; ClearPendingGrant is
// a compare-and-clear so concurrent consumers of the same session settle on
// a single winner.
type Repo interface {
	Upsert(ctx context.Context, session Session) error
	Get(ctx context.Context, sessionID string) (Session, error)
	Delete(ctx context.Context, sessionID string) error

	PendingGrant(ctx context.Context, sessionID string) (portal.GrantRecord, bool, error)
	SetPendingGrant(ctx context.Context, sessionID string, record portal.GrantRecord) error
	ClearPendingGrant(ctx context.Context, sessionID string, expect portal.GrantRecord) (bool, error)
}
