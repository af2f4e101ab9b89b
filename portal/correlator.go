package portal

import (
	"context"
	"fmt"
	"net/url"
)

// GrantStore is the per-session persistence the correlator runs over. The
// session store implements it. Reads must see preceding writes for the same
// session ID, and ClearPendingGrant must be an atomic compare-and-clear so
// that of two racing consumers exactly one observes the record.
type GrantStore interface {
	PendingGrant(ctx context.Context, sessionID string) (GrantRecord, bool, error)
	SetPendingGrant(ctx context.Context, sessionID string, record GrantRecord) error
	ClearPendingGrant(ctx context.Context, sessionID string, expect GrantRecord) (bool, error)
}

// Correlator owns the single pending-grant slot each session carries across
// the identity-provider round trip. Every route mutates the slot only
// through Capture and Consume.
type Correlator struct {
	store GrantStore
}

func NewCorrelator(store GrantStore) *Correlator {
	return &Correlator{store: store}
}

// Capture stores a record parsed from query parameters, replacing whatever
// the session already holds. A request without grant parameters leaves the
// existing slot untouched: the identity-provider redirect back to us carries
// none, and must not wipe the record it exists to complete.
func (c *Correlator) Capture(ctx context.Context, sessionID string, query url.Values) (bool, error) {
	record, ok := CaptureFromQuery(query)
	if !ok {
		return false, nil
	}
	if err := c.store.SetPendingGrant(ctx, sessionID, record); err != nil {
		return false, fmt.Errorf("[Correlator Capture] store pending grant: %w", err)
	}
	return true, nil
}

// Consume removes and returns the session's pending record. The read is
// destructive: a second call, or a concurrent duplicate of the same
// callback, finds the slot empty. A stored record that fails the validity
// check is reported as absent and left alone.
func (c *Correlator) Consume(ctx context.Context, sessionID string) (GrantRecord, bool, error) {
	record, ok, err := c.store.PendingGrant(ctx, sessionID)
	if err != nil {
		return GrantRecord{}, false, fmt.Errorf("[Correlator Consume] read pending grant: %w", err)
	}
	if !ok || !record.Valid() {
		return GrantRecord{}, false, nil
	}
	cleared, err := c.store.ClearPendingGrant(ctx, sessionID, record)
	if err != nil {
		return GrantRecord{}, false, fmt.Errorf("[Correlator Consume] clear pending grant: %w", err)
	}
	if !cleared {
		// Lost the race against a concurrent consumer.
		return GrantRecord{}, false, nil
	}
	return record, true, nil
}
