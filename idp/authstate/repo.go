package authstate

import "time"

// FlowState tracks one in-flight login redirect, keyed by the opaque state
// parameter sent to the identity provider. The record is single-use: the
// callback handler deletes it as soon as the state is matched.
type FlowState struct {
	SessionID string
	Nonce     string
	CreatedAt time.Time
}

type Repo interface {
	Upsert(state string, flow *FlowState) error
	Get(state string) (*FlowState, error)
	Delete(state string) error
}
