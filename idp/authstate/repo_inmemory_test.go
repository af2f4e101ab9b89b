package authstate_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/splashgate/splashgate/idp/authstate"
)

func TestInMemoryRepo(t *testing.T) {
	t.Run("upsert then get returns a copy", func(t *testing.T) {
		repo := authstate.NewInMemoryRepo()

		flow := &authstate.FlowState{SessionID: "s1", Nonce: "n1", CreatedAt: time.Now()}
		require.NoError(t, repo.Upsert("state-1", flow))

		got, err := repo.Get("state-1")
		require.NoError(t, err)
		require.Equal(t, "s1", got.SessionID)
		require.Equal(t, "n1", got.Nonce)

		got.Nonce = "tampered"
		again, err := repo.Get("state-1")
		require.NoError(t, err)
		require.Equal(t, "n1", again.Nonce)
	})

	t.Run("get unknown state", func(t *testing.T) {
		repo := authstate.NewInMemoryRepo()

		_, err := repo.Get("missing")
		require.Error(t, err)
	})

	t.Run("delete makes the state single-use", func(t *testing.T) {
		repo := authstate.NewInMemoryRepo()

		require.NoError(t, repo.Upsert("state-1", &authstate.FlowState{SessionID: "s1", Nonce: "n1"}))
		require.NoError(t, repo.Delete("state-1"))

		_, err := repo.Get("state-1")
		require.Error(t, err)
	})

	t.Run("empty state rejected", func(t *testing.T) {
		repo := authstate.NewInMemoryRepo()

		require.Error(t, repo.Upsert("", &authstate.FlowState{}))
		require.Error(t, repo.Upsert("state-1", nil))
		_, err := repo.Get("")
		require.Error(t, err)
	})
}
