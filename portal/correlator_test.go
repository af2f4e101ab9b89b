package portal_test

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/splashgate/splashgate/portal"
	"github.com/splashgate/splashgate/sessions"
)

const testSessionID = "session-1"

func grantQuery(grantURL, continueURL string) url.Values {
	query := url.Values{}
	if grantURL != "" {
		query.Set(portal.ParamGrantURL, grantURL)
	}
	if continueURL != "" {
		query.Set(portal.ParamContinueURL, continueURL)
	}
	return query
}

// setupCorrelator wires a correlator to an in-memory session store holding
// one fresh session.
func setupCorrelator(t *testing.T) (*portal.Correlator, sessions.Repo) {
	t.Helper()

	repo := sessions.NewInMemorySessionRepo()
	require.NoError(t, repo.Upsert(context.Background(), sessions.Session{ID: testSessionID}))
	return portal.NewCorrelator(repo), repo
}

func TestCorrelatorCapture(t *testing.T) {
	ctx := context.Background()

	t.Run("capture stores the record", func(t *testing.T) {
		c, _ := setupCorrelator(t)

		captured, err := c.Capture(ctx, testSessionID, grantQuery("https://ctrl/grant", "https://dest"))
		require.NoError(t, err)
		require.True(t, captured)

		record, ok, err := c.Consume(ctx, testSessionID)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "https://ctrl/grant", record.GrantURL)
	})

	t.Run("second capture overwrites the first", func(t *testing.T) {
		c, _ := setupCorrelator(t)

		_, err := c.Capture(ctx, testSessionID, grantQuery("https://ctrl/grant-1", "https://dest-1"))
		require.NoError(t, err)
		_, err = c.Capture(ctx, testSessionID, grantQuery("https://ctrl/grant-2", "https://dest-2"))
		require.NoError(t, err)

		record, ok, err := c.Consume(ctx, testSessionID)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "https://ctrl/grant-2", record.GrantURL)
		require.Equal(t, "https://dest-2", record.ContinueURL)
	})

	t.Run("record survives requests without grant parameters", func(t *testing.T) {
		c, _ := setupCorrelator(t)

		_, err := c.Capture(ctx, testSessionID, grantQuery("https://ctrl/grant", "https://dest"))
		require.NoError(t, err)

		for i := 0; i < 3; i++ {
			captured, err := c.Capture(ctx, testSessionID, url.Values{})
			require.NoError(t, err)
			require.False(t, captured)
		}

		record, ok, err := c.Consume(ctx, testSessionID)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "https://ctrl/grant", record.GrantURL)
	})

	t.Run("partial parameters leave existing record untouched", func(t *testing.T) {
		c, _ := setupCorrelator(t)

		_, err := c.Capture(ctx, testSessionID, grantQuery("https://ctrl/grant", "https://dest"))
		require.NoError(t, err)

		captured, err := c.Capture(ctx, testSessionID, grantQuery("https://ctrl/other", ""))
		require.NoError(t, err)
		require.False(t, captured)

		record, ok, err := c.Consume(ctx, testSessionID)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "https://ctrl/grant", record.GrantURL)
	})
}

func TestCorrelatorConsume(t *testing.T) {
	ctx := context.Background()

	t.Run("consume is destructive", func(t *testing.T) {
		c, _ := setupCorrelator(t)

		_, err := c.Capture(ctx, testSessionID, grantQuery("https://ctrl/grant", "https://dest"))
		require.NoError(t, err)

		_, ok, err := c.Consume(ctx, testSessionID)
		require.NoError(t, err)
		require.True(t, ok)

		_, ok, err = c.Consume(ctx, testSessionID)
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("consume on empty slot yields nothing", func(t *testing.T) {
		c, _ := setupCorrelator(t)

		_, ok, err := c.Consume(ctx, testSessionID)
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("invalid stored record is reported absent", func(t *testing.T) {
		c, repo := setupCorrelator(t)

		// Write an invalid record straight into the store; capture would
		// never accept it.
		require.NoError(t, repo.SetPendingGrant(ctx, testSessionID, portal.GrantRecord{GrantURL: "https://ctrl/grant"}))

		_, ok, err := c.Consume(ctx, testSessionID)
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("unknown session yields nothing", func(t *testing.T) {
		c, _ := setupCorrelator(t)

		_, ok, err := c.Consume(ctx, "no-such-session")
		require.NoError(t, err)
		require.False(t, ok)
	})
}
