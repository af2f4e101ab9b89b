package portal_test

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/splashgate/splashgate/portal"
)

func TestGrantRedirectURL(t *testing.T) {
	t.Run("continue url is percent-encoded", func(t *testing.T) {
		target, err := portal.GrantRedirectURL(portal.GrantRecord{
			GrantURL:    "https://ctrl/grant",
			ContinueURL: "https://dest/page?x=1",
		})
		require.NoError(t, err)
		require.Equal(t, "https://ctrl/grant?continue_url=https%3A%2F%2Fdest%2Fpage%3Fx%3D1", target)
	})

	t.Run("existing query on the grant url is preserved", func(t *testing.T) {
		target, err := portal.GrantRedirectURL(portal.GrantRecord{
			GrantURL:    "https://ctrl/grant?node=7",
			ContinueURL: "https://dest",
		})
		require.NoError(t, err)

		parsed, err := url.Parse(target)
		require.NoError(t, err)
		require.Equal(t, "7", parsed.Query().Get("node"))
		require.Equal(t, "https://dest", parsed.Query().Get("continue_url"))
	})
}

func TestCorrelatorDecide(t *testing.T) {
	ctx := context.Background()

	t.Run("unauthenticated captures and shows login", func(t *testing.T) {
		c, _ := setupCorrelator(t)

		decision, target, err := c.Decide(ctx, testSessionID, false, grantQuery("https://ctrl/grant", "https://dest"))
		require.NoError(t, err)
		require.Equal(t, portal.ShowLogin, decision)
		require.Empty(t, target)

		// Not consumed: a later authenticated pass still finds the record.
		record, ok, err := c.Consume(ctx, testSessionID)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "https://ctrl/grant", record.GrantURL)
	})

	t.Run("unauthenticated never consumes", func(t *testing.T) {
		c, _ := setupCorrelator(t)

		_, err := c.Capture(ctx, testSessionID, grantQuery("https://ctrl/grant", "https://dest"))
		require.NoError(t, err)

		for i := 0; i < 3; i++ {
			decision, _, err := c.Decide(ctx, testSessionID, false, url.Values{})
			require.NoError(t, err)
			require.Equal(t, portal.ShowLogin, decision)
		}

		decision, target, err := c.Decide(ctx, testSessionID, true, nil)
		require.NoError(t, err)
		require.Equal(t, portal.RedirectToGrant, decision)
		require.Equal(t, "https://ctrl/grant?continue_url=https%3A%2F%2Fdest", target)
	})

	t.Run("authenticated with pending record redirects and empties the slot", func(t *testing.T) {
		c, _ := setupCorrelator(t)

		_, err := c.Capture(ctx, testSessionID, grantQuery("https://ctrl/grant", "https://dest/page?x=1"))
		require.NoError(t, err)

		decision, target, err := c.Decide(ctx, testSessionID, true, nil)
		require.NoError(t, err)
		require.Equal(t, portal.RedirectToGrant, decision)
		require.Equal(t, "https://ctrl/grant?continue_url=https%3A%2F%2Fdest%2Fpage%3Fx%3D1", target)

		decision, _, err = c.Decide(ctx, testSessionID, true, nil)
		require.NoError(t, err)
		require.Equal(t, portal.ShowStatus, decision)
	})

	t.Run("authenticated with nothing pending shows status", func(t *testing.T) {
		c, _ := setupCorrelator(t)

		decision, target, err := c.Decide(ctx, testSessionID, true, nil)
		require.NoError(t, err)
		require.Equal(t, portal.ShowStatus, decision)
		require.Empty(t, target)
	})

	t.Run("authenticated request carrying grant parameters redirects immediately", func(t *testing.T) {
		c, _ := setupCorrelator(t)

		decision, target, err := c.Decide(ctx, testSessionID, true, grantQuery("https://ctrl/grant", "https://dest"))
		require.NoError(t, err)
		require.Equal(t, portal.RedirectToGrant, decision)
		require.Equal(t, "https://ctrl/grant?continue_url=https%3A%2F%2Fdest", target)
	})

	t.Run("authenticated with partial record shows status", func(t *testing.T) {
		c, repo := setupCorrelator(t)

		require.NoError(t, repo.SetPendingGrant(ctx, testSessionID, portal.GrantRecord{ContinueURL: "https://dest"}))

		decision, _, err := c.Decide(ctx, testSessionID, true, nil)
		require.NoError(t, err)
		require.Equal(t, portal.ShowStatus, decision)
	})
}
