package meraki_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/splashgate/splashgate/idp"
	"github.com/splashgate/splashgate/meraki"
)

const (
	testAPIKey    = "test-api-key"
	testNetworkID = "L_123456789"
	testOrgID     = "1568322"
)

func TestProvision(t *testing.T) {
	identity := idp.Identity{Subject: "auth0|123", Name: "John Doe", Email: "john.doe@example.com"}

	t.Run("posts the identity with the fixed role", func(t *testing.T) {
		var gotPath, gotKey string
		var gotBody map[string]string

		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotKey = r.Header.Get("X-Cisco-Meraki-API-Key")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			w.WriteHeader(http.StatusCreated)
		}))
		defer ts.Close()

		client := meraki.New(ts.URL, testAPIKey, testNetworkID)
		require.NoError(t, client.Provision(context.Background(), identity))

		require.Equal(t, "/networks/"+testNetworkID+"/clients", gotPath)
		require.Equal(t, testAPIKey, gotKey)
		require.Equal(t, map[string]string{
			"email": "john.doe@example.com",
			"name":  "John Doe",
			"role":  "user",
		}, gotBody)
	})

	t.Run("non-2xx response is an error", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad api key", http.StatusUnauthorized)
		}))
		defer ts.Close()

		client := meraki.New(ts.URL, testAPIKey, testNetworkID)
		err := client.Provision(context.Background(), identity)
		require.Error(t, err)
		require.Contains(t, err.Error(), "unexpected status")
	})

	t.Run("unreachable controller is an error", func(t *testing.T) {
		client := meraki.New("http://127.0.0.1:1", testAPIKey, testNetworkID)
		require.Error(t, client.Provision(context.Background(), identity))
	})

	t.Run("honours context cancellation", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer ts.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		client := meraki.New(ts.URL, testAPIKey, testNetworkID)
		require.Error(t, client.Provision(ctx, identity))
	})
}

func TestNetworks(t *testing.T) {
	t.Run("decodes the organization listing", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/organizations/"+testOrgID+"/networks", r.URL.Path)
			require.Equal(t, testAPIKey, r.Header.Get("X-Cisco-Meraki-API-Key"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{"id":"L_1","name":"Campus"},{"id":"L_2","name":"Guest"}]`))
		}))
		defer ts.Close()

		client := meraki.New(ts.URL, testAPIKey, "")
		networks, err := client.Networks(context.Background(), testOrgID)
		require.NoError(t, err)
		require.Len(t, networks, 2)
		require.Equal(t, "L_1", networks[0].ID)
		require.Equal(t, "Guest", networks[1].Name)
	})

	t.Run("non-200 response is an error", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusForbidden)
		}))
		defer ts.Close()

		client := meraki.New(ts.URL, testAPIKey, "")
		_, err := client.Networks(context.Background(), testOrgID)
		require.Error(t, err)
	})
}
