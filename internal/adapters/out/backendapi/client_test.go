package backendapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"marketplace/internal/adapters/out/backendapi"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/syncqueue"
	"marketplace/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMutation(t *testing.T) *syncqueue.Mutation {
	t.Helper()
	mutation, err := syncqueue.NewMutation(
		kernel.NewUUID(), syncqueue.KindCart, kernel.NewUUID(),
		"cart.add", []byte(`{"quantity":2}`), time.Now().UTC())
	require.NoError(t, err)
	return mutation
}

func TestClient_ReplayMutation(t *testing.T) {
	t.Run("posts the mutation with bearer auth", func(t *testing.T) {
		mutation := testMutation(t)

		var gotAuth string
		var gotBody map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/v1/sync/mutations", r.URL.Path)
			gotAuth = r.Header.Get("Authorization")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			w.WriteHeader(http.StatusAccepted)
		}))
		defer server.Close()

		client := backendapi.NewClient(server.URL, "secret-token", time.Minute)

		err := client.ReplayMutation(context.Background(), mutation)

		require.NoError(t, err)
		assert.Equal(t, "Bearer secret-token", gotAuth)
		assert.Equal(t, mutation.ID().String(), gotBody["mutation_id"])
		assert.Equal(t, "cart.add", gotBody["operation"])
		assert.Equal(t, "cart", gotBody["entity_kind"])
	})

	t.Run("maps 409 to sync conflict", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusConflict)
		}))
		defer server.Close()

		client := backendapi.NewClient(server.URL, "secret-token", time.Minute)

		err := client.ReplayMutation(context.Background(), testMutation(t))

		require.ErrorIs(t, err, ports.ErrSyncConflict)
	})

	t.Run("other failures are plain errors", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := backendapi.NewClient(server.URL, "secret-token", time.Minute)

		err := client.ReplayMutation(context.Background(), testMutation(t))

		require.Error(t, err)
		assert.NotErrorIs(t, err, ports.ErrSyncConflict)
	})
}

func TestClient_GetOrderSnapshot(t *testing.T) {
	orderID := kernel.NewUUID()
	driverID := kernel.NewUUID()

	t.Run("decodes the snapshot", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/orders/"+orderID.String()+"/snapshot", r.URL.Path)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"order_id":   orderID.String(),
				"status":     "out_for_delivery",
				"driver_id":  driverID.String(),
				"updated_at": "2026-08-01T12:00:00Z",
			})
		}))
		defer server.Close()

		client := backendapi.NewClient(server.URL, "secret-token", time.Minute)

		snapshot, err := client.GetOrderSnapshot(context.Background(), orderID)

		require.NoError(t, err)
		assert.True(t, snapshot.OrderID.IsEqual(orderID))
		assert.Equal(t, "out_for_delivery", snapshot.Status)
		require.NotNil(t, snapshot.DriverID)
		assert.True(t, snapshot.DriverID.IsEqual(driverID))
	})

	t.Run("backend error surfaces", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client := backendapi.NewClient(server.URL, "secret-token", time.Minute)

		_, err := client.GetOrderSnapshot(context.Background(), orderID)

		require.Error(t, err)
	})
}

func TestClient_GetDriverLocations(t *testing.T) {
	driverID := kernel.NewUUID()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/drivers/locations", r.URL.Path)
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{
				"driver_id": driverID.String(),
				"lat":       55.76,
				"lon":       37.61,
				"status":    "available",
				"at":        "2026-08-01T12:00:00Z",
			},
		})
	}))
	defer server.Close()

	client := backendapi.NewClient(server.URL, "secret-token", time.Minute)

	locations, err := client.GetDriverLocations(context.Background())

	require.NoError(t, err)
	require.Len(t, locations, 1)
	assert.True(t, locations[0].DriverID.IsEqual(driverID))
	assert.InDelta(t, 55.76, locations[0].Lat, 0.001)
	assert.Equal(t, "available", locations[0].Status)
}
