// Package backendapi implements the outbound HTTP client to the
// authoritative platform backend: mutation replay and snapshot pulls.
package backendapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/syncqueue"
	"marketplace/internal/core/ports"
)

// Client talks to the platform backend over HTTP with bearer authentication.
// A 409 response to a replay maps to ports.ErrSyncConflict; callers discard
// the conflicting mutation instead of retrying it.
type Client struct {
	baseURL    string
	authToken  string
	httpClient *http.Client
}

// NewClient creates a backend client. The timeout bounds every request
// including connection setup and body read.
func NewClient(baseURL, authToken string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		authToken:  authToken,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type replayRequest struct {
	MutationID string          `json:"mutation_id"`
	EntityKind string          `json:"entity_kind"`
	EntityID   string          `json:"entity_id"`
	Operation  string          `json:"operation"`
	Payload    json.RawMessage `json:"payload"`
	EnqueuedAt string          `json:"enqueued_at"`
}

type orderSnapshotResponse struct {
	OrderID   string  `json:"order_id"`
	Status    string  `json:"status"`
	DriverID  *string `json:"driver_id,omitempty"`
	UpdatedAt string  `json:"updated_at"`
}

type driverLocationResponse struct {
	DriverID string  `json:"driver_id"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Status   string  `json:"status"`
	At       string  `json:"at"`
}

// ReplayMutation submits one queued local mutation to the backend.
func (c *Client) ReplayMutation(ctx context.Context, mutation *syncqueue.Mutation) error {
	if err := mutation.Validate(); err != nil {
		return err
	}

	body, err := json.Marshal(replayRequest{
		MutationID: mutation.ID().String(),
		EntityKind: mutation.EntityKind().String(),
		EntityID:   mutation.EntityID().String(),
		Operation:  mutation.Operation(),
		Payload:    mutation.Payload(),
		EnqueuedAt: mutation.EnqueuedAt().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("encode mutation: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+"/api/v1/sync/mutations", bytes.NewReader(body))
	if err != nil {
		return err
	}
	c.prepare(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusConflict:
		return ports.ErrSyncConflict
	case resp.StatusCode >= 300:
		return fmt.Errorf("replay mutation %s: backend returned %d",
			mutation.ID().String(), resp.StatusCode)
	}

	return nil
}

// GetOrderSnapshot fetches the authoritative state of one order.
func (c *Client) GetOrderSnapshot(ctx context.Context, orderID kernel.UUID) (*ports.OrderSnapshot, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	endpoint := c.baseURL + "/api/v1/orders/" + url.PathEscape(orderID.String()) + "/snapshot"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	c.prepare(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("get order snapshot %s: backend returned %d",
			orderID.String(), resp.StatusCode)
	}

	var decoded orderSnapshotResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode order snapshot: %w", err)
	}

	return toSnapshot(decoded)
}

// GetDriverLocations fetches current positions of active drivers.
func (c *Client) GetDriverLocations(ctx context.Context) ([]ports.DriverLocation, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.baseURL+"/api/v1/drivers/locations", nil)
	if err != nil {
		return nil, err
	}
	c.prepare(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("get driver locations: backend returned %d", resp.StatusCode)
	}

	var decoded []driverLocationResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode driver locations: %w", err)
	}

	locations := make([]ports.DriverLocation, 0, len(decoded))
	for _, item := range decoded {
		location, err := toDriverLocation(item)
		if err != nil {
			return nil, err
		}
		locations = append(locations, location)
	}

	return locations, nil
}

func (c *Client) prepare(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.authToken)
	req.Header.Set("Accept", "application/json")
}

func toSnapshot(decoded orderSnapshotResponse) (*ports.OrderSnapshot, error) {
	orderID, err := kernel.UUIDFromString(decoded.OrderID)
	if err != nil {
		return nil, err
	}

	var driverID *kernel.UUID
	if decoded.DriverID != nil {
		id, idErr := kernel.UUIDFromString(*decoded.DriverID)
		if idErr != nil {
			return nil, idErr
		}
		driverID = &id
	}

	updatedAt, err := time.Parse(time.RFC3339Nano, decoded.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("decode snapshot timestamp: %w", err)
	}

	return &ports.OrderSnapshot{
		OrderID:   orderID,
		Status:    decoded.Status,
		DriverID:  driverID,
		UpdatedAt: updatedAt,
	}, nil
}

func toDriverLocation(decoded driverLocationResponse) (ports.DriverLocation, error) {
	driverID, err := kernel.UUIDFromString(decoded.DriverID)
	if err != nil {
		return ports.DriverLocation{}, err
	}

	at, err := time.Parse(time.RFC3339Nano, decoded.At)
	if err != nil {
		return ports.DriverLocation{}, fmt.Errorf("decode location timestamp: %w", err)
	}

	return ports.DriverLocation{
		DriverID: driverID,
		Lat:      decoded.Lat,
		Lon:      decoded.Lon,
		Status:   decoded.Status,
		At:       at,
	}, nil
}
