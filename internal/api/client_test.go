package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, zerolog.Nop())
}

const validMessage = `{
	"id": "m-1",
	"body": "{\"hello\":true}",
	"senderId": "user-a",
	"sentAt": "2026-01-02T15:04:05Z",
	"disposition": "complete",
	"destination": {"kind": "queue", "name": "orders", "namespace": "ns-1"}
}`

func TestTrackedMessages_BareArray(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tracked-messages/tracking", r.URL.Path)
		w.Write([]byte("[" + validMessage + "]"))
	}))

	msgs, err := c.TrackedMessages(context.Background())
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "m-1", msgs[0].ID)
	assert.Equal(t, "user-a", msgs[0].SenderID)
	assert.Equal(t, "orders", msgs[0].Destination.Name)
}

func TestTrackedMessages_Envelope(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": true, "data": [` + validMessage + `]}`))
	}))

	msgs, err := c.TrackedMessages(context.Background())
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "m-1", msgs[0].ID)
}

func TestTrackedMessages_EnvelopeFailure(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false, "message": "tracking store offline"}`))
	}))

	_, err := c.TrackedMessages(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "tracking store offline", apiErr.Message)
}

func TestTrackedMessages_SchemaViolation(t *testing.T) {
	// senderId missing: well-formed JSON, wrong shape.
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id": "m-1", "sentAt": "2026-01-02T15:04:05Z", "destination": {}}]`))
	}))

	_, err := c.TrackedMessages(context.Background())
	var decErr *DecodeError
	require.ErrorAs(t, err, &decErr)
	assert.Contains(t, decErr.Error(), "senderId")
}

func TestDoRead_NoRetryOn4xx(t *testing.T) {
	var calls atomic.Int32
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message": "no such queue"}`))
	}))

	_, err := c.ServiceBusMessages(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "no such queue", apiErr.Message)
	assert.Equal(t, int32(1), calls.Load(), "4xx must not be retried")
}

func TestDoRead_RetriesOn5xx(t *testing.T) {
	var calls atomic.Int32
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`[]`))
	}))

	msgs, err := c.SQSMessages(context.Background())
	require.NoError(t, err)
	assert.Empty(t, msgs)
	assert.Equal(t, int32(3), calls.Load())
}

func TestDoRead_BoundedRetries(t *testing.T) {
	var calls atomic.Int32
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := c.ServiceBusMessages(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(maxReadRetries), calls.Load())
}

func TestSendMessage_GeneratesID(t *testing.T) {
	var got SendRequest
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/service-bus/messages", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(validMessage))
	}))

	_, err := c.SendMessage(context.Background(), ProviderAzure, SendRequest{
		Destination: Destination{Kind: "queue", Name: "orders", Namespace: "ns-1"},
		Body:        "hello",
		SenderID:    "user-a",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, got.MessageID, "client must generate a message id")
	assert.Equal(t, "user-a", got.SenderID)
}

func TestSendMessage_RejectsBadDisposition(t *testing.T) {
	c := NewClient("http://unused", zerolog.Nop())
	_, err := c.SendMessage(context.Background(), ProviderAzure, SendRequest{Disposition: "vanish"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disposition")
}

func TestReceiveMessages_RequiresReceiver(t *testing.T) {
	c := NewClient("http://unused", zerolog.Nop())
	_, err := c.ReceiveMessages(context.Background(), ProviderAWS, ReceiveRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "receiver")
}

func TestReceiveMessages_ProviderPaths(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/aws-sqs/messages/receive", r.URL.Path)
		w.Write([]byte(`[]`))
	}))

	_, err := c.ReceiveMessages(context.Background(), ProviderAWS, ReceiveRequest{Receiver: "rcv-1"})
	require.NoError(t, err)
}

func TestDeleteTrackedMessage(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/tracked-messages/tracking/m-42", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))

	require.NoError(t, c.DeleteTrackedMessage(context.Background(), "m-42"))
}

func TestCreateResource_ValidatesBeforeSending(t *testing.T) {
	c := NewClient("http://unused", zerolog.Nop())
	_, err := c.CreateResource(context.Background(), Resource{Name: "q", Provider: "gcp", Kind: "queue"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider")
}

func TestResources_RoundTrip(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": true, "data": [{"id": "r-1", "provider": "aws", "type": "queue", "name": "jobs", "status": "active"}]}`))
	}))

	resources, err := c.Resources(context.Background())
	require.NoError(t, err)
	require.Len(t, resources, 1)
	assert.Equal(t, "jobs", resources[0].Name)
}

func TestCheckStatus_Timeout(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	// Shrink the wait by racing the probe against a generous deadline; the
	// probe's own 5s bound must fire first.
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer cancel()

	_, err := c.CheckStatus(ctx)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 7*time.Second)
}

func TestBrokerConfig_Tree(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/service-bus/config", r.URL.Path)
		w.Write([]byte(`{
			"namespaces": [{
				"name": "ns-1",
				"queues": [{"name": "orders"}],
				"topics": [{"name": "events", "subscriptions": ["sub-a", "default"]}]
			}]
		}`))
	}))

	cfg, err := c.ServiceBusConfig(context.Background())
	require.NoError(t, err)
	require.Len(t, cfg.Namespaces, 1)
	assert.Equal(t, "orders", cfg.Namespaces[0].Queues[0].Name)
	assert.Equal(t, []string{"sub-a", "default"}, cfg.Namespaces[0].Topics[0].Subscriptions)
}
