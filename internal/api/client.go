package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	defaultTimeout = 10 * time.Second
	statusTimeout  = 5 * time.Second
	maxReadRetries = 3
	retryBackoff   = 200 * time.Millisecond
)

// Client talks to the monitor backend's REST API.
// All broker work happens server-side; this client only ferries JSON.
type Client struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewClient creates a client for the given backend base URL.
func NewClient(baseURL string, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: defaultTimeout,
		},
		log: log,
	}
}

// BaseURL returns the backend base URL the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) doRequest(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	reqURL := c.baseURL + path

	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequestWithContext(ctx, method, reqURL, bytes.NewReader(body))
	} else {
		req, err = http.NewRequestWithContext(ctx, method, reqURL, nil)
	}
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Debug().Str("method", method).Str("path", path).Err(err).Msg("request failed")
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		c.log.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode).Msg("error status")
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(data),
		}
	}

	return data, nil
}

// doRead performs a GET with bounded retries. Transport failures and 5xx
// responses are retried; 4xx and schema errors are not.
func (c *Client) doRead(ctx context.Context, path string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= maxReadRetries; attempt++ {
		data, err := c.doRequest(ctx, http.MethodGet, path, nil)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if !retryable(err) || ctx.Err() != nil {
			return nil, err
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryBackoff * time.Duration(attempt)):
		}
	}
	return nil, lastErr
}

// errorMessage extracts the backend's message field from an error body.
func errorMessage(data []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}

// Namespaces lists the Service Bus namespaces known to the backend.
func (c *Client) Namespaces(ctx context.Context) ([]Namespace, error) {
	const path = "/servicebus/namespaces"
	data, err := c.doRead(ctx, path)
	if err != nil {
		return nil, err
	}
	return decodeList[Namespace](path, data)
}

// ServiceBusConfig fetches the Service Bus namespace/queue/topic tree.
func (c *Client) ServiceBusConfig(ctx context.Context) (BrokerConfig, error) {
	return c.brokerConfig(ctx, "/service-bus/config")
}

// SQSConfig fetches the SQS queue topology.
func (c *Client) SQSConfig(ctx context.Context) (BrokerConfig, error) {
	return c.brokerConfig(ctx, "/aws-sqs/config")
}

func (c *Client) brokerConfig(ctx context.Context, path string) (BrokerConfig, error) {
	data, err := c.doRead(ctx, path)
	if err != nil {
		return BrokerConfig{}, err
	}
	return decodeObject[BrokerConfig](path, data)
}

// ServiceBusMessages lists messages observed on the Service Bus emulator.
func (c *Client) ServiceBusMessages(ctx context.Context) ([]TrackedMessage, error) {
	return c.messages(ctx, "/service-bus/messages")
}

// SQSMessages lists messages observed on the SQS emulator.
func (c *Client) SQSMessages(ctx context.Context) ([]TrackedMessage, error) {
	return c.messages(ctx, "/aws-sqs/messages")
}

// TrackedMessages lists the backend's tracking records.
func (c *Client) TrackedMessages(ctx context.Context) ([]TrackedMessage, error) {
	return c.messages(ctx, "/tracked-messages/tracking")
}

func (c *Client) messages(ctx context.Context, path string) ([]TrackedMessage, error) {
	data, err := c.doRead(ctx, path)
	if err != nil {
		return nil, err
	}
	msgs, err := decodeList[TrackedMessage](path, data)
	if err != nil {
		return nil, err
	}
	for _, m := range msgs {
		if err := m.Validate(); err != nil {
			return nil, &DecodeError{Endpoint: path, Detail: err}
		}
	}
	return msgs, nil
}

// SendMessage simulates a send on the given provider. A message id is
// generated client-side when the caller didn't set one.
func (c *Client) SendMessage(ctx context.Context, provider string, req SendRequest) (TrackedMessage, error) {
	if req.MessageID == "" {
		req.MessageID = uuid.NewString()
	}
	if !validDisposition(req.Disposition) {
		return TrackedMessage{}, fmt.Errorf("invalid disposition %q", req.Disposition)
	}

	path := providerPath(provider, "/messages")
	body, err := json.Marshal(req)
	if err != nil {
		return TrackedMessage{}, err
	}

	data, err := c.doRequest(ctx, http.MethodPost, path, body)
	if err != nil {
		return TrackedMessage{}, err
	}

	c.log.Debug().Str("destination", req.Destination.String()).Str("id", req.MessageID).Msg("sent message")
	return decodeObject[TrackedMessage](path, data)
}

// ReceiveMessages simulates a receive; the backend requires a receiver id.
func (c *Client) ReceiveMessages(ctx context.Context, provider string, req ReceiveRequest) ([]TrackedMessage, error) {
	if req.Receiver == "" {
		return nil, fmt.Errorf("receiver id is required")
	}

	path := providerPath(provider, "/messages/receive")
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	data, err := c.doRequest(ctx, http.MethodPost, path, body)
	if err != nil {
		return nil, err
	}
	return decodeList[TrackedMessage](path, data)
}

// DeleteTrackedMessage removes a tracking record by id.
func (c *Client) DeleteTrackedMessage(ctx context.Context, id string) error {
	path := "/tracked-messages/tracking/" + id
	_, err := c.doRequest(ctx, http.MethodDelete, path, nil)
	return err
}

// Resources lists the messaging-resource catalog.
func (c *Client) Resources(ctx context.Context) ([]Resource, error) {
	const path = "/message-resources/resources"
	data, err := c.doRead(ctx, path)
	if err != nil {
		return nil, err
	}
	resources, err := decodeList[Resource](path, data)
	if err != nil {
		return nil, err
	}
	for _, r := range resources {
		if err := r.Validate(); err != nil {
			return nil, &DecodeError{Endpoint: path, Detail: err}
		}
	}
	return resources, nil
}

// CreateResource adds a queue or topic definition to the catalog.
func (c *Client) CreateResource(ctx context.Context, r Resource) (Resource, error) {
	if err := r.Validate(); err != nil {
		return Resource{}, err
	}

	const path = "/message-resources/resources"
	body, err := json.Marshal(r)
	if err != nil {
		return Resource{}, err
	}

	data, err := c.doRequest(ctx, http.MethodPost, path, body)
	if err != nil {
		return Resource{}, err
	}
	return decodeObject[Resource](path, data)
}

// CheckStatus probes backend health with a hard 5-second bound, regardless
// of the caller's context.
func (c *Client) CheckStatus(ctx context.Context) (Status, error) {
	ctx, cancel := context.WithTimeout(ctx, statusTimeout)
	defer cancel()

	const path = "/status"
	data, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return Status{}, err
	}
	return decodeObject[Status](path, data)
}

func providerPath(provider, suffix string) string {
	if provider == ProviderAWS {
		return "/aws-sqs" + suffix
	}
	return "/service-bus" + suffix
}
