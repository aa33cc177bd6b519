// Package remote implements the response resolver backed by a chat
// endpoint: POST {question, conversation_id} and read back {response}.
// Failures are reported once per call; there is no retry.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sridharsri/consultancy/backend/internal/resolver"
)

// Resolver calls a remote chat endpoint to produce bot replies.
type Resolver struct {
	endpoint string
	client   *http.Client
}

// New returns a Resolver posting to the given chat endpoint URL. A nil
// client falls back to http.DefaultClient.
func New(endpoint string, client *http.Client) *Resolver {
	if client == nil {
		client = http.DefaultClient
	}
	return &Resolver{endpoint: endpoint, client: client}
}

type chatRequest struct {
	Question       string `json:"question"`
	ConversationID string `json:"conversation_id"`
}

type chatResponse struct {
	Response string `json:"response"`
	Message  string `json:"message,omitempty"`
}

// Resolve sends the question to the chat endpoint and returns the reply.
// Network failures and non-2xx statuses map to ErrRemoteUnavailable, a
// missing response field to ErrMalformedResponse.
func (r *Resolver) Resolve(ctx context.Context, sessionID, question string) (string, error) {
	payload, err := json.Marshal(chatRequest{Question: question, ConversationID: sessionID})
	if err != nil {
		return "", fmt.Errorf("encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", resolver.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", resolver.ErrRemoteUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var failure chatResponse
		if json.Unmarshal(body, &failure) == nil && failure.Message != "" {
			return "", fmt.Errorf("%w: status %d: %s", resolver.ErrRemoteUnavailable, resp.StatusCode, failure.Message)
		}
		return "", fmt.Errorf("%w: status %d", resolver.ErrRemoteUnavailable, resp.StatusCode)
	}

	var reply chatResponse
	if err := json.Unmarshal(body, &reply); err != nil {
		return "", fmt.Errorf("%w: %v", resolver.ErrMalformedResponse, err)
	}
	// A message field is the endpoint's error shape, regardless of status.
	if strings.TrimSpace(reply.Message) != "" {
		return "", fmt.Errorf("%w: %s", resolver.ErrRemoteUnavailable, reply.Message)
	}
	if strings.TrimSpace(reply.Response) == "" {
		return "", fmt.Errorf("%w: missing response field", resolver.ErrMalformedResponse)
	}

	return reply.Response, nil
}
