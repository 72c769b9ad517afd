package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Gateway defines the remote agent call surface
type Gateway interface {
	Call(ctx context.Context, instruction, agentID string) (*Envelope, error)
}

// Client is an HTTP implementation of Gateway
type Client struct {
	Endpoint string
	Timeout  time.Duration

	httpClient *http.Client
}

// NewClient creates a gateway client for the given endpoint
func NewClient(endpoint string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		Endpoint:   endpoint,
		Timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// callRequest is the JSON body the gateway expects
type callRequest struct {
	Instruction string `json:"instruction"`
	AgentID     string `json:"agent_id"`
}

// Call sends an instruction to the named agent and returns its envelope.
// Any HTTP or decoding problem is a transport failure; agent-level failures
// come back inside a decoded envelope.
func (c *Client) Call(ctx context.Context, instruction, agentID string) (*Envelope, error) {
	if strings.TrimSpace(instruction) == "" {
		return nil, fmt.Errorf("instruction cannot be empty")
	}
	if strings.TrimSpace(agentID) == "" {
		return nil, fmt.Errorf("agent id cannot be empty")
	}

	data, err := json.Marshal(callRequest{Instruction: instruction, AgentID: agentID})
	if err != nil {
		return nil, fmt.Errorf("encode agent request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("build agent request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("agent gateway request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("agent gateway returned status %s", resp.Status)
	}

	var env Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode agent envelope: %w", err)
	}
	return &env, nil
}
