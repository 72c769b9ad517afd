package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_CallSendsInstructionAndAgentID(t *testing.T) {
	var got callRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(Envelope{
			Success:  true,
			Response: InnerResponse{Status: StatusSuccess, Message: "ok"},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	env, err := client.Call(context.Background(), "Show promotional emails", InteractiveAgentID)
	require.NoError(t, err)

	assert.Equal(t, "Show promotional emails", got.Instruction)
	assert.Equal(t, InteractiveAgentID, got.AgentID)
	assert.True(t, env.OK())
	assert.Equal(t, "ok", env.Response.Message)
}

func TestClient_CallEmptyInputs(t *testing.T) {
	client := NewClient("http://localhost:0", time.Second)

	_, err := client.Call(context.Background(), "  ", InteractiveAgentID)
	assert.Error(t, err)

	_, err = client.Call(context.Background(), "hi", "")
	assert.Error(t, err)
}

func TestClient_CallHTTPErrorIsTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	_, err := client.Call(context.Background(), "hi", InteractiveAgentID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestClient_CallMalformedBodyIsTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	_, err := client.Call(context.Background(), "hi", PeriodicAgentID)
	assert.Error(t, err)
}

func TestClient_CallUnreachableEndpoint(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", 200*time.Millisecond)
	_, err := client.Call(context.Background(), "hi", InteractiveAgentID)
	assert.Error(t, err)
}

func TestClient_AgentLevelFailureComesBackAsEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(Envelope{
			Success:  false,
			Error:    "agent offline",
			Response: InnerResponse{Status: "error"},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	env, err := client.Call(context.Background(), "hi", InteractiveAgentID)
	require.NoError(t, err, "agent failures are not transport failures")
	assert.False(t, env.OK())
	assert.Equal(t, "agent offline", env.ErrorMessage())
}
