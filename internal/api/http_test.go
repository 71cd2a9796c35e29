package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/momai/momai/internal/domain"
	"github.com/momai/momai/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.Handler) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTPClient(srv.URL, 5*time.Second, logging.New(nil, "silent"))
}

var testIdentity = domain.Identity{AccountID: "acct-1", Token: "tok-1"}

func TestLogin(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "mom@example.com", req["email"])

		json.NewEncoder(w).Encode(map[string]string{"accountId": "acct-1", "token": "tok-1"})
	}))

	identity, err := c.Login(context.Background(), "mom@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, testIdentity, identity)
}

func TestLogin_MissingToken(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))

	_, err := c.Login(context.Background(), "mom@example.com", "secret")
	assert.Error(t, err)
}

func TestListConversations_SendsBearer(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode([]domain.Conversation{
			{ID: "c1", Title: "Conversation 1", Messages: []domain.Message{
				{ID: "m1", Role: domain.RoleUser, Text: "hi"},
			}},
		})
	}))

	convs, err := c.ListConversations(context.Background(), testIdentity)
	require.NoError(t, err)
	require.Len(t, convs, 1)
	// Remote messages come back stamped confirmed.
	assert.Equal(t, domain.StateConfirmed, convs[0].Messages[0].State)
}

func TestCreateConversation(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/conversations", r.URL.Path)
		json.NewEncoder(w).Encode(domain.Conversation{ID: "srv-1", Title: "Weaning"})
	}))

	conv, err := c.CreateConversation(context.Background(), testIdentity, "Weaning")
	require.NoError(t, err)
	assert.Equal(t, "srv-1", conv.ID)
	assert.Equal(t, "Weaning", conv.Title)
}

func TestPostMessage_InlineReply(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/conversations/c1/messages", r.URL.Path)
		json.NewEncoder(w).Encode(domain.Message{ID: "m2", Role: domain.RoleAssistant, Text: "Hi there"})
	}))

	reply, err := c.PostMessage(context.Background(), testIdentity, "c1", "Hello")
	require.NoError(t, err)
	require.NotNil(t, reply)
	assert.Equal(t, "Hi there", reply.Text)
	assert.Equal(t, domain.StateConfirmed, reply.State)
}

func TestPostMessage_NoReply(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))

	reply, err := c.PostMessage(context.Background(), testIdentity, "c1", "Hello")
	require.NoError(t, err)
	assert.Nil(t, reply)
}

func TestPostMessage_ServerError(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "model overloaded"}`))
	}))

	_, err := c.PostMessage(context.Background(), testIdentity, "c1", "Hello")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "model overloaded", apiErr.Message)
}

func TestListMessages(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/conversations/c1/messages", r.URL.Path)
		json.NewEncoder(w).Encode([]domain.Message{
			{ID: "m1", Role: domain.RoleUser, Text: "Hello"},
			{ID: "m2", Role: domain.RoleAssistant, Text: "Hi there"},
		})
	}))

	msgs, err := c.ListMessages(context.Background(), testIdentity, "c1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, domain.StateConfirmed, msgs[0].State)
	assert.Equal(t, domain.StateConfirmed, msgs[1].State)
}

func TestAPIError_String(t *testing.T) {
	assert.Equal(t, "api error (500): boom", (&APIError{Status: 500, Message: "boom"}).Error())
	assert.Equal(t, "api error (404)", (&APIError{Status: 404}).Error())
}
