package notion

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePage(t *testing.T) {
	var captured struct {
		path    string
		auth    string
		version string
		payload map[string]any
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.path = r.URL.Path
		captured.auth = r.Header.Get("Authorization")
		captured.version = r.Header.Get("Notion-Version")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured.payload))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "page-123"}`))
	}))
	defer server.Close()

	client := NewClient("secret-token", WithBaseURL(server.URL))
	pageID, err := client.CreatePage(context.Background(), CreatePageRequest{
		ParentPageID: "parent-1",
		Title:        "ADR: Adopt gRPC",
		EmojiIcon:    "💡",
		Children:     BlocksFromMarkdown("# ADR: Adopt gRPC\n\n## Context\n\n- REST did not scale."),
	})
	require.NoError(t, err)
	assert.Equal(t, "page-123", pageID)

	assert.Equal(t, "/v1/pages", captured.path)
	assert.Equal(t, "Bearer secret-token", captured.auth)
	assert.Equal(t, apiVersion, captured.version)

	parent := captured.payload["parent"].(map[string]any)
	assert.Equal(t, "parent-1", parent["page_id"])
	icon := captured.payload["icon"].(map[string]any)
	assert.Equal(t, "💡", icon["emoji"])
	assert.NotEmpty(t, captured.payload["children"])
}

func TestCreatePageErrors(t *testing.T) {
	t.Run("missing token", func(t *testing.T) {
		client := NewClient("")
		_, err := client.CreatePage(context.Background(), CreatePageRequest{ParentPageID: "p"})
		assert.ErrorContains(t, err, "token")
	})

	t.Run("missing parent", func(t *testing.T) {
		client := NewClient("tok")
		_, err := client.CreatePage(context.Background(), CreatePageRequest{})
		assert.ErrorContains(t, err, "parent")
	})

	t.Run("API error status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"message": "invalid parent"}`))
		}))
		defer server.Close()

		client := NewClient("tok", WithBaseURL(server.URL))
		_, err := client.CreatePage(context.Background(), CreatePageRequest{
			ParentPageID: "p",
			Title:        "t",
		})
		require.Error(t, err)
		assert.ErrorContains(t, err, "invalid parent")
	})
}
