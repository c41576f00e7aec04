package storage

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radiocast/backend-go/internal/config"
)

func gatewayConfig(baseURL string) config.StorageConfig {
	return config.StorageConfig{
		Bucket:         "radiocast-audio",
		Prefix:         "audio/",
		AudioExt:       ".mp3",
		GatewayBaseURL: baseURL,
		GatewayAPIKey:  "test-key",
	}
}

func TestNewGatewayStoreRequiresBaseURL(t *testing.T) {
	_, err := NewGatewayStore(config.StorageConfig{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestGatewayListPage(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/b/radiocast-audio/o", r.URL.Path)
		gotQuery = map[string]string{
			"prefix":     r.URL.Query().Get("prefix"),
			"maxResults": r.URL.Query().Get("maxResults"),
			"pageToken":  r.URL.Query().Get("pageToken"),
			"key":        r.URL.Query().Get("key"),
		}
		json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]string{
				{"name": "audio/morning-brief_2026-08-30.mp3", "size": "1048576"},
				{"name": "audio/covers/brief.jpg", "size": "2048"},
				{"name": "audio/evening-wrap_2026-08-30.mp3", "size": "2097152"},
			},
			"nextPageToken": "tok-next",
		})
	}))
	defer srv.Close()

	store, err := NewGatewayStore(gatewayConfig(srv.URL))
	require.NoError(t, err)

	objects, next, err := store.ListPage(context.Background(), "audio/", 25, nil)
	require.NoError(t, err)

	assert.Equal(t, "audio/", gotQuery["prefix"])
	assert.Equal(t, "25", gotQuery["maxResults"])
	assert.Equal(t, "", gotQuery["pageToken"])
	assert.Equal(t, "test-key", gotQuery["key"])

	require.Len(t, objects, 2, "non-audio entries are filtered out")
	assert.Equal(t, Object{Path: "audio/morning-brief_2026-08-30.mp3", Name: "morning-brief_2026-08-30.mp3", Size: 1048576}, objects[0])
	assert.Equal(t, "evening-wrap_2026-08-30.mp3", objects[1].Name)

	require.NotNil(t, next)
	assert.Equal(t, ModeRestricted, next.Kind)
	assert.Equal(t, "tok-next", next.Value)
	assert.Equal(t, "audio/", next.Prefix)
	assert.Equal(t, 25, next.PageSize)
}

func TestGatewayListPageResumesFromToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tok-next", r.URL.Query().Get("pageToken"))
		json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]string{{"name": "audio/late-night_2026-08-30.mp3", "size": "512"}},
		})
	}))
	defer srv.Close()

	store, err := NewGatewayStore(gatewayConfig(srv.URL))
	require.NoError(t, err)

	cursor := &Cursor{Kind: ModeRestricted, Value: "tok-next", Prefix: "audio/", PageSize: 25}
	objects, next, err := store.ListPage(context.Background(), "audio/", 25, cursor)
	require.NoError(t, err)
	assert.Len(t, objects, 1)
	assert.Nil(t, next, "empty nextPageToken ends the listing")
}

func TestGatewayListPageRejectsForeignCursor(t *testing.T) {
	store, err := NewGatewayStore(gatewayConfig("http://gateway.test"))
	require.NoError(t, err)

	_, _, err = store.ListPage(context.Background(), "audio/", 25, &Cursor{Kind: ModePrivileged, Value: "audio/x.mp3"})
	assert.ErrorIs(t, err, ErrCursorInvalid)
}

func TestGatewayListPageUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	store, err := NewGatewayStore(gatewayConfig(srv.URL))
	require.NoError(t, err)

	_, _, err = store.ListPage(context.Background(), "audio/", 25, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestGatewaySignedURLRead(t *testing.T) {
	store, err := NewGatewayStore(gatewayConfig("http://gateway.test"))
	require.NoError(t, err)

	u, err := store.SignedURL(context.Background(), SignRequest{Path: "audio/morning-brief.mp3", Action: SignRead})
	require.NoError(t, err)
	assert.Equal(t, "http://gateway.test/b/radiocast-audio/o/audio%2Fmorning-brief.mp3?alt=media&key=test-key", u)
}

func TestGatewayWriteOperationsNotConfigured(t *testing.T) {
	store, err := NewGatewayStore(gatewayConfig("http://gateway.test"))
	require.NoError(t, err)

	_, err = store.SignedURL(context.Background(), SignRequest{Path: "audio/x.mp3", Action: SignWrite})
	assert.ErrorIs(t, err, ErrNotConfigured)

	err = store.Put(context.Background(), "audio/x.mp3", "audio/mpeg", nil, 0)
	assert.ErrorIs(t, err, ErrNotConfigured)

	err = store.Delete(context.Background(), "audio/x.mp3")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestGatewayGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("alt") != "media" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if r.URL.EscapedPath() != "/b/radiocast-audio/o/audio%2Fhit.mp3" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		io.WriteString(w, "audio-bytes")
	}))
	defer srv.Close()

	store, err := NewGatewayStore(gatewayConfig(srv.URL))
	require.NoError(t, err)

	body, err := store.Get(context.Background(), "audio/hit.mp3")
	require.NoError(t, err)
	defer body.Close()
	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "audio-bytes", string(data))

	_, err = store.Get(context.Background(), "audio/missing.mp3")
	assert.ErrorIs(t, err, ErrNotFound)
}
