package api

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radiocast/backend-go/internal/audit"
	"github.com/radiocast/backend-go/internal/auth"
	"github.com/radiocast/backend-go/internal/domain"
	"github.com/radiocast/backend-go/internal/reconcile"
	"github.com/radiocast/backend-go/internal/repository"
	"github.com/radiocast/backend-go/internal/search"
	"github.com/radiocast/backend-go/internal/service"
	"github.com/radiocast/backend-go/internal/storage"
)

type testStore struct {
	objects []storage.Object
	deleted []string
}

func (s *testStore) Mode() storage.Mode { return storage.ModePrivileged }

func (s *testStore) ListPage(ctx context.Context, prefix string, pageSize int, cursor *storage.Cursor) ([]storage.Object, *storage.Cursor, error) {
	start := 0
	if cursor != nil {
		start, _ = strconv.Atoi(cursor.Value)
	}
	if start >= len(s.objects) {
		return nil, nil, nil
	}
	end := start + pageSize
	if end > len(s.objects) {
		end = len(s.objects)
	}
	page := s.objects[start:end]
	if end == len(s.objects) {
		return page, nil, nil
	}
	return page, &storage.Cursor{Kind: storage.ModePrivileged, Value: strconv.Itoa(end), Prefix: prefix, PageSize: pageSize}, nil
}

func (s *testStore) SignedURL(ctx context.Context, req storage.SignRequest) (string, error) {
	return "https://store.test/" + req.Path, nil
}

func (s *testStore) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("")), nil
}

func (s *testStore) Put(ctx context.Context, path, contentType string, body io.Reader, size int64) error {
	return nil
}

func (s *testStore) Delete(ctx context.Context, path string) error {
	s.deleted = append(s.deleted, path)
	return nil
}

type testProvider struct{ store storage.ObjectStore }

func (p testProvider) Select() (storage.ObjectStore, error) { return p.store, nil }

type testProgrammes struct {
	byPath map[string]*domain.Programme
}

func (r *testProgrammes) ByStoragePaths(ctx context.Context, paths []string) (map[string]*domain.Programme, error) {
	out := make(map[string]*domain.Programme)
	for _, p := range paths {
		if prog, ok := r.byPath[p]; ok {
			out[p] = prog
		}
	}
	return out, nil
}

func (r *testProgrammes) TitleMatchPaths(ctx context.Context, q string) ([]string, error) {
	return nil, nil
}

func (r *testProgrammes) ByID(ctx context.Context, id int64) (*domain.Programme, error) {
	return nil, repository.ErrNotFound
}

func (r *testProgrammes) ByStoragePath(ctx context.Context, path string) (*domain.Programme, error) {
	if p, ok := r.byPath[path]; ok {
		return p, nil
	}
	return nil, repository.ErrNotFound
}

func (r *testProgrammes) Create(ctx context.Context, p *domain.Programme) error { return nil }
func (r *testProgrammes) Update(ctx context.Context, p *domain.Programme) error { return nil }
func (r *testProgrammes) Delete(ctx context.Context, id int64) error            { return nil }
func (r *testProgrammes) CountPublished(ctx context.Context) (int, error)       { return 0, nil }

type testAssignments struct{}

func (testAssignments) ForUser(ctx context.Context, userID int64) ([]domain.Assignment, error) {
	return nil, nil
}

type testAudit struct{}

func (testAudit) Insert(ctx context.Context, event domain.AuditEvent) error { return nil }

type testSettings struct {
	values map[string]string
}

func (r *testSettings) Get(ctx context.Context, name string) (string, error) {
	if v, ok := r.values[name]; ok {
		return v, nil
	}
	return "", repository.ErrNotFound
}

func (r *testSettings) Set(ctx context.Context, name, value string) error {
	if r.values == nil {
		r.values = map[string]string{}
	}
	r.values[name] = value
	return nil
}

type testCache struct{}

func (testCache) Get(ctx context.Context, name string) (string, bool, error) { return "", false, nil }
func (testCache) Set(ctx context.Context, name, value string) error          { return nil }
func (testCache) Invalidate(ctx context.Context, name string) error          { return nil }

func newTestRouter(store *testStore, settings *testSettings) *gin.Engine {
	gin.SetMode(gin.TestMode)

	provider := testProvider{store: store}
	programmes := &testProgrammes{byPath: map[string]*domain.Programme{
		"audio/linked.mp3": {ID: 1, Title: "Linked", StoragePath: "audio/linked.mp3"},
	}}
	authorizer := auth.NewAuthorizer(testAssignments{})
	recorder := audit.NewRecorder(testAudit{})

	paginator := storage.NewPaginator(provider)
	signer := storage.NewSigner(provider)
	builder := reconcile.NewBuilder(programmes, signer)
	engine := search.NewEngine(paginator, builder, programmes, "audio/")

	services := &Services{
		StorageService: service.NewStorageService(
			provider, paginator, signer, builder, engine,
			programmes, authorizer, recorder, "audio/", ".mp3",
		),
		ProgrammeService: service.NewProgrammeService(programmes, authorizer, recorder, signer),
		SettingsService:  service.NewSettingsService(settings, testCache{}, recorder),
	}
	return NewRouter(services, nil)
}

func doRequest(router *gin.Engine, method, target, actorID, role string, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if actorID != "" {
		req.Header.Set("X-Actor-ID", actorID)
	}
	if role != "" {
		req.Header.Set("X-Actor-Role", role)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRouterRequiresActorHeaders(t *testing.T) {
	router := newTestRouter(&testStore{}, &testSettings{})

	w := doRequest(router, http.MethodGet, "/api/v1/storage/list", "", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/storage/list", "not-a-number", "admin", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouterStorageDeniedToViewers(t *testing.T) {
	router := newTestRouter(&testStore{}, &testSettings{})

	w := doRequest(router, http.MethodGet, "/api/v1/storage/list", "2", "viewer", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRouterStorageList(t *testing.T) {
	store := &testStore{objects: []storage.Object{
		{Path: "audio/linked.mp3", Name: "linked.mp3", Size: 10},
		{Path: "audio/new.mp3", Name: "new.mp3", Size: 20},
	}}
	router := newTestRouter(store, &testSettings{})

	w := doRequest(router, http.MethodGet, "/api/v1/storage/list", "1", "admin", "")
	require.Equal(t, http.StatusOK, w.Code)

	var page struct {
		Items []struct {
			Path   string           `json:"path"`
			Linked *json.RawMessage `json:"linked"`
		} `json:"items"`
		NextPageToken string `json:"nextPageToken"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page.Items, 2)
	assert.Equal(t, "audio/new.mp3", page.Items[0].Path, "unlinked items come first")
	assert.Empty(t, page.NextPageToken)
}

func TestRouterStorageListRejectsBadLimit(t *testing.T) {
	router := newTestRouter(&testStore{}, &testSettings{})

	w := doRequest(router, http.MethodGet, "/api/v1/storage/list?limit=zero", "1", "admin", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouterSearchStreamsNDJSON(t *testing.T) {
	objects := make([]storage.Object, 0, 700)
	for i := 0; i < 700; i++ {
		name := "take.mp3"
		objects = append(objects, storage.Object{Path: "audio/" + name, Name: name})
	}
	router := newTestRouter(&testStore{objects: objects}, &testSettings{})

	w := doRequest(router, http.MethodGet, "/api/v1/storage/search?q=take", "1", "admin", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/x-ndjson", w.Header().Get("Content-Type"))

	var types []string
	scanner := bufio.NewScanner(w.Body)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	for scanner.Scan() {
		var line struct {
			Type string `json:"type"`
		}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line), "every line is standalone json")
		types = append(types, line.Type)
	}
	require.NoError(t, scanner.Err())

	require.NotEmpty(t, types)
	assert.Equal(t, "done", types[len(types)-1])
	for _, typ := range types[:len(types)-1] {
		assert.Equal(t, "progress", typ)
	}
}

func TestRouterSearchRequiresQuery(t *testing.T) {
	router := newTestRouter(&testStore{}, &testSettings{})

	w := doRequest(router, http.MethodGet, "/api/v1/storage/search?q=%20", "1", "admin", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouterStorageDisabledByToggle(t *testing.T) {
	settings := &testSettings{values: map[string]string{service.SettingStorageBrowserEnabled: "false"}}
	router := newTestRouter(&testStore{}, settings)

	for _, target := range []string{"/api/v1/storage/list", "/api/v1/storage/search?q=x", "/api/v1/storage/stats"} {
		w := doRequest(router, http.MethodGet, target, "1", "admin", "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code, target)
		assert.Contains(t, w.Body.String(), "disabled", target)
	}
}

func TestRouterUploadRequestURL(t *testing.T) {
	router := newTestRouter(&testStore{}, &testSettings{})

	body := `{"category_name":"news","subcategory_name":"brief","broadcasted_date":"2026-08-30"}`
	w := doRequest(router, http.MethodPost, "/api/v1/upload/request-url", "7", "programme_manager", body)
	require.Equal(t, http.StatusOK, w.Code)

	var ticket domain.UploadTicket
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ticket))
	assert.Contains(t, ticket.Path, "news_brief_2026-08-30_")
	assert.Equal(t, "https://store.test/"+ticket.Path, ticket.UploadURL)
}

func TestRouterUploadViewerForbidden(t *testing.T) {
	router := newTestRouter(&testStore{}, &testSettings{})

	body := `{"category_name":"news","subcategory_name":"brief","broadcasted_date":"2026-08-30"}`
	w := doRequest(router, http.MethodPost, "/api/v1/upload/request-url", "2", "viewer", body)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRouterUploadRequestURLValidation(t *testing.T) {
	router := newTestRouter(&testStore{}, &testSettings{})

	w := doRequest(router, http.MethodPost, "/api/v1/upload/request-url", "1", "admin", `{"category_name":"news"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouterUploadRejectsTraversalDate(t *testing.T) {
	router := newTestRouter(&testStore{}, &testSettings{})

	body := `{"category_name":"news","subcategory_name":"brief","broadcasted_date":"../../../secrets/production"}`
	w := doRequest(router, http.MethodPost, "/api/v1/upload/request-url", "7", "programme_manager", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_request")
}

func TestRouterDeleteObject(t *testing.T) {
	store := &testStore{}
	router := newTestRouter(store, &testSettings{})

	w := doRequest(router, http.MethodDelete, "/api/v1/upload?path=audio/stray.mp3", "1", "admin", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{"audio/stray.mp3"}, store.deleted)
}

func TestRouterSettingsAdminOnly(t *testing.T) {
	router := newTestRouter(&testStore{}, &testSettings{})

	w := doRequest(router, http.MethodPut, "/api/v1/settings/storage_browser_enabled", "7", "programme_manager", `{"value":"false"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(router, http.MethodPut, "/api/v1/settings/storage_browser_enabled", "1", "admin", `{"value":"false"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/settings/storage_browser_enabled", "2", "viewer", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"false"`)
}
