package service

import (
	"context"
	"io"
	"strings"

	"github.com/radiocast/backend-go/internal/domain"
	"github.com/radiocast/backend-go/internal/repository"
	"github.com/radiocast/backend-go/internal/storage"
)

type fakeProgrammeRepo struct {
	byID       map[int64]*domain.Programme
	byPath     map[string]*domain.Programme
	published  int
	created    []*domain.Programme
	updated    []*domain.Programme
	deleted    []int64
	byIDCalls  int
	repoErr    error
	byPathsErr error
}

func (f *fakeProgrammeRepo) ByStoragePaths(ctx context.Context, paths []string) (map[string]*domain.Programme, error) {
	if f.byPathsErr != nil {
		return nil, f.byPathsErr
	}
	out := make(map[string]*domain.Programme)
	for _, p := range paths {
		if prog, ok := f.byPath[p]; ok {
			out[p] = prog
		}
	}
	return out, nil
}

func (f *fakeProgrammeRepo) TitleMatchPaths(ctx context.Context, q string) ([]string, error) {
	return nil, nil
}

func (f *fakeProgrammeRepo) ByID(ctx context.Context, id int64) (*domain.Programme, error) {
	f.byIDCalls++
	if f.repoErr != nil {
		return nil, f.repoErr
	}
	if p, ok := f.byID[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeProgrammeRepo) ByStoragePath(ctx context.Context, path string) (*domain.Programme, error) {
	if p, ok := f.byPath[path]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeProgrammeRepo) Create(ctx context.Context, p *domain.Programme) error {
	if f.repoErr != nil {
		return f.repoErr
	}
	f.created = append(f.created, p)
	return nil
}

func (f *fakeProgrammeRepo) Update(ctx context.Context, p *domain.Programme) error {
	if f.repoErr != nil {
		return f.repoErr
	}
	f.updated = append(f.updated, p)
	return nil
}

func (f *fakeProgrammeRepo) Delete(ctx context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeProgrammeRepo) CountPublished(ctx context.Context) (int, error) {
	return f.published, nil
}

type fakeAssignmentRepo struct {
	byUser map[int64][]domain.Assignment
}

func (f *fakeAssignmentRepo) ForUser(ctx context.Context, userID int64) ([]domain.Assignment, error) {
	return f.byUser[userID], nil
}

type fakeAuditRepo struct {
	events []domain.AuditEvent
}

func (f *fakeAuditRepo) Insert(ctx context.Context, event domain.AuditEvent) error {
	f.events = append(f.events, event)
	return nil
}

type fakeObjectStore struct {
	mode    storage.Mode
	objects []storage.Object
	signs   []storage.SignRequest
	deleted []string
	signErr error
	delErr  error
}

func (f *fakeObjectStore) Mode() storage.Mode { return f.mode }

func (f *fakeObjectStore) ListPage(ctx context.Context, prefix string, pageSize int, cursor *storage.Cursor) ([]storage.Object, *storage.Cursor, error) {
	if len(f.objects) <= pageSize {
		return f.objects, nil, nil
	}
	return f.objects[:pageSize], &storage.Cursor{Kind: f.mode, Value: "next", Prefix: prefix, PageSize: pageSize}, nil
}

func (f *fakeObjectStore) SignedURL(ctx context.Context, req storage.SignRequest) (string, error) {
	if f.signErr != nil {
		return "", f.signErr
	}
	f.signs = append(f.signs, req)
	return "https://store.test/" + req.Path, nil
}

func (f *fakeObjectStore) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("")), nil
}

func (f *fakeObjectStore) Put(ctx context.Context, path, contentType string, body io.Reader, size int64) error {
	return nil
}

func (f *fakeObjectStore) Delete(ctx context.Context, path string) error {
	if f.delErr != nil {
		return f.delErr
	}
	f.deleted = append(f.deleted, path)
	return nil
}

type fakeStoreProvider struct {
	store storage.ObjectStore
	err   error
}

func (f fakeStoreProvider) Select() (storage.ObjectStore, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.store, nil
}

type fakeSettingRepo struct {
	values map[string]string
	sets   []string
}

func (f *fakeSettingRepo) Get(ctx context.Context, name string) (string, error) {
	if v, ok := f.values[name]; ok {
		return v, nil
	}
	return "", repository.ErrNotFound
}

func (f *fakeSettingRepo) Set(ctx context.Context, name, value string) error {
	if f.values == nil {
		f.values = map[string]string{}
	}
	f.values[name] = value
	f.sets = append(f.sets, name)
	return nil
}

type fakeSettingsCache struct {
	values      map[string]string
	getErr      error
	invalidated []string
	writes      []string
}

func (f *fakeSettingsCache) Get(ctx context.Context, name string) (string, bool, error) {
	if f.getErr != nil {
		return "", false, f.getErr
	}
	v, ok := f.values[name]
	return v, ok, nil
}

func (f *fakeSettingsCache) Set(ctx context.Context, name, value string) error {
	if f.values == nil {
		f.values = map[string]string{}
	}
	f.values[name] = value
	f.writes = append(f.writes, name)
	return nil
}

func (f *fakeSettingsCache) Invalidate(ctx context.Context, name string) error {
	delete(f.values, name)
	f.invalidated = append(f.invalidated, name)
	return nil
}
