package storage

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// memStore is an in-memory ObjectStore used by the pagination and signer
// tests. Its native cursor is the index of the next object, which is as
// opaque to callers as the real backends' shapes.
type memStore struct {
	mode     Mode
	objects  []Object
	listErr  error
	lastSign SignRequest
	deleted  []string
}

func newMemStore(mode Mode, count int) *memStore {
	s := &memStore{mode: mode}
	for i := 0; i < count; i++ {
		path := fmt.Sprintf("audio/take_%05d.mp3", i)
		s.objects = append(s.objects, Object{Path: path, Name: Basename(path), Size: int64(i)})
	}
	return s
}

func (m *memStore) Mode() Mode { return m.mode }

func (m *memStore) ListPage(ctx context.Context, prefix string, pageSize int, cursor *Cursor) ([]Object, *Cursor, error) {
	if m.listErr != nil {
		return nil, nil, m.listErr
	}
	if cursor != nil && cursor.Kind != m.mode {
		return nil, nil, ErrCursorInvalid
	}

	matching := make([]Object, 0, len(m.objects))
	for _, obj := range m.objects {
		if strings.HasPrefix(obj.Path, prefix) {
			matching = append(matching, obj)
		}
	}

	start := 0
	if cursor != nil {
		start, _ = strconv.Atoi(cursor.Value)
	}
	if start >= len(matching) {
		return nil, nil, nil
	}

	end := start + pageSize
	if end > len(matching) {
		end = len(matching)
	}

	page := matching[start:end]
	if end == len(matching) {
		return page, nil, nil
	}
	return page, &Cursor{Kind: m.mode, Value: strconv.Itoa(end), Prefix: prefix, PageSize: pageSize}, nil
}

func (m *memStore) SignedURL(ctx context.Context, req SignRequest) (string, error) {
	m.lastSign = req
	return fmt.Sprintf("https://store.test/%s?action=%s", req.Path, req.Action), nil
}

func (m *memStore) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("audio-bytes")), nil
}

func (m *memStore) Put(ctx context.Context, path, contentType string, body io.Reader, size int64) error {
	return nil
}

func (m *memStore) Delete(ctx context.Context, path string) error {
	m.deleted = append(m.deleted, path)
	return nil
}

// noisyStore simulates a bucket dominated by non-audio keys: each page lists
// pageSize raw keys but surfaces only every audioEvery-th one, the way the
// real backends filter before returning. pages counts backend list calls.
type noisyStore struct {
	*memStore
	rawTotal   int
	audioEvery int
	pages      int
}

func newNoisyStore(mode Mode, rawTotal, audioEvery int) *noisyStore {
	return &noisyStore{memStore: &memStore{mode: mode}, rawTotal: rawTotal, audioEvery: audioEvery}
}

func (s *noisyStore) ListPage(ctx context.Context, prefix string, pageSize int, cursor *Cursor) ([]Object, *Cursor, error) {
	if cursor != nil && cursor.Kind != s.mode {
		return nil, nil, ErrCursorInvalid
	}
	s.pages++

	start := 0
	if cursor != nil {
		start, _ = strconv.Atoi(cursor.Value)
	}
	if start >= s.rawTotal {
		return nil, nil, nil
	}
	end := start + pageSize
	if end > s.rawTotal {
		end = s.rawTotal
	}

	var objects []Object
	for i := start; i < end; i++ {
		if i%s.audioEvery != 0 {
			continue
		}
		path := fmt.Sprintf("%stake_%06d.mp3", prefix, i)
		objects = append(objects, Object{Path: path, Name: Basename(path), Size: int64(i)})
	}
	if end == s.rawTotal {
		return objects, nil, nil
	}
	return objects, &Cursor{Kind: s.mode, Value: strconv.Itoa(end), Prefix: prefix, PageSize: pageSize}, nil
}

// fixedProvider always yields the same store.
type fixedProvider struct {
	store ObjectStore
	err   error
}

func (p fixedProvider) Select() (ObjectStore, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.store, nil
}
