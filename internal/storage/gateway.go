package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/radiocast/backend-go/internal/config"
)

// GatewayStore is the restricted backend: a public object-listing gateway
// reachable with an api key only. It can list and serve tokened media URLs
// but cannot mint write capabilities or delete objects, so those operations
// report ErrNotConfigured and callers know to supply service credentials.
type GatewayStore struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	bucket     string
	audioExt   string
}

// NewGatewayStore builds the restricted backend.
func NewGatewayStore(cfg config.StorageConfig) (*GatewayStore, error) {
	if cfg.GatewayBaseURL == "" {
		return nil, ErrNotConfigured
	}
	return &GatewayStore{
		httpClient: &http.Client{Timeout: listTimeout},
		baseURL:    cfg.GatewayBaseURL,
		apiKey:     cfg.GatewayAPIKey,
		bucket:     cfg.Bucket,
		audioExt:   cfg.AudioExt,
	}, nil
}

func (s *GatewayStore) Mode() Mode { return ModeRestricted }

type gatewayListResponse struct {
	Items []struct {
		Name string `json:"name"`
		Size string `json:"size"`
	} `json:"items"`
	NextPageToken string `json:"nextPageToken"`
}

func (s *GatewayStore) ListPage(ctx context.Context, prefix string, pageSize int, cursor *Cursor) ([]Object, *Cursor, error) {
	if cursor != nil && cursor.Kind != ModeRestricted {
		return nil, nil, ErrCursorInvalid
	}

	q := url.Values{}
	q.Set("prefix", prefix)
	q.Set("maxResults", strconv.Itoa(pageSize))
	if s.apiKey != "" {
		q.Set("key", s.apiKey)
	}
	if cursor != nil {
		q.Set("pageToken", cursor.Value)
	}

	endpoint := fmt.Sprintf("%s/b/%s/o?%s", s.baseURL, url.PathEscape(s.bucket), q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("build gateway list request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("gateway list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("gateway list: unexpected status %d", resp.StatusCode)
	}

	var body gatewayListResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, nil, fmt.Errorf("decode gateway list response: %w", err)
	}

	objects := make([]Object, 0, len(body.Items))
	for _, item := range body.Items {
		if !hasAudioExt(item.Name, s.audioExt) {
			continue
		}
		size, _ := strconv.ParseInt(item.Size, 10, 64)
		objects = append(objects, Object{
			Path: item.Name,
			Name: Basename(item.Name),
			Size: size,
		})
	}

	if body.NextPageToken == "" {
		return objects, nil, nil
	}
	return objects, &Cursor{
		Kind:     ModeRestricted,
		Value:    body.NextPageToken,
		Prefix:   prefix,
		PageSize: pageSize,
	}, nil
}

// SignedURL serves tokened public media URLs for reads. The gateway holds no
// signing credentials, so write capabilities cannot be issued here.
func (s *GatewayStore) SignedURL(ctx context.Context, req SignRequest) (string, error) {
	if req.Action != SignRead {
		return "", fmt.Errorf("issue %s url: %w", req.Action, ErrNotConfigured)
	}
	q := url.Values{}
	q.Set("alt", "media")
	if s.apiKey != "" {
		q.Set("key", s.apiKey)
	}
	return fmt.Sprintf("%s/b/%s/o/%s?%s",
		s.baseURL, url.PathEscape(s.bucket), url.PathEscape(req.Path), q.Encode()), nil
}

// Get streams the object bytes through the tokened media URL.
func (s *GatewayStore) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	mediaURL, err := s.SignedURL(ctx, SignRequest{Path: path, Action: SignRead})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mediaURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build gateway get request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway get: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("gateway get: unexpected status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

func (s *GatewayStore) Put(ctx context.Context, path, contentType string, body io.Reader, size int64) error {
	return fmt.Errorf("put %s: %w", path, ErrNotConfigured)
}

func (s *GatewayStore) Delete(ctx context.Context, path string) error {
	return fmt.Errorf("delete %s: %w", path, ErrNotConfigured)
}

var _ ObjectStore = (*GatewayStore)(nil)
