package storage

import "github.com/radiocast/backend-go/internal/config"

// Provider yields the backend tier to use for one call.
type Provider interface {
	Select() (ObjectStore, error)
}

// Selector picks the backend tier for each call. Selection is re-evaluated
// every time rather than cached process-wide, so credentials supplied or
// removed at runtime take effect on the next request without a restart.
type Selector struct {
	cfg config.StorageConfig
}

func NewSelector(cfg config.StorageConfig) *Selector {
	return &Selector{cfg: cfg}
}

// Select returns the privileged backend when its credentials are present,
// otherwise the public gateway. ErrNotConfigured when neither tier is usable.
func (s *Selector) Select() (ObjectStore, error) {
	if s.cfg.PrivilegedConfigured() {
		return NewMinioStore(s.cfg)
	}
	return NewGatewayStore(s.cfg)
}
