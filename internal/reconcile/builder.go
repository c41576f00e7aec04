// backend-go/internal/reconcile/builder.go
package reconcile

import (
	"context"
	"fmt"
	"sort"

	"github.com/radiocast/backend-go/internal/domain"
	"github.com/radiocast/backend-go/internal/repository"
	"github.com/radiocast/backend-go/internal/storage"
)

// Builder joins a batch of storage objects with their catalog rows and
// attaches a preview read URL per item. Read-only; nothing is persisted.
type Builder struct {
	programmes repository.ProgrammeRepository
	signer     *storage.Signer
}

func NewBuilder(programmes repository.ProgrammeRepository, signer *storage.Signer) *Builder {
	return &Builder{programmes: programmes, signer: signer}
}

// Build reconciles one batch. The catalog is queried once for the whole
// batch, then each object is classified linked/unlinked. Unlinked items sort
// first so an operator reviewing a page sees unprocessed uploads at the top;
// path is the tiebreaker to keep ordering deterministic.
func (b *Builder) Build(ctx context.Context, objects []storage.Object) ([]domain.ReconciledItem, error) {
	if len(objects) == 0 {
		return []domain.ReconciledItem{}, nil
	}

	paths := make([]string, len(objects))
	for i, obj := range objects {
		paths[i] = obj.Path
	}

	linked, err := b.programmes.ByStoragePaths(ctx, paths)
	if err != nil {
		return nil, fmt.Errorf("resolve catalog entries: %w", err)
	}

	items := make([]domain.ReconciledItem, 0, len(objects))
	for _, obj := range objects {
		item := domain.ReconciledItem{
			Path:   obj.Path,
			Name:   obj.Name,
			Size:   obj.Size,
			Linked: linked[obj.Path],
		}
		url, err := b.signer.PreviewURL(ctx, obj.Path)
		if err != nil {
			return nil, fmt.Errorf("issue preview url for %s: %w", obj.Path, err)
		}
		item.ReadURL = url
		items = append(items, item)
	}

	SortUnlinkedFirst(items)
	return items, nil
}

// SortUnlinkedFirst orders unpublished items before published ones, with a
// secondary sort by path.
func SortUnlinkedFirst(items []domain.ReconciledItem) {
	sort.SliceStable(items, func(i, j int) bool {
		li, lj := items[i].Linked != nil, items[j].Linked != nil
		if li != lj {
			return !li
		}
		return items[i].Path < items[j].Path
	})
}
