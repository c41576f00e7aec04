// backend-go/internal/search/engine.go
package search

import (
	"context"
	"strings"

	"github.com/radiocast/backend-go/internal/domain"
	"github.com/radiocast/backend-go/internal/reconcile"
	"github.com/radiocast/backend-go/internal/repository"
	"github.com/radiocast/backend-go/internal/storage"
)

// Event is one line of the streamed search response. Exactly one terminal
// event (Done or Failure) ends every stream.
type Event interface {
	eventType() string
}

// Progress is emitted after each drained batch. Scanned and Found are
// monotonically non-decreasing within one stream; Percent stays below 100
// until the drain finishes, when a last progress line reports exactly 100.
type Progress struct {
	Type    string `json:"type"`
	Scanned int    `json:"scanned"`
	Found   int    `json:"found"`
	Percent int    `json:"percent"`
}

// Done is the terminal success event, carrying every match fully reconciled
// and sorted unlinked-first.
type Done struct {
	Type         string                  `json:"type"`
	Items        []domain.ReconciledItem `json:"items"`
	TotalScanned int                     `json:"totalScanned"`
	TotalFound   int                     `json:"totalFound"`
	Truncated    bool                    `json:"truncated,omitempty"`
}

// Failure is the terminal error event. Progress already sent is not
// retracted; the client discards it on sight of this line.
type Failure struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

func (Progress) eventType() string { return "progress" }
func (Done) eventType() string     { return "done" }
func (Failure) eventType() string  { return "error" }

// Engine runs full-corpus streaming searches: one drain through the
// pagination engine, matching by filename substring or by the storage paths
// of title matches resolved up front.
type Engine struct {
	paginator  *storage.Paginator
	builder    *reconcile.Builder
	programmes repository.ProgrammeRepository
	prefix     string
}

func NewEngine(paginator *storage.Paginator, builder *reconcile.Builder, programmes repository.ProgrammeRepository, prefix string) *Engine {
	return &Engine{
		paginator:  paginator,
		builder:    builder,
		programmes: programmes,
		prefix:     prefix,
	}
}

// Run starts a search and returns its event stream. The producer writes to a
// bounded channel and checks ctx at every batch boundary, so a consumer that
// disconnects stops the drain cooperatively instead of letting it run the
// whole corpus server-side. The channel is closed after the terminal event.
func (e *Engine) Run(ctx context.Context, query string) <-chan Event {
	events := make(chan Event, 8)
	go e.run(ctx, query, events)
	return events
}

func (e *Engine) run(ctx context.Context, query string, events chan<- Event) {
	defer close(events)

	// The relational title search is cheap next to the storage drain, so
	// the title-match path set is resolved once before scanning begins.
	titlePaths, err := e.programmes.TitleMatchPaths(ctx, query)
	if err != nil {
		e.emit(ctx, events, Failure{Type: "error", Reason: err.Error()})
		return
	}
	titleSet := make(map[string]struct{}, len(titlePaths))
	for _, p := range titlePaths {
		titleSet[p] = struct{}{}
	}

	needle := strings.ToLower(query)
	var (
		matches []storage.Object
		scanned int
	)

	result, err := e.paginator.Drain(ctx, e.prefix, func(batch []storage.Object) error {
		for _, obj := range batch {
			if e.matches(obj, needle, titleSet) {
				matches = append(matches, obj)
			}
		}
		scanned += len(batch)
		if !e.emit(ctx, events, Progress{
			Type:    "progress",
			Scanned: scanned,
			Found:   len(matches),
			Percent: progressPercent(scanned),
		}) {
			return ctx.Err()
		}
		return nil
	})
	if err != nil {
		e.emit(ctx, events, Failure{Type: "error", Reason: err.Error()})
		return
	}

	// The drain is over; one last progress line reports the final totals at
	// exactly 100 before the terminal event.
	if !e.emit(ctx, events, Progress{
		Type:    "progress",
		Scanned: result.Scanned,
		Found:   len(matches),
		Percent: 100,
	}) {
		return
	}

	items, err := e.builder.Build(ctx, matches)
	if err != nil {
		e.emit(ctx, events, Failure{Type: "error", Reason: err.Error()})
		return
	}

	e.emit(ctx, events, Done{
		Type:         "done",
		Items:        items,
		TotalScanned: result.Scanned,
		TotalFound:   len(items),
		Truncated:    result.Truncated,
	})
}

// matches applies the search rule: filename substring, case-insensitive, or
// a storage path whose programme title matched the query.
func (e *Engine) matches(obj storage.Object, needle string, titleSet map[string]struct{}) bool {
	if strings.Contains(strings.ToLower(obj.Name), needle) {
		return true
	}
	_, ok := titleSet[obj.Path]
	return ok
}

// emit delivers one event unless the consumer is gone.
func (e *Engine) emit(ctx context.Context, events chan<- Event, ev Event) bool {
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// progressPercent estimates completion without knowing the corpus size. It
// rises monotonically with the scan and never reaches 100; the exact 100 is
// reserved for the final line emitted after the drain.
func progressPercent(scanned int) int {
	pct := scanned * 100 / (scanned + 500)
	if pct > 99 {
		pct = 99
	}
	return pct
}
