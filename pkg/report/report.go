// Package report provides persistence for batch render reports.
//
// A report summarizes one render run: which propositions rendered, which
// failed, and the timing involved. The server exposes reports over the API;
// storage backends exist for both deployment shapes:
//   - memory: In-memory storage for development/testing
//   - mongo: MongoDB-backed storage for production deployments
//
// # Usage
//
// Create a store and record a run:
//
//	// Development
//	store := report.NewMemoryStore()
//
//	// Production
//	store, err := report.NewMongoStore(ctx, "mongodb://localhost:27017", "heapviz")
//
//	rep := report.New("linked-list.json", batch)
//	if err := store.Put(ctx, rep); err != nil {
//	    return err
//	}
package report

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/heapviz/heapviz/pkg/pipeline"
)

// Sentinel errors for report operations.
var (
	// ErrNotFound is returned when a report does not exist.
	ErrNotFound = errors.New("not found")
)

// Entry summarizes one rendered proposition within a run.
type Entry struct {
	Label     string `json:"label" bson:"label"`
	PropHash  string `json:"prop_hash" bson:"prop_hash"`
	NodeCount int    `json:"node_count" bson:"node_count"`
	EdgeCount int    `json:"edge_count" bson:"edge_count"`
	CacheHit  bool   `json:"cache_hit" bson:"cache_hit"`
}

// Report records the outcome of one batch render run.
type Report struct {
	ID        string                  `json:"id" bson:"_id"`
	Source    string                  `json:"source" bson:"source"`
	Entries   []Entry                 `json:"entries" bson:"entries"`
	Failures  []pipeline.BatchFailure `json:"failures,omitempty" bson:"failures,omitempty"`
	CreatedAt time.Time               `json:"created_at" bson:"created_at"`
}

// Succeeded returns the number of rendered propositions.
func (r *Report) Succeeded() int { return len(r.Entries) }

// Failed returns the number of skipped propositions.
func (r *Report) Failed() int { return len(r.Failures) }

// New builds a report from a batch result. Source names the input, usually
// the imported file path or the API request id.
func New(source string, batch *pipeline.BatchResult) *Report {
	rep := &Report{
		ID:        uuid.NewString(),
		Source:    source,
		Failures:  batch.Failures,
		CreatedAt: time.Now().UTC(),
	}
	for _, res := range batch.Results {
		rep.Entries = append(rep.Entries, Entry{
			Label:     res.Label,
			PropHash:  res.PropHash,
			NodeCount: res.Stats.NodeCount,
			EdgeCount: res.Stats.EdgeCount,
			CacheHit:  res.CacheInfo.Hit,
		})
	}
	return rep
}

// Store is the interface for report storage backends.
type Store interface {
	// Get retrieves a report by ID. Returns ErrNotFound when absent.
	Get(ctx context.Context, id string) (*Report, error)

	// Put stores a report.
	Put(ctx context.Context, rep *Report) error

	// List returns reports newest first, at most limit entries. A limit of
	// zero or less means no bound.
	List(ctx context.Context, limit int) ([]*Report, error)

	// Delete removes a report. Deleting a missing report is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}
