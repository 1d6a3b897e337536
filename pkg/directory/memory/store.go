// Package memory provides an in-memory document store. It is the test
// double for every repository test and the demo fallback mode when no
// database is configured. It is safe for concurrent use and injected
// like any other backend.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/platinummonkey/warden/pkg/directory"
)

// Store keeps documents per collection under a single RWMutex. Find holds
// the read lock for both the page and the total, so the two always reflect
// the same snapshot.
type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string]directory.Document
}

// NewStore creates an empty in-memory store with all collections ready
func NewStore() *Store {
	collections := make(map[string]map[string]directory.Document, len(directory.Collections))
	for _, name := range directory.Collections {
		collections[name] = make(map[string]directory.Document)
	}
	return &Store{collections: collections}
}

var _ directory.Store = (*Store)(nil)

// Insert stores a new document under the given id
func (s *Store) Insert(ctx context.Context, collection, id string, doc directory.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.collection(collection)
	if err != nil {
		return err
	}
	if _, exists := docs[id]; exists {
		return fmt.Errorf("duplicate id %s in %s", id, collection)
	}
	docs[id] = cloneDocument(doc)
	return nil
}

// FindByID returns a copy of the document with the given id
func (s *Store) FindByID(ctx context.Context, collection, id string) (directory.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs, err := s.collection(collection)
	if err != nil {
		return nil, err
	}
	doc, ok := docs[id]
	if !ok {
		return nil, directory.ErrNotFound
	}
	return cloneDocument(doc), nil
}

// Find filters, sorts, and pages the collection, returning the page and
// the total match count from the same locked read.
func (s *Store) Find(ctx context.Context, collection string, q directory.Query) ([]directory.Document, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs, err := s.collection(collection)
	if err != nil {
		return nil, 0, err
	}

	matched := make([]directory.Document, 0, len(docs))
	for _, doc := range docs {
		if matchesFilter(doc, q.Filter) {
			matched = append(matched, doc)
		}
	}
	total := len(matched)

	if q.SortField != "" {
		sortDocuments(matched, q.SortField, q.SortDesc)
	}

	start := q.Skip
	if start > len(matched) {
		start = len(matched)
	}
	end := len(matched)
	if q.Limit > 0 && start+q.Limit < end {
		end = start + q.Limit
	}

	page := make([]directory.Document, 0, end-start)
	for _, doc := range matched[start:end] {
		page = append(page, cloneDocument(doc))
	}
	return page, total, nil
}

// Replace overwrites the document with the given id
func (s *Store) Replace(ctx context.Context, collection, id string, doc directory.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.collection(collection)
	if err != nil {
		return err
	}
	if _, ok := docs[id]; !ok {
		return directory.ErrNotFound
	}
	docs[id] = cloneDocument(doc)
	return nil
}

// Delete removes the document, returning its prior state
func (s *Store) Delete(ctx context.Context, collection, id string) (directory.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.collection(collection)
	if err != nil {
		return nil, err
	}
	doc, ok := docs[id]
	if !ok {
		return nil, directory.ErrNotFound
	}
	delete(docs, id)
	return doc, nil
}

// Ping always succeeds for the in-memory backend
func (s *Store) Ping(ctx context.Context) error {
	return nil
}

// collection must be called with the lock held
func (s *Store) collection(name string) (map[string]directory.Document, error) {
	docs, ok := s.collections[name]
	if !ok {
		return nil, fmt.Errorf("unknown collection: %s", name)
	}
	return docs, nil
}

// matchesFilter applies the exact-match conjunction over top-level fields
func matchesFilter(doc directory.Document, filter map[string]string) bool {
	for field, want := range filter {
		got, _ := doc[field].(string)
		if got != want {
			return false
		}
	}
	return true
}

// sortDocuments orders by the string value of the sort field. Timestamps
// use a fixed-width layout, so string order matches time order. Ties break
// on id to keep pagination stable.
func sortDocuments(docs []directory.Document, field string, desc bool) {
	sort.SliceStable(docs, func(i, j int) bool {
		a, _ := docs[i][field].(string)
		b, _ := docs[j][field].(string)
		if a == b {
			ai, _ := docs[i]["id"].(string)
			bi, _ := docs[j]["id"].(string)
			return ai < bi
		}
		if desc {
			return a > b
		}
		return a < b
	})
}

// cloneDocument deep-copies via JSON so callers can never mutate stored
// state through a returned map.
func cloneDocument(doc directory.Document) directory.Document {
	raw, err := json.Marshal(doc)
	if err != nil {
		out := directory.Document{}
		for k, v := range doc {
			out[k] = v
		}
		return out
	}
	var out directory.Document
	if err := json.Unmarshal(raw, &out); err != nil {
		return doc
	}
	return out
}
