package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/platinummonkey/warden/pkg/auth"
	"github.com/platinummonkey/warden/pkg/observability"
)

// Service exposes the entity repositories. One Service instance serves all
// six entity types; the per-entity descriptor drives the differences.
type Service struct {
	store   Store
	metrics *observability.Metrics
}

// NewService creates a Service over the given document store. Metrics may
// be nil.
func NewService(store Store, metrics *observability.Metrics) *Service {
	return &Service{store: store, metrics: metrics}
}

// Store returns the underlying document store
func (s *Service) Store() Store {
	return s.store
}

// List returns one page of documents matching the query, with relations
// expanded, plus the total match count computed from the same filter.
func (s *Service) List(ctx context.Context, resource string, q ListQuery) ([]Document, int, error) {
	spec, err := lookupSpec(resource)
	if err != nil {
		return nil, 0, err
	}

	docs, total, err := s.store.Find(ctx, spec.collection, Query{
		Filter:    q.Filter,
		SortField: q.SortField,
		SortDesc:  q.SortDesc,
		Skip:      q.Offset(),
		Limit:     q.Limit,
	})
	if err != nil {
		s.countError(spec.collection, "list")
		return nil, 0, fmt.Errorf("list %s: %w", spec.collection, err)
	}

	out := make([]Document, 0, len(docs))
	for _, doc := range docs {
		expanded, err := s.expand(ctx, spec, doc)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, expanded)
	}

	s.count(spec.collection, "list")
	return out, total, nil
}

// Create validates, stamps, and persists a new document, returning the
// persisted form with relations expanded.
func (s *Service) Create(ctx context.Context, resource string, body json.RawMessage) (Document, error) {
	spec, err := lookupSpec(resource)
	if err != nil {
		return nil, err
	}

	doc, err := decodeDocument(body)
	if err != nil {
		return nil, err
	}
	stripServerFields(doc)

	if err := s.normalizeRefs(ctx, spec, doc); err != nil {
		return nil, err
	}
	if err := validateRequired(spec, doc); err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, spec, doc, ""); err != nil {
		return nil, err
	}

	if spec.passwordField {
		if err := s.hashPassword(doc, true); err != nil {
			return nil, err
		}
	}
	if spec.activeFlag {
		if _, ok := doc["active"]; !ok {
			doc["active"] = true
		}
	}

	id := uuid.NewString()
	now := FormatTime(time.Now())
	doc["id"] = id
	doc["created_at"] = now
	doc["updated_at"] = now

	if err := s.store.Insert(ctx, spec.collection, id, doc); err != nil {
		s.countError(spec.collection, "create")
		return nil, fmt.Errorf("create %s: %w", spec.collection, err)
	}

	s.count(spec.collection, "create")
	return s.expand(ctx, spec, doc)
}

// Get fetches a single document by id with relations expanded
func (s *Service) Get(ctx context.Context, resource, id string) (Document, error) {
	spec, err := lookupSpec(resource)
	if err != nil {
		return nil, err
	}

	doc, err := s.store.FindByID(ctx, spec.collection, id)
	if err != nil {
		return nil, err
	}

	s.count(spec.collection, "get")
	return s.expand(ctx, spec, doc)
}

// Update merges the provided fields onto the stored document, refreshes
// updated_at, and returns the updated form with relations expanded. The id
// and created_at never change. For users, an empty or absent password
// means "leave unchanged".
func (s *Service) Update(ctx context.Context, resource, id string, body json.RawMessage) (Document, error) {
	spec, err := lookupSpec(resource)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.FindByID(ctx, spec.collection, id)
	if err != nil {
		return nil, err
	}

	patch, err := decodeDocument(body)
	if err != nil {
		return nil, err
	}
	stripServerFields(patch)

	if err := s.normalizeRefs(ctx, spec, patch); err != nil {
		return nil, err
	}
	if spec.passwordField {
		if err := s.hashPassword(patch, false); err != nil {
			return nil, err
		}
	}

	merged := Document{}
	for k, v := range existing {
		merged[k] = v
	}
	for k, v := range patch {
		merged[k] = v
	}
	merged["updated_at"] = FormatTime(time.Now())

	if err := validateRequired(spec, merged); err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, spec, merged, id); err != nil {
		return nil, err
	}

	if err := s.store.Replace(ctx, spec.collection, id, merged); err != nil {
		s.countError(spec.collection, "update")
		return nil, err
	}

	s.count(spec.collection, "update")
	return s.expand(ctx, spec, merged)
}

// Delete permanently removes the document and returns its prior state.
// Deletes never cascade: documents referencing the removed one keep their
// now-dangling ids.
func (s *Service) Delete(ctx context.Context, resource, id string) (Document, error) {
	spec, err := lookupSpec(resource)
	if err != nil {
		return nil, err
	}

	doc, err := s.store.Delete(ctx, spec.collection, id)
	if err != nil {
		s.countError(spec.collection, "delete")
		return nil, err
	}

	s.count(spec.collection, "delete")
	return sanitize(spec, doc), nil
}

// decodeDocument parses a JSON object body
func decodeDocument(body json.RawMessage) (Document, error) {
	var doc Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, NewValidationError("body must be a JSON object")
	}
	if doc == nil {
		return nil, NewValidationError("body must be a JSON object")
	}
	return doc, nil
}

// stripServerFields drops the fields only the server may set
func stripServerFields(doc Document) {
	delete(doc, "id")
	delete(doc, "_id")
	delete(doc, "created_at")
	delete(doc, "updated_at")
}

// validateRequired checks required scalar fields are present non-empty strings
func validateRequired(spec entitySpec, doc Document) error {
	for _, field := range spec.required {
		v, ok := doc[field].(string)
		if !ok || v == "" {
			return NewValidationError("%s is required", field)
		}
	}
	for _, ref := range spec.refs {
		if !ref.required {
			continue
		}
		v, ok := doc[ref.field].(string)
		if !ok || v == "" {
			return NewValidationError("%s is required", ref.field)
		}
	}
	return nil
}

// normalizeRefs rewrites reference fields present in the document to bare
// id strings and verifies every referenced document exists. Writing a
// reference to a nonexistent document is a validation failure.
func (s *Service) normalizeRefs(ctx context.Context, spec entitySpec, doc Document) error {
	for _, ref := range spec.refs {
		raw, present := doc[ref.field]
		if !present || raw == nil {
			continue
		}

		if ref.multi {
			ids, err := normalizeRefList(ref.field, raw)
			if err != nil {
				return err
			}
			for _, id := range ids {
				if err := s.refExists(ctx, ref, id); err != nil {
					return err
				}
			}
			doc[ref.field] = ids
			continue
		}

		id, err := normalizeRefValue(ref.field, raw)
		if err != nil {
			return err
		}
		if id == "" {
			doc[ref.field] = nil
			continue
		}
		if err := s.refExists(ctx, ref, id); err != nil {
			return err
		}
		doc[ref.field] = id
	}
	return nil
}

// refExists verifies the referenced document is present in storage
func (s *Service) refExists(ctx context.Context, ref refSpec, id string) error {
	_, err := s.store.FindByID(ctx, ref.collection, id)
	if errors.Is(err, ErrNotFound) {
		return NewValidationError("%s %s does not exist", referenceNoun(ref), id)
	}
	return err
}

// referenceNoun renders a singular human-readable name for error messages
func referenceNoun(ref refSpec) string {
	switch ref.field {
	case "roles":
		return "role"
	case "privileges":
		return "privilege"
	default:
		return ref.field
	}
}

// normalizeRefValue accepts a bare id string or an {id: "..."} object
func normalizeRefValue(field string, raw interface{}) (string, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case map[string]interface{}:
		if id, ok := v["id"].(string); ok {
			return id, nil
		}
	}
	return "", NewValidationError("%s must be an id or an object with an id", field)
}

// normalizeRefList accepts an array of bare ids or {id} objects
func normalizeRefList(field string, raw interface{}) ([]string, error) {
	entries, ok := raw.([]interface{})
	if !ok {
		return nil, NewValidationError("%s must be an array of ids", field)
	}
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		id, err := normalizeRefValue(field, entry)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// checkUnique enforces uniqueness constraints, excluding the document
// itself on update.
func (s *Service) checkUnique(ctx context.Context, spec entitySpec, doc Document, selfID string) error {
	for _, field := range spec.unique {
		value, ok := doc[field].(string)
		if !ok || value == "" {
			continue
		}
		matches, _, err := s.store.Find(ctx, spec.collection, Query{
			Filter: map[string]string{field: value},
		})
		if err != nil {
			return err
		}
		for _, match := range matches {
			if id, _ := match["id"].(string); id != selfID {
				return NewValidationError("%s %q already exists", field, value)
			}
		}
	}
	return nil
}

// hashPassword replaces the plaintext password field with a bcrypt hash.
// On create the password is required; on update an empty or absent value
// leaves the stored hash untouched.
func (s *Service) hashPassword(doc Document, creating bool) error {
	raw, present := doc["password"]
	password, _ := raw.(string)
	if !present || password == "" {
		delete(doc, "password")
		if creating {
			return NewValidationError("password is required")
		}
		return nil
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	doc["password"] = hash
	return nil
}

// expand replaces reference ids with {id, name} projections and strips
// fields that never leave the server. A dangling reference (parent deleted
// after the fact) expands to its id with no name.
func (s *Service) expand(ctx context.Context, spec entitySpec, doc Document) (Document, error) {
	out := sanitize(spec, doc)

	for _, ref := range spec.refs {
		raw, present := out[ref.field]
		if !present || raw == nil {
			continue
		}

		if ref.multi {
			ids, ok := raw.([]string)
			if !ok {
				ids = toStringSlice(raw)
			}
			projections := make([]Document, 0, len(ids))
			for _, id := range ids {
				projections = append(projections, s.project(ctx, ref.collection, id))
			}
			out[ref.field] = projections
			continue
		}

		id, ok := raw.(string)
		if !ok || id == "" {
			continue
		}
		out[ref.field] = s.project(ctx, ref.collection, id)
	}

	return out, nil
}

// project builds the {id, name} view of a referenced document
func (s *Service) project(ctx context.Context, collection, id string) Document {
	ref, err := s.store.FindByID(ctx, collection, id)
	if err != nil {
		return Document{"id": id}
	}
	name, _ := ref["name"].(string)
	return Document{"id": id, "name": name}
}

// sanitize copies the document, dropping fields that must not be returned
func sanitize(spec entitySpec, doc Document) Document {
	out := Document{}
	for k, v := range doc {
		out[k] = v
	}
	if spec.passwordField {
		delete(out, "password")
	}
	return out
}

// toStringSlice coerces a decoded JSON array into string ids
func toStringSlice(raw interface{}) []string {
	entries, ok := raw.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		if s, ok := entry.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func (s *Service) count(collection, op string) {
	if s.metrics != nil {
		s.metrics.DirectoryOperationsTotal.WithLabelValues(collection, op).Inc()
	}
}

func (s *Service) countError(collection, op string) {
	if s.metrics != nil {
		s.metrics.DirectoryErrorsTotal.WithLabelValues(collection, op).Inc()
	}
}
