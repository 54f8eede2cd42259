package admin

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Property describes one field of a resource's records.
type Property struct {
	Name string
	// Type is one of "string", "number", "boolean", "text", "datetime", "file".
	Type string
	IsID bool
}

// Record is one row of a resource, keyed by property name.
type Record map[string]any

// ID returns the record's "id" value as a string.
func (r Record) ID() string {
	if r == nil {
		return ""
	}
	if v, ok := r["id"]; ok && v != nil {
		return fmt.Sprint(v)
	}
	return ""
}

// ListQuery selects a page of records. Filters match case-insensitive
// substrings of the property's string form.
type ListQuery struct {
	Filters map[string]string
	Page    int
	PerPage int
}

// Resource is a collection the panel can browse and edit.
type Resource interface {
	ID() string
	Name() string
	Properties() []Property
	List(ctx context.Context, q ListQuery) ([]Record, error)
	Count(ctx context.Context, filters map[string]string) (int, error)
	Find(ctx context.Context, id string) (Record, error)
	Create(ctx context.Context, params map[string]any) (Record, error)
	Update(ctx context.Context, id string, params map[string]any) (Record, error)
	Delete(ctx context.Context, id string) error
}

const defaultPerPage = 10

func (q ListQuery) normalize() ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = defaultPerPage
	}
	return q
}

// titleProperty is the first non-id string property, used for search.
func titleProperty(r Resource) string {
	for _, p := range r.Properties() {
		if !p.IsID && (p.Type == "string" || p.Type == "") {
			return p.Name
		}
	}
	return "id"
}

// MemoryResource keeps records in memory. Safe for concurrent use.
type MemoryResource struct {
	id         string
	name       string
	properties []Property

	mu      sync.RWMutex
	records map[string]Record
	order   []string
}

// NewMemoryResource builds a resource with the given properties; an "id"
// property is added when missing.
func NewMemoryResource(id, name string, properties ...Property) *MemoryResource {
	hasID := false
	for _, p := range properties {
		if p.IsID {
			hasID = true
		}
	}
	if !hasID {
		properties = append([]Property{{Name: "id", Type: "string", IsID: true}}, properties...)
	}
	return &MemoryResource{
		id:         id,
		name:       name,
		properties: properties,
		records:    make(map[string]Record),
	}
}

func (m *MemoryResource) ID() string             { return m.id }
func (m *MemoryResource) Name() string           { return m.name }
func (m *MemoryResource) Properties() []Property { return m.properties }

func (m *MemoryResource) List(_ context.Context, q ListQuery) ([]Record, error) {
	q = q.normalize()
	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := m.filter(q.Filters)
	start := (q.Page - 1) * q.PerPage
	if start >= len(matched) {
		return []Record{}, nil
	}
	end := start + q.PerPage
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], nil
}

func (m *MemoryResource) Count(_ context.Context, filters map[string]string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.filter(filters)), nil
}

func (m *MemoryResource) filter(filters map[string]string) []Record {
	out := make([]Record, 0, len(m.order))
	for _, id := range m.order {
		rec := m.records[id]
		if matches(rec, filters) {
			out = append(out, copyRecord(rec))
		}
	}
	return out
}

func matches(rec Record, filters map[string]string) bool {
	for key, want := range filters {
		if want == "" {
			continue
		}
		got, ok := rec[key]
		if !ok || !strings.Contains(strings.ToLower(fmt.Sprint(got)), strings.ToLower(want)) {
			return false
		}
	}
	return true
}

func (m *MemoryResource) Find(_ context.Context, id string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[id]
	if !ok {
		return nil, fmt.Errorf("%s %q: %w", m.id, id, ErrNotFound)
	}
	return copyRecord(rec), nil
}

func (m *MemoryResource) Create(_ context.Context, params map[string]any) (Record, error) {
	rec := m.permitted(params)
	id := rec.ID()
	if id == "" {
		id = uuid.NewString()
	}
	rec["id"] = id

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.records[id]; exists {
		return nil, fmt.Errorf("%s %q already exists", m.id, id)
	}
	m.records[id] = rec
	m.order = append(m.order, id)
	return copyRecord(rec), nil
}

func (m *MemoryResource) Update(_ context.Context, id string, params map[string]any) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok {
		return nil, fmt.Errorf("%s %q: %w", m.id, id, ErrNotFound)
	}
	for k, v := range m.permitted(params) {
		if k == "id" {
			continue
		}
		rec[k] = v
	}
	return copyRecord(rec), nil
}

func (m *MemoryResource) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		return fmt.Errorf("%s %q: %w", m.id, id, ErrNotFound)
	}
	delete(m.records, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// permitted keeps only declared properties.
func (m *MemoryResource) permitted(params map[string]any) Record {
	rec := make(Record, len(m.properties))
	for _, p := range m.properties {
		if v, ok := params[p.Name]; ok {
			rec[p.Name] = v
		}
	}
	return rec
}

func copyRecord(rec Record) Record {
	out := make(Record, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	return out
}

// sortedKeys returns map keys in lexical order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
