package store

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store used by tests and local development.
// Documents are kept as field maps keyed the same way the Firestore backend
// keys them, so repositories behave identically against either backend.
// Transactions take the store lock for their whole duration and buffer
// writes until the function returns, so a failed transaction leaves no
// partial effects.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]map[string]map[string]any
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]map[string]map[string]any)}
}

func (s *MemoryStore) Get(ctx context.Context, collection, id string, out any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(collection, id, out)
}

func (s *MemoryStore) Query(ctx context.Context, collection string, q Query) ([]Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query(collection, q)
}

func (s *MemoryStore) Set(ctx context.Context, collection, id string, data any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set(collection, id, data)
}

func (s *MemoryStore) Update(ctx context.Context, collection, id string, updates []Update) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.update(collection, id, updates)
}

func (s *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delete(collection, id)
	return nil
}

func (s *MemoryStore) RunTransaction(ctx context.Context, fn func(tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memoryTx{store: s}
	if err := fn(tx); err != nil {
		return err
	}
	for _, w := range tx.writes {
		if err := w(); err != nil {
			return err
		}
	}
	return nil
}

func (s *MemoryStore) Close() error { return nil }

// Unlocked primitives, callers hold s.mu.

func (s *MemoryStore) get(collection, id string, out any) error {
	coll, ok := s.data[collection]
	if !ok {
		return ErrNotFound
	}
	doc, ok := coll[id]
	if !ok {
		return ErrNotFound
	}
	return decodeDocument(doc, out)
}

func (s *MemoryStore) set(collection, id string, data any) error {
	doc, err := encodeDocument(data)
	if err != nil {
		return err
	}
	coll, ok := s.data[collection]
	if !ok {
		coll = make(map[string]map[string]any)
		s.data[collection] = coll
	}
	coll[id] = doc
	return nil
}

func (s *MemoryStore) update(collection, id string, updates []Update) error {
	coll, ok := s.data[collection]
	if !ok {
		return ErrNotFound
	}
	doc, ok := coll[id]
	if !ok {
		return ErrNotFound
	}
	for _, u := range updates {
		doc[u.Field] = u.Value
	}
	return nil
}

func (s *MemoryStore) delete(collection, id string) {
	if coll, ok := s.data[collection]; ok {
		delete(coll, id)
	}
}

func (s *MemoryStore) query(collection string, q Query) ([]Snapshot, error) {
	var snaps []Snapshot
	for id, doc := range s.data[collection] {
		match := true
		for _, f := range q.Filters {
			ok, err := matchFilter(doc[f.Field], f)
			if err != nil {
				return nil, err
			}
			if !ok {
				match = false
				break
			}
		}
		if match {
			snaps = append(snaps, memorySnapshot{id: id, doc: copyDocument(doc)})
		}
	}

	if q.OrderBy != "" {
		sort.Slice(snaps, func(i, j int) bool {
			a := snaps[i].(memorySnapshot).doc[q.OrderBy]
			b := snaps[j].(memorySnapshot).doc[q.OrderBy]
			less := compareValues(a, b) < 0
			if q.Desc {
				return !less
			}
			return less
		})
	} else {
		// Deterministic order for tests.
		sort.Slice(snaps, func(i, j int) bool {
			return snaps[i].ID() < snaps[j].ID()
		})
	}

	if q.Limit > 0 && len(snaps) > q.Limit {
		snaps = snaps[:q.Limit]
	}
	return snaps, nil
}

// memoryTx buffers writes and applies them when the transaction function
// returns nil. Reads observe the pre-transaction state, matching Firestore's
// reads-before-writes contract.
type memoryTx struct {
	store  *MemoryStore
	writes []func() error
}

func (t *memoryTx) Get(collection, id string, out any) error {
	return t.store.get(collection, id, out)
}

func (t *memoryTx) Query(collection string, q Query) ([]Snapshot, error) {
	return t.store.query(collection, q)
}

func (t *memoryTx) Set(collection, id string, data any) error {
	doc, err := encodeDocument(data)
	if err != nil {
		return err
	}
	t.writes = append(t.writes, func() error {
		coll, ok := t.store.data[collection]
		if !ok {
			coll = make(map[string]map[string]any)
			t.store.data[collection] = coll
		}
		coll[id] = doc
		return nil
	})
	return nil
}

func (t *memoryTx) Update(collection, id string, updates []Update) error {
	// Existence is checked eagerly so a transaction updating a missing
	// document fails before any buffered write is applied.
	coll, ok := t.store.data[collection]
	if !ok {
		return ErrNotFound
	}
	if _, ok := coll[id]; !ok {
		return ErrNotFound
	}
	t.writes = append(t.writes, func() error {
		return t.store.update(collection, id, updates)
	})
	return nil
}

func (t *memoryTx) Delete(collection, id string) error {
	t.writes = append(t.writes, func() error {
		t.store.delete(collection, id)
		return nil
	})
	return nil
}

type memorySnapshot struct {
	id  string
	doc map[string]any
}

func (s memorySnapshot) ID() string         { return s.id }
func (s memorySnapshot) DataTo(v any) error { return decodeDocument(s.doc, v) }

// encodeDocument flattens a struct (or *struct) into a field map keyed by
// the firestore struct tags, mirroring how the Firestore client persists it.
func encodeDocument(data any) (map[string]any, error) {
	v := reflect.ValueOf(data)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, fmt.Errorf("cannot store nil document")
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("cannot store %s document", v.Kind())
	}

	doc := make(map[string]any)
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name := firestoreFieldName(field)
		if name == "" {
			continue
		}
		doc[name] = copyValue(v.Field(i).Interface())
	}
	return doc, nil
}

// decodeDocument populates out (a *struct) from a field map.
func decodeDocument(doc map[string]any, out any) error {
	v := reflect.ValueOf(out)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return fmt.Errorf("decode target must be a non-nil pointer")
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("decode target must point to a struct")
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name := firestoreFieldName(field)
		if name == "" {
			continue
		}
		raw, ok := doc[name]
		if !ok || raw == nil {
			continue
		}
		if err := assignField(v.Field(i), raw); err != nil {
			return fmt.Errorf("field %s: %w", name, err)
		}
	}
	return nil
}

func firestoreFieldName(field reflect.StructField) string {
	tag := field.Tag.Get("firestore")
	if tag == "" {
		return field.Name
	}
	name := strings.Split(tag, ",")[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}
	return name
}

func assignField(dst reflect.Value, raw any) error {
	rv := reflect.ValueOf(raw)
	if rv.Type().AssignableTo(dst.Type()) {
		dst.Set(reflect.ValueOf(copyValue(raw)))
		return nil
	}
	if rv.Type().ConvertibleTo(dst.Type()) {
		dst.Set(rv.Convert(dst.Type()))
		return nil
	}
	// A value written through Update may land in a pointer field, e.g. a
	// time.Time update on a *time.Time column.
	if dst.Kind() == reflect.Pointer && rv.Type().AssignableTo(dst.Type().Elem()) {
		ptr := reflect.New(dst.Type().Elem())
		ptr.Elem().Set(rv)
		dst.Set(ptr)
		return nil
	}
	return fmt.Errorf("cannot assign %T", raw)
}

// copyValue deep-copies slices and maps so callers cannot mutate stored
// documents through retained references.
func copyValue(val any) any {
	switch v := val.(type) {
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out
	case map[string]string:
		out := make(map[string]string, len(v))
		for k, s := range v {
			out[k] = s
		}
		return out
	case *time.Time:
		if v == nil {
			return (*time.Time)(nil)
		}
		t := *v
		return &t
	default:
		return val
	}
}

func copyDocument(doc map[string]any) map[string]any {
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		out[k] = copyValue(v)
	}
	return out
}

func matchFilter(val any, f Filter) (bool, error) {
	switch f.Op {
	case "==":
		return compareValues(val, f.Value) == 0, nil
	case "!=":
		return compareValues(val, f.Value) != 0, nil
	case "<":
		return compareValues(val, f.Value) < 0, nil
	case "<=":
		return compareValues(val, f.Value) <= 0, nil
	case ">":
		return compareValues(val, f.Value) > 0, nil
	case ">=":
		return compareValues(val, f.Value) >= 0, nil
	case "array-contains":
		items, ok := val.([]string)
		want := fmt.Sprintf("%v", f.Value)
		if !ok {
			return false, nil
		}
		for _, item := range items {
			if item == want {
				return true, nil
			}
		}
		return false, nil
	default:
		return false, fmt.Errorf("unsupported filter op %q", f.Op)
	}
}

func compareValues(a, b any) int {
	if at, ok := a.(time.Time); ok {
		if bt, ok := b.(time.Time); ok {
			return at.Compare(bt)
		}
	}

	av := reflect.ValueOf(a)
	bv := reflect.ValueOf(b)
	if av.IsValid() && bv.IsValid() && av.CanInt() && bv.CanInt() {
		switch {
		case av.Int() < bv.Int():
			return -1
		case av.Int() > bv.Int():
			return 1
		default:
			return 0
		}
	}

	as := fmt.Sprintf("%v", a)
	bs := fmt.Sprintf("%v", b)
	return strings.Compare(as, bs)
}
