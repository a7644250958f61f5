// Package store owns the record collection and mirrors it into a kv slot.
package store

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/theirongolddev/tally/internal/kv"
	"github.com/theirongolddev/tally/internal/log"
	"github.com/theirongolddev/tally/internal/model"
)

// Key is the slot key holding the serialized collection.
const Key = "records"

// ErrNotFound is returned when no record carries the requested id.
var ErrNotFound = errors.New("record not found")

// IDSource hands out candidate record ids.
type IDSource interface {
	Next() int64
}

type snowflakeIDs struct {
	node *snowflake.Node
}

func (s snowflakeIDs) Next() int64 { return s.node.Generate().Int64() }

// NewSnowflakeIDs returns an IDSource backed by a snowflake node.
func NewSnowflakeIDs(node int64) (IDSource, error) {
	n, err := snowflake.NewNode(node)
	if err != nil {
		return nil, fmt.Errorf("creating id node: %w", err)
	}
	return snowflakeIDs{node: n}, nil
}

// Options configures a Store.
type Options struct {
	// Categories restricts accepted labels. Empty accepts any non-empty one.
	Categories []string
	Logger     *log.Logger
	IDs        IDSource
}

// Store is the single owner of the record collection. Every mutation writes
// the full collection back to the slot before it returns. A Store is not
// safe for concurrent use.
type Store struct {
	slot       kv.Slot
	categories []string
	log        *log.Logger
	ids        IDSource

	records   []model.Record
	lastID    int64
	recovered bool
}

// New creates an empty Store over slot. Call Load to rehydrate it.
func New(slot kv.Slot, opts Options) (*Store, error) {
	s := &Store{
		slot:       slot,
		categories: opts.Categories,
		log:        opts.Logger,
		ids:        opts.IDs,
	}
	if s.log == nil {
		s.log = log.Nop()
	}
	s.log = s.log.WithComponent("store")
	if s.ids == nil {
		ids, err := NewSnowflakeIDs(1)
		if err != nil {
			return nil, err
		}
		s.ids = ids
	}
	return s, nil
}

// Open creates a Store over slot and loads it.
func Open(slot kv.Slot, opts Options) (*Store, error) {
	s, err := New(slot, opts)
	if err != nil {
		return nil, err
	}
	s.Load()
	return s, nil
}

// Load replaces the in-memory collection with the persisted one. It never
// fails: a missing key yields an empty collection, and an unreadable or
// corrupt payload yields an empty collection with Recovered set.
func (s *Store) Load() {
	s.records = nil
	s.recovered = false

	data, err := s.slot.Get(Key)
	if errors.Is(err, kv.ErrNotFound) {
		return
	}
	if err != nil {
		s.log.Warn("reading records failed, starting empty", "error", err)
		s.recovered = true
		return
	}

	records, stats, err := DecodeSnapshot(data)
	if err != nil {
		s.log.Warn("records payload is corrupt, starting empty", "error", err, "bytes", len(data))
		s.recovered = true
		return
	}
	if stats.Skipped > 0 || stats.BadPrice > 0 {
		s.log.Warn("repaired records payload",
			"skipped", stats.Skipped,
			"bad_price", stats.BadPrice,
		)
	}

	seen := make(map[int64]bool, len(records))
	for _, r := range records {
		if r.ID > s.lastID {
			s.lastID = r.ID
		}
	}
	reassigned := 0
	for i := range records {
		if records[i].ID == 0 || seen[records[i].ID] {
			records[i].ID = s.nextID(seen)
			reassigned++
		}
		seen[records[i].ID] = true
	}

	s.records = records
	s.log.Debug("loaded records", "count", len(records))

	// Fresh ids only stay stable across processes once they are stored.
	if reassigned > 0 {
		if err := s.persist(); err != nil {
			s.log.Warn("storing assigned ids failed", "count", reassigned, "error", err)
			return
		}
		s.log.Info("assigned ids to records without one", "count", reassigned)
	}
}

// Recovered reports whether the last Load discarded an unreadable payload.
func (s *Store) Recovered() bool { return s.recovered }

// Len returns the number of records.
func (s *Store) Len() int { return len(s.records) }

// Categories returns the accepted category labels.
func (s *Store) Categories() []string { return s.categories }

// List returns a copy of the collection in insertion order.
func (s *Store) List() []model.Record {
	out := make([]model.Record, len(s.records))
	copy(out, s.records)
	return out
}

// Get returns the record with id.
func (s *Store) Get(id int64) (model.Record, error) {
	i := s.index(id)
	if i < 0 {
		return model.Record{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return s.records[i], nil
}

// Add validates d, assigns it a fresh id, appends it and persists.
func (s *Store) Add(d model.Draft) (model.Record, error) {
	if err := d.Validate(s.categories); err != nil {
		return model.Record{}, err
	}

	prevLast := s.lastID
	r := d.WithID(s.nextID(s.liveIDs()))
	prev := s.records
	s.records = append(s.List(), r)

	if err := s.persist(); err != nil {
		s.records = prev
		s.lastID = prevLast
		return model.Record{}, err
	}
	s.log.Debug("added record", "id", r.ID, "category", r.Category)
	return r, nil
}

// Update replaces the fields of the record with id, keeping its id and
// position. A record may keep a category outside the accepted set that it
// already carries.
func (s *Store) Update(id int64, d model.Draft) (model.Record, error) {
	i := s.index(id)
	if i < 0 {
		if err := d.Validate(s.categories); err != nil {
			return model.Record{}, err
		}
		return model.Record{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if err := d.Validate(model.AllowCategory(s.categories, s.records[i].Category)); err != nil {
		return model.Record{}, err
	}

	prev := s.records
	next := s.List()
	next[i] = d.WithID(id)
	s.records = next

	if err := s.persist(); err != nil {
		s.records = prev
		return model.Record{}, err
	}
	s.log.Debug("updated record", "id", id)
	return next[i], nil
}

// Delete removes the record with id. An absent id is a no-op. It reports
// whether a record was removed.
func (s *Store) Delete(id int64) (bool, error) {
	i := s.index(id)
	if i < 0 {
		return false, nil
	}

	prev := s.records
	next := make([]model.Record, 0, len(s.records)-1)
	next = append(next, s.records[:i]...)
	next = append(next, s.records[i+1:]...)
	s.records = next

	if err := s.persist(); err != nil {
		s.records = prev
		return false, err
	}
	s.log.Debug("deleted record", "id", id)
	return true, nil
}

// Clear empties the collection and removes the slot key.
func (s *Store) Clear() error {
	if err := s.slot.Delete(Key); err != nil {
		return fmt.Errorf("clearing records: %w", err)
	}
	n := len(s.records)
	s.records = nil
	s.log.Info("cleared records", "count", n)
	return nil
}

// Import appends every valid draft with a fresh id in a single write.
// Besides the accepted set, labels of the original application's dumps are
// taken as they are. Invalid drafts are skipped and counted.
func (s *Store) Import(drafts []model.Draft) (added []model.Record, skipped int, err error) {
	prev := s.records
	prevLast := s.lastID
	next := s.List()
	live := s.liveIDs()

	categories := s.categories
	if len(categories) > 0 {
		categories = append(append([]string(nil), categories...), model.LegacyCategories...)
	}

	for _, d := range drafts {
		d.Category = model.CanonicalCategory(d.Category)
		if err := d.Validate(categories); err != nil {
			s.log.Debug("skipping imported record", "error", err)
			skipped++
			continue
		}
		r := d.WithID(s.nextID(live))
		live[r.ID] = true
		next = append(next, r)
		added = append(added, r)
	}
	if len(added) == 0 {
		return nil, skipped, nil
	}

	s.records = next
	if err := s.persist(); err != nil {
		s.records = prev
		s.lastID = prevLast
		return nil, 0, err
	}
	s.log.Info("imported records", "added", len(added), "skipped", skipped)
	return added, skipped, nil
}

func (s *Store) persist() error {
	data, err := EncodeSnapshot(s.records)
	if err != nil {
		return fmt.Errorf("encoding records: %w", err)
	}
	if err := s.slot.Put(Key, data); err != nil {
		return fmt.Errorf("writing records: %w", err)
	}
	return nil
}

func (s *Store) index(id int64) int {
	for i, r := range s.records {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) liveIDs() map[int64]bool {
	live := make(map[int64]bool, len(s.records))
	for _, r := range s.records {
		live[r.ID] = true
	}
	return live
}

// nextID returns an id above every id issued so far that is not in live.
func (s *Store) nextID(live map[int64]bool) int64 {
	id := s.ids.Next()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	for live[id] {
		id++
	}
	s.lastID = id
	return id
}
