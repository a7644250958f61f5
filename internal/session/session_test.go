package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theirongolddev/tally/internal/kv"
	"github.com/theirongolddev/tally/internal/model"
	"github.com/theirongolddev/tally/internal/store"
)

type seqIDs struct{ n int64 }

func (s *seqIDs) Next() int64 {
	s.n++
	return s.n
}

var fixedToday = model.NewDate(2024, 2, 29)

func setup(t *testing.T) (*Session, *store.Store, *kv.MemorySlot) {
	t.Helper()
	mem := kv.NewMemory()
	st, err := store.Open(mem, store.Options{Categories: model.DefaultCategories, IDs: &seqIDs{}})
	require.NoError(t, err)
	s := New(st,
		WithCategories(model.DefaultCategories),
		WithToday(func() model.Date { return fixedToday }),
	)
	return s, st, mem
}

func TestNewSessionIsIdleWithDefaults(t *testing.T) {
	s, _, _ := setup(t)
	assert.Equal(t, Idle, s.State())
	assert.Zero(t, s.Target())
	assert.Equal(t, Values{Day: 29, Month: 2, Year: 2024}, s.Values())
}

func TestSaveIdleAddsAndResets(t *testing.T) {
	s, st, _ := setup(t)
	s.SetValues(Values{Day: 1, Month: 1, Year: 2024, Category: "Groceries", Price: "10,50", Note: " milk "})

	r, err := s.Save()
	require.NoError(t, err)
	assert.Equal(t, "10.5", r.Price.String())
	assert.Equal(t, "milk", r.Note)
	assert.Equal(t, 1, st.Len())

	assert.Equal(t, Idle, s.State())
	assert.Equal(t, DefaultValues(fixedToday), s.Values())
}

func TestEditThenSaveUpdates(t *testing.T) {
	s, st, _ := setup(t)
	s.SetValues(Values{Day: 1, Month: 1, Year: 2024, Category: "Fun", Price: "3"})
	first, err := s.Save()
	require.NoError(t, err)
	s.SetValues(Values{Day: 2, Month: 1, Year: 2024, Category: "Car", Price: "40"})
	second, err := s.Save()
	require.NoError(t, err)

	require.NoError(t, s.Edit(first.ID))
	assert.Equal(t, Editing, s.State())
	assert.Equal(t, first.ID, s.Target())
	assert.Equal(t, ValuesFor(first), s.Values())

	v := s.Values()
	v.Price = "4.25"
	v.Note = "cinema"
	s.SetValues(v)
	updated, err := s.Save()
	require.NoError(t, err)
	assert.Equal(t, first.ID, updated.ID)
	assert.Equal(t, Idle, s.State())

	list := st.List()
	require.Len(t, list, 2)
	assert.True(t, list[0].Equal(updated))
	assert.True(t, list[1].Equal(second))
}

func TestCancelReturnsToIdle(t *testing.T) {
	s, _, _ := setup(t)
	s.SetValues(Values{Day: 1, Month: 1, Year: 2024, Category: "Fun", Price: "3"})
	r, err := s.Save()
	require.NoError(t, err)

	require.NoError(t, s.Edit(r.ID))
	s.Cancel()
	assert.Equal(t, Idle, s.State())
	assert.Zero(t, s.Target())
	assert.Equal(t, DefaultValues(fixedToday), s.Values())
}

func TestEditMissingLeavesSessionUnchanged(t *testing.T) {
	s, _, _ := setup(t)
	before := s.Values()

	err := s.Edit(99)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Equal(t, Idle, s.State())
	assert.Equal(t, before, s.Values())
}

func TestValidationGate(t *testing.T) {
	tests := []struct {
		name  string
		v     Values
		field string
	}{
		{"empty category", Values{Day: 1, Month: 1, Year: 2024, Price: "5"}, "category"},
		{"blank category", Values{Day: 1, Month: 1, Year: 2024, Category: "  ", Price: "5"}, "category"},
		{"zero price", Values{Day: 1, Month: 1, Year: 2024, Category: "Fun", Price: "0"}, "price"},
		{"negative price", Values{Day: 1, Month: 1, Year: 2024, Category: "Fun", Price: "-3"}, "price"},
		{"text price", Values{Day: 1, Month: 1, Year: 2024, Category: "Fun", Price: "ten"}, "price"},
		{"empty price", Values{Day: 1, Month: 1, Year: 2024, Category: "Fun"}, "price"},
		{"bad day", Values{Day: 30, Month: 2, Year: 2024, Category: "Fun", Price: "1"}, "date"},
		{"long note", Values{Day: 1, Month: 1, Year: 2024, Category: "Fun", Price: "1",
			Note: "012345678901234567890123456789012345678901234567890"}, "note"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, st, mem := setup(t)
			s.SetValues(tt.v)

			_, err := s.Save()
			var verr *model.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)

			assert.Equal(t, Idle, s.State())
			assert.Equal(t, tt.v, s.Values(), "values must survive a failed save")
			assert.Zero(t, st.Len())
			assert.Zero(t, mem.Writes())
		})
	}
}

func TestSaveAfterTargetDeleted(t *testing.T) {
	s, st, _ := setup(t)
	s.SetValues(Values{Day: 1, Month: 1, Year: 2024, Category: "Fun", Price: "3"})
	r, err := s.Save()
	require.NoError(t, err)

	require.NoError(t, s.Edit(r.ID))
	_, err = st.Delete(r.ID)
	require.NoError(t, err)

	_, err = s.Save()
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Equal(t, Editing, s.State())
	assert.Equal(t, r.ID, s.Target())
}

func TestEditKeepsCategoryOutsideSet(t *testing.T) {
	mem := kv.NewMemory()
	require.NoError(t, mem.Put(store.Key, []byte(`[{"id":3,"date":"2024-01-05","category":"Crista","price":"20","note":""}]`)))
	st, err := store.Open(mem, store.Options{Categories: model.DefaultCategories, IDs: &seqIDs{}})
	require.NoError(t, err)
	s := New(st, WithCategories(model.DefaultCategories), WithToday(func() model.Date { return fixedToday }))

	require.NoError(t, s.Edit(3))
	v := s.Values()
	v.Note = "birthday"
	s.SetValues(v)
	r, err := s.Save()
	require.NoError(t, err)
	assert.Equal(t, "Crista", r.Category)
	assert.Equal(t, "birthday", r.Note)

	s.SetValues(Values{Day: 1, Month: 1, Year: 2024, Category: "Crista", Price: "5"})
	_, err = s.Save()
	assert.ErrorIs(t, err, model.ErrValidation, "new records still need a known category")
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "editing", Editing.String())
}
