package store

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theirongolddev/tally/internal/kv"
	"github.com/theirongolddev/tally/internal/model"
)

type counterIDs struct{ n int64 }

func (c *counterIDs) Next() int64 {
	c.n++
	return c.n
}

func newTestStore(t *testing.T, slot kv.Slot) *Store {
	t.Helper()
	s, err := Open(slot, Options{Categories: model.DefaultCategories, IDs: &counterIDs{}})
	require.NoError(t, err)
	return s
}

func draft(date model.Date, category, price, note string) model.Draft {
	return model.Draft{
		Date:     date,
		Category: category,
		Price:    decimal.RequireFromString(price),
		Note:     note,
	}
}

func recordsEqual(t *testing.T, want, got []model.Record) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Truef(t, want[i].Equal(got[i]), "record %d: want %+v, got %+v", i, want[i], got[i])
	}
}

var (
	jan1 = model.NewDate(2024, 1, 1)
	jan2 = model.NewDate(2024, 1, 2)
)

func TestAddAssignsUniqueIDs(t *testing.T) {
	s := newTestStore(t, kv.NewMemory())

	seen := map[int64]bool{}
	for i := 0; i < 20; i++ {
		d := draft(jan1, "Fun", "1.25", "")
		r, err := s.Add(d)
		require.NoError(t, err)
		assert.False(t, seen[r.ID], "id %d reused", r.ID)
		seen[r.ID] = true
		assert.Equal(t, d, r.Draft())
	}
	assert.Equal(t, 20, s.Len())
}

func TestAddRejectsInvalidWithoutWriting(t *testing.T) {
	mem := kv.NewMemory()
	s := newTestStore(t, mem)

	cases := []model.Draft{
		draft(jan1, "Groceries", "0", ""),
		draft(jan1, "Groceries", "-3", ""),
		draft(jan1, "", "5", ""),
		draft(jan1, "Spaceships", "5", ""),
		draft(model.Date{}, "Groceries", "5", ""),
	}
	for _, d := range cases {
		_, err := s.Add(d)
		assert.ErrorIs(t, err, model.ErrValidation, "%+v", d)
	}
	assert.Empty(t, s.List())
	assert.Zero(t, mem.Writes())
}

func TestUpdateChangesOnlyTarget(t *testing.T) {
	s := newTestStore(t, kv.NewMemory())
	a, _ := s.Add(draft(jan1, "Groceries", "10.50", ""))
	b, _ := s.Add(draft(jan1, "Fun", "3", "movie"))
	c, _ := s.Add(draft(jan2, "Car", "40", ""))

	updated, err := s.Update(b.ID, draft(jan2, "Gifts", "7.10", "flowers"))
	require.NoError(t, err)
	assert.Equal(t, b.ID, updated.ID)

	recordsEqual(t, []model.Record{a, updated, c}, s.List())
}

func TestUpdateMissing(t *testing.T) {
	mem := kv.NewMemory()
	s := newTestStore(t, mem)

	_, err := s.Update(42, draft(jan1, "Fun", "1", ""))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, mem.Writes())
}

func TestDeleteIsIdempotent(t *testing.T) {
	mem := kv.NewMemory()
	s := newTestStore(t, mem)
	a, _ := s.Add(draft(jan1, "Fun", "1", ""))
	b, _ := s.Add(draft(jan1, "Fun", "2", ""))

	removed, err := s.Delete(a.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	writes := mem.Writes()

	removed, err = s.Delete(a.ID)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, writes, mem.Writes())

	recordsEqual(t, []model.Record{b}, s.List())
}

func TestIDsNotReusedAfterDelete(t *testing.T) {
	s := newTestStore(t, kv.NewMemory())
	a, _ := s.Add(draft(jan1, "Fun", "1", ""))
	b, _ := s.Add(draft(jan1, "Fun", "1", ""))
	_, _ = s.Delete(b.ID)

	c, err := s.Add(draft(jan1, "Fun", "1", ""))
	require.NoError(t, err)
	assert.Greater(t, c.ID, b.ID)
	assert.NotEqual(t, a.ID, c.ID)
}

func TestReloadRoundTrip(t *testing.T) {
	mem := kv.NewMemory()
	s := newTestStore(t, mem)
	_, _ = s.Add(draft(jan1, "Groceries", "10.50", "milk"))
	b, _ := s.Add(draft(jan2, "Groceries", "5.25", ""))
	_, _ = s.Add(draft(jan2, "Rent / Loan", "900", "march"))
	_, _ = s.Update(b.ID, draft(jan2, "Eating Out", "5.75", "lunch"))
	before := s.List()

	reloaded := newTestStore(t, mem)
	assert.False(t, reloaded.Recovered())
	recordsEqual(t, before, reloaded.List())

	next, err := reloaded.Add(draft(jan2, "Fun", "1", ""))
	require.NoError(t, err)
	for _, r := range before {
		assert.NotEqual(t, r.ID, next.ID)
	}
}

func TestFailedWriteRollsBack(t *testing.T) {
	mem := kv.NewMemory()
	s := newTestStore(t, mem)
	a, _ := s.Add(draft(jan1, "Fun", "1", ""))
	before := s.List()

	mem.FailPut = errors.New("disk full")

	_, err := s.Add(draft(jan1, "Fun", "2", ""))
	assert.Error(t, err)
	_, err = s.Update(a.ID, draft(jan1, "Fun", "9", ""))
	assert.Error(t, err)
	_, err = s.Delete(a.ID)
	assert.Error(t, err)
	assert.Error(t, s.Clear())

	recordsEqual(t, before, s.List())
}

func TestClearRemovesSlot(t *testing.T) {
	mem := kv.NewMemory()
	s := newTestStore(t, mem)
	_, _ = s.Add(draft(jan1, "Fun", "1", ""))

	require.NoError(t, s.Clear())
	assert.Empty(t, s.List())

	_, err := mem.Get(Key)
	assert.ErrorIs(t, err, kv.ErrNotFound)

	assert.Empty(t, newTestStore(t, mem).List())
}

func TestLoadCorruptPayload(t *testing.T) {
	for _, payload := range []string{`{not json`, `{"records": []}`, `"hello"`} {
		mem := kv.NewMemory()
		require.NoError(t, mem.Put(Key, []byte(payload)))

		s := newTestStore(t, mem)
		assert.Empty(t, s.List(), payload)
		assert.True(t, s.Recovered(), payload)
	}
}

func TestLoadMissingKey(t *testing.T) {
	s := newTestStore(t, kv.NewMemory())
	assert.Empty(t, s.List())
	assert.False(t, s.Recovered())
}

func TestLoadLegacyPayload(t *testing.T) {
	mem := kv.NewMemory()
	legacy := `[
		{"date":"2023-12-31T23:00:00.000Z","category":"Groceries","price":"10.5","note":"a"},
		{"date":"2024-01-02","category":"Fun","price":3,"note":""},
		{"date":"2024-01-03","category":"Car","price":"abc","note":""},
		{"date":"2024-01-03","category":"","price":"4","note":"no category"},
		42
	]`
	require.NoError(t, mem.Put(Key, []byte(legacy)))

	s := newTestStore(t, mem)
	got := s.List()
	require.Len(t, got, 3)

	ids := map[int64]bool{}
	for _, r := range got {
		assert.NotZero(t, r.ID)
		assert.False(t, ids[r.ID])
		ids[r.ID] = true
	}
	assert.True(t, got[0].Price.Equal(decimal.RequireFromString("10.5")))
	assert.True(t, got[1].Price.Equal(decimal.NewFromInt(3)))
	assert.True(t, got[2].Price.IsZero(), "non-numeric price loads as zero")
	assert.Equal(t, 2, mem.Writes(), "assigned ids are written back once")

	recordsEqual(t, got, newTestStore(t, mem).List())
	assert.Equal(t, 2, mem.Writes(), "a payload with ids is not rewritten")
}

func TestLoadLegacyIDsStableAcrossOpens(t *testing.T) {
	mem := kv.NewMemory()
	require.NoError(t, mem.Put(Key, []byte(`[{"date":"2024-01-01","category":"Groceries","price":"10.5"}]`)))

	first, err := Open(mem, Options{Categories: model.DefaultCategories})
	require.NoError(t, err)
	shown := first.List()[0].ID

	time.Sleep(5 * time.Millisecond)

	second, err := Open(mem, Options{Categories: model.DefaultCategories})
	require.NoError(t, err)
	require.Len(t, second.List(), 1)
	assert.Equal(t, shown, second.List()[0].ID)

	removed, err := second.Delete(shown)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Zero(t, second.Len())
}

func TestLoadKeepsAssignedIDsWhenWriteBackFails(t *testing.T) {
	mem := kv.NewMemory()
	require.NoError(t, mem.Put(Key, []byte(`[{"date":"2024-01-01","category":"Fun","price":"2"}]`)))
	mem.FailPut = errors.New("read-only")

	s := newTestStore(t, mem)
	require.Len(t, s.List(), 1)
	assert.NotZero(t, s.List()[0].ID)
	assert.False(t, s.Recovered())
}

func TestLoadDuplicateIDs(t *testing.T) {
	mem := kv.NewMemory()
	payload := `[
		{"id":7,"date":"2024-01-01","category":"Fun","price":"1","note":""},
		{"id":7,"date":"2024-01-02","category":"Fun","price":"2","note":""}
	]`
	require.NoError(t, mem.Put(Key, []byte(payload)))

	got := newTestStore(t, mem).List()
	require.Len(t, got, 2)
	assert.Equal(t, int64(7), got[0].ID)
	assert.Greater(t, got[1].ID, int64(7))
}

func TestImport(t *testing.T) {
	mem := kv.NewMemory()
	s := newTestStore(t, mem)
	_, _ = s.Add(draft(jan1, "Fun", "1", ""))
	writes := mem.Writes()

	added, skipped, err := s.Import([]model.Draft{
		draft(jan1, "Groceries", "2", ""),
		draft(jan1, "Groceries", "0", ""),
		draft(jan2, "Car", "3", ""),
	})
	require.NoError(t, err)
	assert.Len(t, added, 2)
	assert.Equal(t, 1, skipped)
	assert.Equal(t, writes+1, mem.Writes(), "import writes once")
	assert.Equal(t, 3, s.Len())
}

func TestImportOriginalDump(t *testing.T) {
	dump := `[
		{"date":"2024-03-01T00:00:00.000Z","category":"Inversiones","price":"100","note":"fund"},
		{"date":"2024-03-02T00:00:00.000Z","category":"Ketzia","price":"12,5","note":""},
		{"date":"2024-03-03T00:00:00.000Z","category":"Propiedad","price":"40","note":""},
		{"date":"2024-03-04T00:00:00.000Z","category":"Yachts","price":"9","note":""}
	]`
	decoded, _, err := DecodeSnapshot([]byte(dump))
	require.NoError(t, err)
	drafts := make([]model.Draft, len(decoded))
	for i, r := range decoded {
		drafts[i] = r.Draft()
	}

	s := newTestStore(t, kv.NewMemory())
	added, skipped, err := s.Import(drafts)
	require.NoError(t, err)
	require.Len(t, added, 3)
	assert.Equal(t, 1, skipped)
	assert.Equal(t, "Investments", added[0].Category)
	assert.Equal(t, "Ketzia", added[1].Category)
	assert.Equal(t, "Property", added[2].Category)
}

func TestUpdateKeepsCategoryOutsideSet(t *testing.T) {
	mem := kv.NewMemory()
	require.NoError(t, mem.Put(Key, []byte(`[{"id":5,"date":"2024-01-01","category":"Voluntariado","price":"8","note":""}]`)))
	s := newTestStore(t, mem)

	r, err := s.Update(5, draft(jan1, "Voluntariado", "8", "fixed note"))
	require.NoError(t, err)
	assert.Equal(t, "fixed note", r.Note)

	_, err = s.Update(5, draft(jan1, "Casa-puerto", "8", ""))
	assert.ErrorIs(t, err, model.ErrValidation, "only the record's own label is kept")
}

func TestDecodeRenamedCategory(t *testing.T) {
	got, _, err := DecodeSnapshot([]byte(`[{"id":1,"date":"2024-01-01","category":"Inversiones","price":"1"}]`))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Investments", got[0].Category)
}

func TestDecodeIDOutOfRange(t *testing.T) {
	got, stats, err := DecodeSnapshot([]byte(`[
		{"id":1e30,"date":"2024-01-01","category":"Fun","price":"1"},
		{"id":"9.3e18","date":"2024-01-01","category":"Fun","price":"1"},
		{"id":42.0,"date":"2024-01-01","category":"Fun","price":"1"}
	]`))
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Zero(t, got[0].ID)
	assert.Zero(t, got[1].ID)
	assert.Equal(t, int64(42), got[2].ID)
	assert.Equal(t, 2, stats.MissingID)
}

func TestSnowflakeIDsIncrease(t *testing.T) {
	ids, err := NewSnowflakeIDs(1)
	require.NoError(t, err)
	prev := ids.Next()
	for i := 0; i < 100; i++ {
		next := ids.Next()
		assert.Greater(t, next, prev)
		prev = next
	}
}
