package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/theirongolddev/tally/internal/model"
)

// wireRecord is the persisted form of a record. Price and id are raw so
// older payloads that stored numbers, numeric strings, or no id at all
// can still be read.
type wireRecord struct {
	ID       json.RawMessage `json:"id,omitempty"`
	Date     model.Date      `json:"date"`
	Category string          `json:"category"`
	Price    json.RawMessage `json:"price"`
	Note     string          `json:"note"`
}

// DecodeStats counts what DecodeSnapshot had to repair or drop.
type DecodeStats struct {
	Skipped   int // elements that were not usable records
	MissingID int // elements decoded with ID 0
	BadPrice  int // elements whose price was missing or non-numeric
}

// EncodeSnapshot serializes records as a JSON array in the persisted layout.
func EncodeSnapshot(records []model.Record) ([]byte, error) {
	wire := make([]wireRecord, len(records))
	for i, r := range records {
		price, err := json.Marshal(r.Price.String())
		if err != nil {
			return nil, err
		}
		wire[i] = wireRecord{
			ID:       json.RawMessage(strconv.FormatInt(r.ID, 10)),
			Date:     r.Date,
			Category: r.Category,
			Price:    price,
			Note:     r.Note,
		}
	}
	return json.Marshal(wire)
}

// DecodeSnapshot parses a persisted JSON array. An unparsable top level is
// an error; individual bad elements are skipped and counted. Records whose
// payload had no id come back with ID 0.
func DecodeSnapshot(data []byte) ([]model.Record, DecodeStats, error) {
	var stats DecodeStats

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, stats, nil
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, stats, fmt.Errorf("decoding records: %w", err)
	}

	records := make([]model.Record, 0, len(elems))
	for _, raw := range elems {
		var w wireRecord
		if err := json.Unmarshal(raw, &w); err != nil {
			stats.Skipped++
			continue
		}
		if strings.TrimSpace(w.Category) == "" || w.Date.IsZero() {
			stats.Skipped++
			continue
		}

		id, ok := decodeID(w.ID)
		if !ok {
			stats.MissingID++
		}
		price, ok := decodePrice(w.Price)
		if !ok {
			stats.BadPrice++
		}

		records = append(records, model.Record{
			ID:       id,
			Date:     w.Date,
			Category: model.CanonicalCategory(w.Category),
			Price:    price,
			Note:     w.Note,
		})
	}
	return records, stats, nil
}

func decodeID(raw json.RawMessage) (int64, bool) {
	s := strings.Trim(string(bytes.TrimSpace(raw)), `"`)
	if s == "" || s == "null" {
		return 0, false
	}
	if id, err := strconv.ParseInt(s, 10, 64); err == nil && id > 0 {
		return id, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 1 && f < math.MaxInt64 {
		return int64(f), true
	}
	return 0, false
}

// decodePrice accepts a JSON number or a numeric string. Anything else is
// reported as bad and decodes to zero.
func decodePrice(raw json.RawMessage) (decimal.Decimal, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return decimal.Zero, false
	}

	s := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.Zero, false
		}
		s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	}
	p, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return p, true
}
