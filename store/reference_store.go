package store

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"sync"

	"github.com/veridata/go-entity-resolver/internal/similarity"
	"github.com/veridata/go-entity-resolver/model"
)

// ReferenceStore holds the reference set: the ordered, read-only collection
// of known-company records used as match candidates. Order is significant —
// ties on name similarity resolve to the record appearing first — so records
// are kept in their original load order. The store is safe for concurrent
// readers during a run; mutation only happens between runs (server mode).
type ReferenceStore struct {
	Mu      sync.RWMutex
	Records []model.EntityRecord

	// byCountry maps a normalized country code to the positions of its
	// records, preserving load order within each block. Used by the opt-in
	// country blocking pre-filter.
	byCountry map[string][]int
}

// NewReferenceStore creates a store from the given records, preserving
// their order.
func NewReferenceStore(records []model.EntityRecord) *ReferenceStore {
	rs := &ReferenceStore{}
	rs.Replace(records)
	return rs
}

// Replace swaps in a new reference set and rebuilds the country block index.
func (rs *ReferenceStore) Replace(records []model.EntityRecord) {
	rs.Mu.Lock()
	defer rs.Mu.Unlock()

	rs.Records = records
	rs.byCountry = make(map[string][]int, len(records))
	for i, rec := range records {
		key := similarity.Normalize(rec.Country)
		rs.byCountry[key] = append(rs.byCountry[key], i)
	}
}

// Len returns the number of reference records.
func (rs *ReferenceStore) Len() int {
	rs.Mu.RLock()
	defer rs.Mu.RUnlock()
	return len(rs.Records)
}

// Snapshot returns the current records slice. Callers must treat the result
// as read-only; the slice is shared with the store.
func (rs *ReferenceStore) Snapshot() []model.EntityRecord {
	rs.Mu.RLock()
	defer rs.Mu.RUnlock()
	return rs.Records
}

// CountryBlock returns the positions of records whose normalized country
// equals the given value, in load order. The boolean reports whether the
// block exists and is non-empty.
func (rs *ReferenceStore) CountryBlock(country string) ([]int, bool) {
	rs.Mu.RLock()
	defer rs.Mu.RUnlock()

	block, ok := rs.byCountry[similarity.Normalize(country)]
	return block, ok && len(block) > 0
}

// gobReferenceStoreData is a helper struct for Gob encoding/decoding
// ReferenceStore data. It excludes the mutex and the derived block index.
type gobReferenceStoreData struct {
	Records []model.EntityRecord
}

// GobEncode implements the gob.GobEncoder interface for ReferenceStore.
func (rs *ReferenceStore) GobEncode() ([]byte, error) {
	rs.Mu.RLock()
	defer rs.Mu.RUnlock()

	var buf bytes.Buffer
	encoder := gob.NewEncoder(&buf)
	if err := encoder.Encode(gobReferenceStoreData{Records: rs.Records}); err != nil {
		return nil, fmt.Errorf("failed to gob encode reference store data: %w", err)
	}
	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface for ReferenceStore.
// The country block index is rebuilt after decoding rather than persisted.
func (rs *ReferenceStore) GobDecode(data []byte) error {
	decodedData := gobReferenceStoreData{}

	buf := bytes.NewBuffer(data)
	decoder := gob.NewDecoder(buf)
	if err := decoder.Decode(&decodedData); err != nil {
		return fmt.Errorf("failed to gob decode reference store data: %w", err)
	}

	rs.Replace(decodedData.Records)
	return nil
}
