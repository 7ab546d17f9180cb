// Copyright ©2022 Evolution. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Centralised store of per-frame measurements.

package metric

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/jszwec/csvutil"
)

var ErrRecordNotFound = errors.New("record not found")

type ID int64

type Store struct {
	mu      sync.RWMutex
	records map[ID]Record
	next    ID
}

func NewStore() *Store {
	return &Store{
		records: make(map[ID]Record),
	}
}

func (s *Store) Insert(r Record) ID {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[s.next] = r
	id := s.next
	s.next++

	return id
}

func (s *Store) Get(id ID) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[id]
	if !ok {
		return r, fmt.Errorf("getting record: %w", ErrRecordNotFound)
	}

	return r, nil
}

func (s *Store) Exists(id ID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.records[id]

	return exists
}

func (s *Store) GetIDs() []ID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]ID, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	return ids
}

func (s *Store) Update(id ID, r Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[id]; !exists {
		return fmt.Errorf("updating record: %w", ErrRecordNotFound)
	}

	s.records[id] = r
	return nil
}

// Records returns all records ordered by ID, which is insertion order.
func (s *Store) Records() []Record {
	ids := s.GetIDs()
	slices.Sort(ids)

	s.mu.RLock()
	defer s.mu.RUnlock()
	records := make([]Record, 0, len(ids))
	for _, id := range ids {
		if r, ok := s.records[id]; ok {
			records = append(records, r)
		}
	}
	return records
}

// WriteCSV writes all records as CSV with a header line.
func (s *Store) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := csvutil.NewEncoder(cw).Encode(s.Records()); err != nil {
		return fmt.Errorf("writing CSV: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

func (s *Store) Delete(id ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[id]; !exists {
		return fmt.Errorf("deleting record: %w", ErrRecordNotFound)
	}

	delete(s.records, id)
	return nil
}

// Record contains measurements of a single extracted frame.
type Record struct {
	Index    int     `csv:"frame"`
	Path     string  `csv:"path"`
	Width    int     `csv:"width"`
	Height   int     `csv:"height"`
	MeanLuma float64 `csv:"mean_luma"`
}
