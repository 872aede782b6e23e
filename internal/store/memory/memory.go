// Package memory holds manually entered expenses in process memory.
//
// The store is owned by the host application and handed to request handlers;
// aggregation code only ever receives a copy through Table.
package memory

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"expensetracker/internal/core"
)

type entry struct {
	ref    string
	record core.Record
}

type Store struct {
	mu    sync.Mutex
	cats  []string
	items []entry
}

func New(cats []string) *Store {
	return &Store{cats: dedupe(cats)}
}

// NewFromFiles seeds category suggestions from base/seed_categories.txt.
func NewFromFiles(base string) *Store {
	cats := readLines(filepath.Join(base, "seed_categories.txt"))
	if len(cats) == 0 {
		cats = []string{"Food", "Travel", "Rent", "Utilities", "Shopping"}
	}
	return New(cats)
}

// Append validates and stores the record, returning its reference.
func (s *Store) Append(_ context.Context, r core.Record) (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}
	if !r.Date.Valid() {
		return "", core.ErrInvalidDate
	}
	ref := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, entry{ref: ref, record: r})
	return ref, nil
}

// Clear drops every entry and returns how many were removed.
func (s *Store) Clear(_ context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.items)
	s.items = nil
	return n
}

// Len returns the number of stored entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Table returns a fresh copy of the entries in insertion order.
func (s *Store) Table(_ context.Context) core.Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(core.Table, 0, len(s.items))
	for _, e := range s.items {
		out = append(out, e.record)
	}
	return out
}

// Suggestions returns seed categories followed by categories already entered.
func (s *Store) Suggestions(_ context.Context) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := append([]string(nil), s.cats...)
	for _, e := range s.items {
		all = append(all, e.record.Category)
	}
	return dedupe(all)
}

func readLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return dedupe(out)
}

// dedupe keeps first occurrences in input order.
func dedupe(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
