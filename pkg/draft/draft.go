// Package draft persists the blank entry row between runs. The in-session
// guard keeps unsaved input from being discarded by a page change; this
// store keeps it from being discarded by closing the terminal.
package draft

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/peterbourgon/diskv/v3"

	"quayside.dev/loadplan/pkg/schedule"
)

// ErrNoDraft is returned when no draft exists for the filter.
var ErrNoDraft = errors.New("draft: not found")

// Store keeps one draft row per filter, keyed by booking code.
type Store struct {
	d *diskv.Diskv
}

// Open creates a draft store rooted at basePath.
func Open(basePath string) *Store {
	return &Store{d: diskv.New(diskv.Options{
		BasePath:     basePath,
		CacheSizeMax: 64 * 1024,
	})}
}

func draftKey(filter string) string {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		return "draft-default"
	}
	return "draft-" + filter
}

// Save writes the blank row for the given filter. Rows without any input are
// equivalent to no draft at all.
func (s *Store) Save(filter string, r *schedule.Row) error {
	carry := schedule.InputPolicy{References: true, Numerics: true, Date: true}
	if r == nil || !r.HasInput(carry) {
		return s.Clear(filter)
	}
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return s.d.Write(draftKey(filter), data)
}

// Load reads the draft row for the given filter.
func (s *Store) Load(filter string) (*schedule.Row, error) {
	key := draftKey(filter)
	if !s.d.Has(key) {
		return nil, ErrNoDraft
	}
	data, err := s.d.Read(key)
	if err != nil {
		return nil, err
	}
	r := &schedule.Row{}
	if err := json.Unmarshal(data, r); err != nil {
		return nil, err
	}
	r.New = true
	r.ID = nil
	return r, nil
}

// Clear drops the draft for the given filter. Clearing a missing draft is
// not an error.
func (s *Store) Clear(filter string) error {
	key := draftKey(filter)
	if !s.d.Has(key) {
		return nil
	}
	return s.d.Erase(key)
}
