// Package stats keeps the cumulative win tally.
package stats

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
)

// Entry is one row of the tally.
type Entry struct {
	Name string `json:"name"`
	Wins int    `json:"wins"`
}

// Tally records wins per player name.
type Tally interface {
	// RecordWin increments name's counter, creating it on the first win.
	RecordWin(ctx context.Context, name string) error
	// Winners returns every entry, most wins first.
	Winners(ctx context.Context) ([]Entry, error)
}

// ErrEmptyName is returned when a win is recorded without a name.
var ErrEmptyName = errors.New("winner name is required")

// Memory is an in-process Tally.
type Memory struct {
	mu   sync.Mutex
	wins map[string]int
}

func NewMemory() *Memory {
	return &Memory{wins: map[string]int{}}
}

func (m *Memory) RecordWin(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wins[name]++
	return nil
}

func (m *Memory) Winners(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	out := make([]Entry, 0, len(m.wins))
	for name, wins := range m.wins {
		out = append(out, Entry{Name: name, Wins: wins})
	}
	m.mu.Unlock()
	Sort(out)
	return out, nil
}

// Reset clears every counter. Intended for tests and dev convenience.
func (m *Memory) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.wins {
		delete(m.wins, k)
	}
}

// Sort orders entries by wins descending, then by name.
func Sort(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Wins != entries[j].Wins {
			return entries[i].Wins > entries[j].Wins
		}
		return entries[i].Name < entries[j].Name
	})
}
