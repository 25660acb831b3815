package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/fieldside/gameday/internal/domain/playtime"
)

type PlayTimeRepository struct {
	mu    sync.RWMutex
	items map[string]playtime.Record
}

func NewPlayTimeRepository() *PlayTimeRepository {
	return &PlayTimeRepository{items: make(map[string]playtime.Record)}
}

func (r *PlayTimeRepository) ListByGame(_ context.Context, gameID string) ([]playtime.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]playtime.Record, 0, len(r.items))
	for _, item := range r.items {
		if item.GameID == gameID {
			out = append(out, cloneRecord(item))
		}
	}
	sortRecords(out)
	return out, nil
}

func (r *PlayTimeRepository) ListOpenByGame(_ context.Context, gameID string) ([]playtime.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]playtime.Record, 0, len(r.items))
	for _, item := range r.items {
		if item.GameID == gameID && item.Open() {
			out = append(out, cloneRecord(item))
		}
	}
	sortRecords(out)
	return out, nil
}

func (r *PlayTimeRepository) GetOpenByPlayer(_ context.Context, gameID, playerID string) (playtime.Record, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.GameID == gameID && item.PlayerID == playerID && item.Open() {
			return cloneRecord(item), true, nil
		}
	}
	return playtime.Record{}, false, nil
}

func (r *PlayTimeRepository) Insert(_ context.Context, record playtime.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[record.ID] = cloneRecord(record)
	return nil
}

// Close sets the end time; an already-closed record is left untouched.
func (r *PlayTimeRepository) Close(_ context.Context, recordID string, endSeconds int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[recordID]
	if !ok || !item.Open() {
		return nil
	}

	end := endSeconds
	if end < item.StartSeconds {
		end = item.StartSeconds
	}
	item.EndSeconds = &end
	r.items[recordID] = item
	return nil
}

func (r *PlayTimeRepository) CloseAllOpen(_ context.Context, gameID string, endSeconds int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	closed := 0
	for id, item := range r.items {
		if item.GameID != gameID || !item.Open() {
			continue
		}
		end := endSeconds
		if end < item.StartSeconds {
			end = item.StartSeconds
		}
		item.EndSeconds = &end
		r.items[id] = item
		closed++
	}
	return closed, nil
}

func sortRecords(records []playtime.Record) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].StartSeconds != records[j].StartSeconds {
			return records[i].StartSeconds < records[j].StartSeconds
		}
		return records[i].ID < records[j].ID
	})
}

func cloneRecord(record playtime.Record) playtime.Record {
	copied := record
	if record.EndSeconds != nil {
		end := *record.EndSeconds
		copied.EndSeconds = &end
	}
	return copied
}
