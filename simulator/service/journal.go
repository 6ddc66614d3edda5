package service

import (
	"slices"

	"github.com/Gthulhu/fleetsim/simulator/domain"
)

// Journal is the append-only synthetic log sequence.
type Journal struct {
	entries []domain.LogEntry
}

func NewJournal() *Journal {
	return &Journal{}
}

func (j *Journal) Append(entry domain.LogEntry) {
	j.entries = append(j.entries, entry)
}

func (j *Journal) Len() int {
	return len(j.entries)
}

// Tail returns a copy of the last n entries in chronological order.
func (j *Journal) Tail(n int) []domain.LogEntry {
	if n <= 0 || n > len(j.entries) {
		n = len(j.entries)
	}
	return slices.Clone(j.entries[len(j.entries)-n:])
}

// Query fills opt.Result with the matching entries, chronological.
func (j *Journal) Query(opt *domain.QueryLogsOptions) {
	result := make([]domain.LogEntry, 0)
	for _, entry := range j.entries {
		if len(opt.Levels) > 0 && !slices.Contains(opt.Levels, entry.Level) {
			continue
		}
		result = append(result, entry)
	}
	if opt.Limit > 0 && len(result) > opt.Limit {
		result = result[len(result)-opt.Limit:]
	}
	opt.Result = result
}

// RecentErrors returns up to limit ERROR/CRITICAL entries, most recent first.
func (j *Journal) RecentErrors(limit int) []domain.LogEntry {
	result := make([]domain.LogEntry, 0, limit)
	for i := len(j.entries) - 1; i >= 0 && len(result) < limit; i-- {
		level := j.entries[i].Level
		if level == domain.LogLevelError || level == domain.LogLevelCritical {
			result = append(result, j.entries[i])
		}
	}
	return result
}
