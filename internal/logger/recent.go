package logger

import (
	"encoding/json"
	"sync"
)

const defaultRecentSize = 500

// LogEntry is one parsed log line kept for the logs endpoint.
type LogEntry struct {
	Timestamp string         `json:"timestamp"`
	Level     string         `json:"level"`
	Component string         `json:"component,omitempty"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// RecentLogs is an io.Writer that keeps the last N zerolog JSON entries in memory.
type RecentLogs struct {
	mu    sync.RWMutex
	items []LogEntry
	head  int
	count int
}

// NewRecentLogs creates a buffer holding up to size entries.
func NewRecentLogs(size int) *RecentLogs {
	if size <= 0 {
		size = defaultRecentSize
	}
	return &RecentLogs{items: make([]LogEntry, size)}
}

// Write implements io.Writer. Malformed lines are dropped.
func (r *RecentLogs) Write(p []byte) (int, error) {
	entry, err := parseLogEntry(p)
	if err != nil {
		return len(p), nil //nolint:nilerr // malformed entries are skipped
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[(r.head+r.count)%len(r.items)] = entry
	if r.count < len(r.items) {
		r.count++
	} else {
		r.head = (r.head + 1) % len(r.items)
	}
	return len(p), nil
}

// Entries returns buffered entries from oldest to newest, optionally filtered by
// minimum level. An empty level returns everything.
func (r *RecentLogs) Entries(minLevel string) []LogEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	threshold := ParseLevel(minLevel)
	out := make([]LogEntry, 0, r.count)
	for i := 0; i < r.count; i++ {
		entry := r.items[(r.head+i)%len(r.items)]
		if minLevel != "" && ParseLevel(entry.Level) < threshold {
			continue
		}
		out = append(out, entry)
	}
	return out
}

// Len returns the number of buffered entries.
func (r *RecentLogs) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.count
}

func parseLogEntry(data []byte) (LogEntry, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return LogEntry{}, err
	}

	entry := LogEntry{}
	if ts, ok := raw["time"].(string); ok {
		entry.Timestamp = ts
		delete(raw, "time")
	}
	if level, ok := raw["level"].(string); ok {
		entry.Level = level
		delete(raw, "level")
	}
	if component, ok := raw["component"].(string); ok {
		entry.Component = component
		delete(raw, "component")
	}
	if msg, ok := raw["message"].(string); ok {
		entry.Message = msg
		delete(raw, "message")
	}
	if len(raw) > 0 {
		entry.Fields = raw
	}

	return entry, nil
}
