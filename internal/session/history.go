package session

import "time"

// HistoryItem is the immutable record of one finished phase.
type HistoryItem struct {
	Index          int
	Phase          Phase
	Task           string
	Start          time.Time
	End            time.Time
	PlannedSeconds int
	ActualSeconds  int
	Status         Status
}

// Log is an append-only history of finished phases. Indices are contiguous
// and strictly increasing, continuing from the last loaded entry.
type Log struct {
	items     []HistoryItem
	lastIndex int
}

// NewLog seeds a log with previously persisted items. The next index
// continues from the highest index found, or starts at 1 when empty.
func NewLog(items []HistoryItem) *Log {
	l := &Log{items: append([]HistoryItem(nil), items...)}
	for _, it := range l.items {
		if it.Index > l.lastIndex {
			l.lastIndex = it.Index
		}
	}
	return l
}

// NextIndex returns the index the next appended item will receive.
func (l *Log) NextIndex() int {
	return l.lastIndex + 1
}

// Append assigns the next index to item, records it, and returns the
// stored copy.
func (l *Log) Append(item HistoryItem) HistoryItem {
	item.Index = l.NextIndex()
	l.items = append(l.items, item)
	l.lastIndex = item.Index
	return item
}

// Items returns a copy of the recorded history, oldest first.
func (l *Log) Items() []HistoryItem {
	return append([]HistoryItem(nil), l.items...)
}

// Len returns the number of recorded items.
func (l *Log) Len() int {
	return len(l.items)
}
