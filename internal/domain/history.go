package domain

import "time"

// HistoryCapacity bounds the conversation window kept for prompt context.
const HistoryCapacity = 10

// ConversationEntry records one request/code/result triple.
// ExecutionResult is nil until execution completes or fails.
type ConversationEntry struct {
	UserRequest     string
	GeneratedCode   string
	ExecutionResult *string
	Timestamp       time.Time
}

// NewConversationEntry builds an entry stamped with the current time.
func NewConversationEntry(request, code string, result *string) ConversationEntry {
	return ConversationEntry{
		UserRequest:     request,
		GeneratedCode:   code,
		ExecutionResult: result,
		Timestamp:       time.Now(),
	}
}

// Result returns the execution result text or "" when absent.
func (e ConversationEntry) Result() string {
	if e.ExecutionResult == nil {
		return ""
	}
	return *e.ExecutionResult
}

// HistoryRing is a bounded FIFO of conversation entries.
// It is not safe for concurrent mutation; its owner serializes access.
type HistoryRing struct {
	entries  []ConversationEntry
	capacity int
}

// NewHistoryRing returns an empty ring holding at most HistoryCapacity entries.
func NewHistoryRing() *HistoryRing {
	return &HistoryRing{capacity: HistoryCapacity}
}

// Append adds entry at the end, evicting the oldest entries beyond capacity.
func (r *HistoryRing) Append(entry ConversationEntry) {
	r.entries = append(r.entries, entry)
	if overflow := len(r.entries) - r.capacity; overflow > 0 {
		kept := make([]ConversationEntry, r.capacity)
		copy(kept, r.entries[overflow:])
		r.entries = kept
	}
}

// Snapshot returns a copy of the entries, oldest first.
func (r *HistoryRing) Snapshot() []ConversationEntry {
	out := make([]ConversationEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of stored entries.
func (r *HistoryRing) Len() int {
	return len(r.entries)
}

// Clear empties the ring.
func (r *HistoryRing) Clear() {
	r.entries = nil
}
