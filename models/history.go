package models

import (
	"sort"
	"time"
)

// Timestamps only move forward: fields are filled in once (or advanced), never cleared.
type Timestamps struct {
	Created              time.Time  `json:"created"`
	Assigned             time.Time  `json:"assigned"`
	Started              *time.Time `json:"started,omitempty"`
	Completed            *time.Time `json:"completed,omitempty"`
	Converted            *time.Time `json:"converted,omitempty"`
	ConvertedToWorkOrder *time.Time `json:"converted_to_work_order,omitempty"`
}

func newTimestamps(now time.Time) Timestamps {
	return Timestamps{Created: now, Assigned: now}
}

func (t Timestamps) clone() Timestamps {
	return Timestamps{
		Created:              t.Created,
		Assigned:             t.Assigned,
		Started:              copyTime(t.Started),
		Completed:            copyTime(t.Completed),
		Converted:            copyTime(t.Converted),
		ConvertedToWorkOrder: copyTime(t.ConvertedToWorkOrder),
	}
}

// stampOnce sets *field to now unless it is already set.
func stampOnce(field **time.Time, now time.Time) {
	if *field != nil {
		return
	}
	v := now
	*field = &v
}

// stampLatest moves an optional field forward to now, never backwards.
func stampLatest(field **time.Time, now time.Time) {
	if *field != nil && !now.After(**field) {
		return
	}
	v := now
	*field = &v
}

func advance(field *time.Time, now time.Time) {
	if now.After(*field) {
		*field = now
	}
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

type HistoryEntry struct {
	Timestamp    time.Time     `json:"timestamp"`
	Action       HistoryAction `json:"action"`
	PerformedBy  string        `json:"performed_by"`
	Details      string        `json:"details"`
	FromStatus   *string       `json:"from_status,omitempty"`
	ToStatus     *string       `json:"to_status,omitempty"`
	FromAssignee *string       `json:"from_assignee,omitempty"`
	ToAssignee   *string       `json:"to_assignee,omitempty"`
}

// History is append-only. Append never writes into the receiver's backing
// array, so documents sharing an older history slice are unaffected.
type History []HistoryEntry

func (h History) Append(entries ...HistoryEntry) History {
	out := make(History, 0, len(h)+len(entries))
	out = append(out, h...)
	return append(out, entries...)
}

// Sorted returns the entries ordered by timestamp, keeping insertion order for ties.
func (h History) Sorted() History {
	out := make(History, len(h))
	copy(out, h)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

func statusPtr[S ~string](s S) *string {
	v := string(s)
	return &v
}
