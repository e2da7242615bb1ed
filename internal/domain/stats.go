package domain

// Stats holds the usage counters.
//
// Returned by GetStats it is the running total maintained by the increment
// operations. Returned by DeleteEvents it is the number of rows removed by
// that sweep; the two must not be mixed up.
type Stats struct {
	EventCount  int64 `json:"event_count"`
	PersonCount int64 `json:"person_count"`
}
