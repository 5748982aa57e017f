package calendar

// Status is the ordinal completion state of a calendar day
type Status string

const (
	StatusFuture  Status = "future"
	StatusNone    Status = "none"
	StatusPartial Status = "partial"
	StatusFull    Status = "full"
)

// Bucket classifies a day from its completed and total occurrence counts.
// Any day after today is future regardless of counts. A day with nothing
// scheduled is none, not full.
func Bucket(completed, total int, date, today string) Status {
	switch {
	case date > today:
		return StatusFuture
	case total <= 0 || completed <= 0:
		return StatusNone
	case completed >= total:
		return StatusFull
	default:
		return StatusPartial
	}
}
