package get_availability

import "time"

// Request запрос доступности корта начиная с даты From
type Request struct {
	CourtID int64
	From    time.Time
	Days    int
}

// Response доступность корта по дням
type Response struct {
	CourtID int64
	Days    []Day
}

// Day открытые блоки одного календарного дня
type Day struct {
	Date time.Time
	Open []Interval
}

// Interval непрерывный открытый интервал [Start, End)
type Interval struct {
	Start time.Time
	End   time.Time
}
