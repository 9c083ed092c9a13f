package domain

import "time"

// CourtBlock administrative closure of a court for a time range
// (ремонт, турнир, резерв владельца). Вычитается из доступности
// наравне с активными бронированиями
type CourtBlock struct {
	ID        int64
	CourtID   int64
	StartsAt  time.Time
	EndsAt    time.Time
	Reason    string
	CreatedBy int64

	CreatedAt time.Time
}

// Overlaps returns true if the block really intersects [start, end)
func (b *CourtBlock) Overlaps(start, end time.Time) bool {
	return b.StartsAt.Before(end) && b.EndsAt.After(start)
}

// TimeBlock a derived open interval on a specific date for a specific court
// Никогда не персистится - пересчитывается на каждый запрос доступности
type TimeBlock struct {
	Start time.Time
	End   time.Time
}

// Duration возвращает длительность блока
func (t TimeBlock) Duration() time.Duration {
	return t.End.Sub(t.Start)
}

// Contains returns true if [start, end) lies fully inside the block
func (t TimeBlock) Contains(start, end time.Time) bool {
	return !start.Before(t.Start) && !end.After(t.End)
}
