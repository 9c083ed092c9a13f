// Package availability движок вычисления доступности корта.
// Чистые функции над снапшотом правил, бронирований и блокировок:
// один и тот же код стоит за read path (показ свободных блоков)
// и за повторной проверкой внутри транзакции резервирования,
// поэтому расхождение "показали свободно - забронировать нельзя"
// исключено по построению
package availability

import (
	"iter"
	"sort"
	"time"

	"github.com/playfield/CourtBookingService/internal/domain"
)

// DayAvailability открытые интервалы корта на конкретную дату.
// Производное значение - никогда не персистится и не кешируется
type DayAvailability struct {
	Date time.Time
	Open []domain.TimeBlock
}

// ComputeDay вычисляет открытые интервалы корта на дату date.
// Алгоритм:
//  1. Объединяем интервалы всех активных правил этого дня недели
//     (пересекающиеся и дублирующиеся правила сливаются в union)
//  2. Вычитаем активные бронирования и административные блокировки
//     (интервальное вычитание: занятый интервал режет открытый на 0/1/2 части)
//  3. Результат - упорядоченные непересекающиеся открытые интервалы
//
// Отсутствие правил на день - валидное состояние "закрыто", не ошибка
func ComputeDay(
	date time.Time,
	rules []*domain.AvailabilityRule,
	bookings []*domain.Booking,
	blocks []*domain.CourtBlock,
) DayAvailability {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	// Шаг 1: номинально открытые интервалы из правил
	nominal := make([]domain.TimeBlock, 0, len(rules))
	for _, rule := range rules {
		if !rule.AppliesTo(date) || rule.IsDegenerate() {
			continue
		}
		nominal = append(nominal, domain.TimeBlock{
			Start: dayStart.Add(time.Duration(rule.StartMinute) * time.Minute),
			End:   dayStart.Add(time.Duration(rule.EndMinute) * time.Minute),
		})
	}
	open := mergeBlocks(nominal)

	// Шаг 2: собираем занятые интервалы, обрезанные границами суток
	occupied := make([]domain.TimeBlock, 0, len(bookings)+len(blocks))
	for _, b := range bookings {
		if !b.IsActive() || !b.Overlaps(dayStart, dayEnd) {
			continue
		}
		occupied = append(occupied, clampBlock(b.StartsAt, b.EndsAt, dayStart, dayEnd))
	}
	for _, bl := range blocks {
		if !bl.Overlaps(dayStart, dayEnd) {
			continue
		}
		occupied = append(occupied, clampBlock(bl.StartsAt, bl.EndsAt, dayStart, dayEnd))
	}

	for _, occ := range mergeBlocks(occupied) {
		open = subtractBlock(open, occ)
	}

	return DayAvailability{Date: dayStart, Open: open}
}

// ContainsRange returns true iff [start, end) is fully contained
// in a single open interval. Именно эта проверка выполняется повторно
// внутри транзакции резервирования
func (d DayAvailability) ContainsRange(start, end time.Time) bool {
	for _, block := range d.Open {
		if block.Contains(start, end) {
			return true
		}
	}
	return false
}

// ConflictingInterval возвращает занятый/закрытый участок, из-за которого
// [start, end) не помещается в открытые интервалы. Используется для
// формирования ошибки конфликта с указанием виновного интервала
func (d DayAvailability) ConflictingInterval(start, end time.Time) (domain.TimeBlock, bool) {
	if d.ContainsRange(start, end) {
		return domain.TimeBlock{}, false
	}

	// Ищем первый закрытый участок внутри запрошенного диапазона
	cursor := start
	for _, block := range d.Open {
		if !block.End.After(cursor) {
			continue
		}
		if block.Start.After(cursor) {
			gapEnd := block.Start
			if gapEnd.After(end) {
				gapEnd = end
			}
			return domain.TimeBlock{Start: cursor, End: gapEnd}, true
		}
		cursor = block.End
		if !cursor.Before(end) {
			return domain.TimeBlock{}, false
		}
	}
	return domain.TimeBlock{Start: cursor, End: end}, true
}

// Blocks возвращает ленивую перезапускаемую последовательность блоков
// фиксированного размера в порядке возрастания времени начала.
// Открытость хранится интервалами, поэтому длинный день не порождает
// тысяч объектов, пока их не перечислили
func (d DayAvailability) Blocks(size time.Duration) iter.Seq[domain.TimeBlock] {
	return func(yield func(domain.TimeBlock) bool) {
		for _, open := range d.Open {
			for cursor := open.Start; !cursor.Add(size).After(open.End); cursor = cursor.Add(size) {
				if !yield(domain.TimeBlock{Start: cursor, End: cursor.Add(size)}) {
					return
				}
			}
		}
	}
}

// mergeBlocks сортирует интервалы и сливает пересекающиеся и смежные
func mergeBlocks(blocks []domain.TimeBlock) []domain.TimeBlock {
	if len(blocks) == 0 {
		return nil
	}

	sorted := make([]domain.TimeBlock, len(blocks))
	copy(sorted, blocks)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	merged := []domain.TimeBlock{sorted[0]}
	for _, block := range sorted[1:] {
		last := &merged[len(merged)-1]
		if !block.Start.After(last.End) {
			if block.End.After(last.End) {
				last.End = block.End
			}
			continue
		}
		merged = append(merged, block)
	}
	return merged
}

// subtractBlock вычитает occupied из каждого открытого интервала.
// Интервал, который только граничит с занятым, не фрагментируется
func subtractBlock(open []domain.TimeBlock, occupied domain.TimeBlock) []domain.TimeBlock {
	result := make([]domain.TimeBlock, 0, len(open)+1)
	for _, block := range open {
		// Нет реального пересечения - блок остается как есть
		if !occupied.Start.Before(block.End) || !occupied.End.After(block.Start) {
			result = append(result, block)
			continue
		}
		if occupied.Start.After(block.Start) {
			result = append(result, domain.TimeBlock{Start: block.Start, End: occupied.Start})
		}
		if occupied.End.Before(block.End) {
			result = append(result, domain.TimeBlock{Start: occupied.End, End: block.End})
		}
	}
	return result
}

// clampBlock обрезает интервал границами [lo, hi)
func clampBlock(start, end, lo, hi time.Time) domain.TimeBlock {
	if start.Before(lo) {
		start = lo
	}
	if end.After(hi) {
		end = hi
	}
	return domain.TimeBlock{Start: start, End: end}
}
