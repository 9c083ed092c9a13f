package get_availability

import (
	"github.com/playfield/CourtBookingService/internal/domain"
	getAvailability "github.com/playfield/CourtBookingService/internal/usecase/get_availability"
	"github.com/playfield/CourtBookingService/pkg/types"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	CourtID int64          `json:"courtId"`
	Days    []DayResponse  `json:"days"`
}

// DayResponse открытые интервалы одного дня
type DayResponse struct {
	Date string             `json:"date"` // "2026-01-05"
	Open []IntervalResponse `json:"open"`
}

// IntervalResponse открытый интервал в "HH:MM"
// Конец суток рендерится как "24:00"
type IntervalResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	out := &AvailabilityResponse{
		CourtID: resp.CourtID,
		Days:    make([]DayResponse, 0, len(resp.Days)),
	}

	for _, day := range resp.Days {
		d := DayResponse{
			Date: day.Date.Format(domain.DateFormat),
			Open: make([]IntervalResponse, 0, len(day.Open)),
		}
		nextMidnight := day.Date.AddDate(0, 0, 1)
		for _, iv := range day.Open {
			end := types.NewTimeString(iv.End).String()
			if iv.End.Equal(nextMidnight) {
				end = "24:00"
			}
			d.Open = append(d.Open, IntervalResponse{
				Start: types.NewTimeString(iv.Start).String(),
				End:   end,
			})
		}
		out.Days = append(out.Days, d)
	}

	return out
}
