package create_booking

import (
	"time"

	"github.com/playfield/CourtBookingService/internal/domain"
	"github.com/playfield/CourtBookingService/internal/timepolicy"
	createBooking "github.com/playfield/CourtBookingService/internal/usecase/create_booking"
	"github.com/playfield/CourtBookingService/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	CourtID   int64  `json:"courtId"`
	Date      string `json:"date"`      // "2026-01-05"
	StartTime string `json:"startTime"` // "10:00"
	EndTime   string `json:"endTime"`   // "11:30", "24:00" = конец суток
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID         int64   `json:"id"`
	CourtID    int64   `json:"courtId"`
	UserID     int64   `json:"userId"`
	StartsAt   string  `json:"startsAt"` // ISO 8601
	EndsAt     string  `json:"endsAt"`   // ISO 8601
	Status     string  `json:"status"`
	FinalPrice float64 `json:"finalPrice"`
	CreatedAt  string  `json:"createdAt"`
	UpdatedAt  string  `json:"updatedAt"`
}

// ViolationResponse одно нарушение временной политики
type ViolationResponse struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

// InvalidRangeResponse ответ 400 с полным списком нарушений
type InvalidRangeResponse struct {
	Message    string              `json:"message"`
	Violations []ViolationResponse `json:"violations"`
}

// ConflictResponse ответ 409 с конфликтующим участком
type ConflictResponse struct {
	Message       string `json:"message"`
	ConflictStart string `json:"conflictStart"` // ISO 8601
	ConflictEnd   string `json:"conflictEnd"`   // ISO 8601
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(userID int64) (*createBooking.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}
	start, err := startTime.OnDate(date)
	if err != nil {
		return nil, err
	}

	// "24:00" - валидный конец интервала, упирающийся в полночь
	var end time.Time
	if r.EndTime == "24:00" {
		end = date.AddDate(0, 0, 1)
	} else {
		endTime, err := types.NewTimeStringFromString(r.EndTime)
		if err != nil {
			return nil, err
		}
		end, err = endTime.OnDate(date)
		if err != nil {
			return nil, err
		}
	}

	return &createBooking.Request{
		CourtID: r.CourtID,
		UserID:  userID,
		Start:   start,
		End:     end,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:         resp.ID,
		CourtID:    resp.CourtID,
		UserID:     resp.UserID,
		StartsAt:   resp.StartsAt.Format(time.RFC3339),
		EndsAt:     resp.EndsAt.Format(time.RFC3339),
		Status:     resp.Status,
		FinalPrice: resp.FinalPrice,
		CreatedAt:  resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  resp.UpdatedAt.Format(time.RFC3339),
	}
}

// FromViolations конвертирует нарушения политики в ответ 400
func FromViolations(message string, violations []timepolicy.Violation) *InvalidRangeResponse {
	resp := &InvalidRangeResponse{
		Message:    message,
		Violations: make([]ViolationResponse, 0, len(violations)),
	}
	for _, v := range violations {
		resp.Violations = append(resp.Violations, ViolationResponse{Code: v.Code, Detail: v.Detail})
	}
	return resp
}
