package domain

// Granularity of the booking grid
const (
	// SlotGranularityMinutes шаг сетки бронирования - все интервалы
	// выравниваются по 30-минутным границам
	SlotGranularityMinutes = 30

	MinutesPerDay = 24 * 60
)

// Default policy values (перекрываются конфигурацией и настройками корта)
const (
	DefaultMaxDurationHours = 8.0
	DefaultAdvanceDays      = 14
	MinDurationHours        = 0.5
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses статусы бронирований, занимающих слот
// Используется при вычислении доступности и проверке пересечений
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}
