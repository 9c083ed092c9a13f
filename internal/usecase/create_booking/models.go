package create_booking

import "time"

// Request модель запроса на создание бронирования
type Request struct {
	CourtID int64     // ID корта
	UserID  int64     // ID пользователя (из токена, уже провалидирован)
	Start   time.Time // Начало интервала (выровнено по 30 минутам)
	End     time.Time // Конец интервала (выровнено по 30 минутам)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID         int64     // ID созданного бронирования
	CourtID    int64     // ID корта
	UserID     int64     // ID пользователя
	StartsAt   time.Time // Начало интервала
	EndsAt     time.Time // Конец интервала
	Status     string    // Статус бронирования (pending до оплаты)
	FinalPrice float64   // Итоговая цена

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
