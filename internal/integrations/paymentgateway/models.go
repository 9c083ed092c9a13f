package paymentgateway

// Transaction модель транзакции в платежном шлюзе
type Transaction struct {
	Reference string  `json:"reference"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Method    string  `json:"method"`
	Status    string  `json:"status"` // "succeeded", "failed", "refunded", "processing"
}

// IsSucceeded возвращает true, если платеж прошел на стороне шлюза
func (t *Transaction) IsSucceeded() bool {
	return t.Status == "succeeded"
}

// ErrorResponse модель ошибки от шлюза
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
