package models

const (
	// DateLayout is the calendar date format used for storage and input.
	DateLayout = "2006-01-02"

	// DefaultSessionTTL время жизни сессии в хранилище
	DefaultSessionTTL = 12 * 60 * 60 // 12 часов в секундах

	// DefaultMaxBookingDays максимальная длина одного бронирования
	DefaultMaxBookingDays = 365

	// DefaultCurrency используется при выводе счетов
	DefaultCurrency = "$"
)
