package create_booking

import (
	"time"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
)

// Item процедура в запросе на создание бронирования
type Item struct {
	TreatmentID       int64
	Quantity          *int   // nil = 1
	UnitPriceOverride *int64 // только для персонала
}

// Request модель запроса на создание бронирования
type Request struct {
	Actor           domain.Actor       // Кто создаёт бронирование
	UserID          int64              // Клиент; 0 = сам actor
	Type            domain.BookingType // treatment или consultation
	ScheduledAt     time.Time          // Время приёма; для walk-in можно не указывать
	IsWalkIn        bool               // Клиент пришёл без записи (только персонал)
	Items           []Item             // Процедуры для TypeTreatment
	ConsultationFee *int64             // Стоимость консультации; nil = значение из конфигурации
	Notes           *string            // Дополнительные заметки (опционально)
}

// Settings параметры клиники для создания бронирований
type Settings struct {
	ConsultationFee         int64 // Стоимость консультации по умолчанию
	AdvanceBookingDays      int   // На сколько дней вперёд можно записаться; 0 = без ограничений
	MinBookingNoticeMinutes int   // Минимальное время до начала приёма
}

// Response модель ответа с созданным бронированием
type Response struct {
	Booking *domain.Booking
}
