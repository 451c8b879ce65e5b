package receipts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ClinicService/internal/infra/storage/booking"
)

const receiptTimeFormat = "2006-01-02 15:04"

// Service формирует PDF-чеки по бронированиям
type Service struct {
	bookingRepo BookingRepository
	paymentRepo PaymentRepository
	clinicName  string
	logger      Logger
	now         func() time.Time
}

// NewService создает новый экземпляр сервиса чеков
func NewService(bookingRepo BookingRepository, paymentRepo PaymentRepository, clinicName string, logger Logger) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		paymentRepo: paymentRepo,
		clinicName:  clinicName,
		logger:      logger,
		now:         time.Now,
	}
}

// Generate возвращает PDF-чек и имя файла
// Владелец бронирования и персонал могут получить чек в любом состоянии бронирования
func (s *Service) Generate(ctx context.Context, bookingID int64, actor domain.Actor) ([]byte, string, error) {
	s.logger.Info("Generate: receipt for booking id=%d by user=%d", bookingID, actor.UserID)

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Generate: booking id=%d not found", bookingID)
			return nil, "", ErrBookingNotFound
		}
		s.logger.Error("Generate: repository error for booking id=%d: %v", bookingID, err)
		return nil, "", fmt.Errorf("%w: Generate - get booking: %v", ErrInternal, err)
	}

	if booking.UserID != actor.UserID && !actor.Role.IsStaff() {
		s.logger.Warn("Generate: access denied for user=%d to booking id=%d", actor.UserID, bookingID)
		return nil, "", ErrAccessDenied
	}

	payments, err := s.paymentRepo.ListByBooking(ctx, bookingID)
	if err != nil {
		s.logger.Error("Generate: failed to list payments for booking id=%d: %v", bookingID, err)
		return nil, "", fmt.Errorf("%w: Generate - list payments: %v", ErrInternal, err)
	}

	data, err := s.render(booking, settledPayment(payments))
	if err != nil {
		s.logger.Error("Generate: failed to render receipt for booking id=%d: %v", bookingID, err)
		return nil, "", fmt.Errorf("%w: Generate - render pdf: %v", ErrInternal, err)
	}

	s.logger.Info("Generate: receipt for booking id=%d rendered, %d bytes", bookingID, len(data))
	return data, fmt.Sprintf("receipt-%d.pdf", booking.ID), nil
}

func (s *Service) render(b *domain.Booking, paid *domain.Payment) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetTitle("Receipt", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, tr(s.clinicName))
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "RECEIPT")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 11)
	lines := []string{
		fmt.Sprintf("Booking      : #%d", b.ID),
		fmt.Sprintf("Type         : %s", b.Type),
		fmt.Sprintf("Scheduled at : %s", b.ScheduledAt.Format(receiptTimeFormat)),
		fmt.Sprintf("Status       : %s", b.Status),
		fmt.Sprintf("Issued at    : %s", s.now().Format(receiptTimeFormat)),
	}
	for _, line := range lines {
		pdf.Cell(0, 6, line)
		pdf.Ln(6)
	}
	pdf.Ln(4)

	if b.IsConsultation() {
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(140, 7, "Consultation fee", "B", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, formatAmount(b.ConsultationFee), "B", 1, "R", false, 0, "")
	} else {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(80, 7, "Treatment", "B", 0, "L", false, 0, "")
		pdf.CellFormat(20, 7, "Qty", "B", 0, "R", false, 0, "")
		pdf.CellFormat(40, 7, "Unit price", "B", 0, "R", false, 0, "")
		pdf.CellFormat(40, 7, "Subtotal", "B", 1, "R", false, 0, "")

		pdf.SetFont("Helvetica", "", 11)
		for i := range b.LineItems {
			item := &b.LineItems[i]
			pdf.CellFormat(80, 7, tr(item.TreatmentName), "", 0, "L", false, 0, "")
			pdf.CellFormat(20, 7, fmt.Sprintf("%d", item.Quantity), "", 0, "R", false, 0, "")
			pdf.CellFormat(40, 7, formatAmount(item.Price), "", 0, "R", false, 0, "")
			pdf.CellFormat(40, 7, formatAmount(item.Subtotal()), "", 1, "R", false, 0, "")

			if note := promoNote(item); note != "" {
				pdf.SetFont("Helvetica", "I", 9)
				pdf.CellFormat(180, 5, tr(note), "", 1, "L", false, 0, "")
				pdf.SetFont("Helvetica", "", 11)
			}
		}
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(140, 8, "Total", "T", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, formatAmount(b.TotalAmount), "T", 1, "R", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "I", 10)
	if paid != nil && paid.PaidAt != nil {
		pdf.MultiCell(0, 6, fmt.Sprintf("Paid %s via %s (order %s) at %s.",
			formatAmount(paid.Amount), paid.Provider, paid.OrderID, paid.PaidAt.Format(receiptTimeFormat)), "", "", false)
	} else {
		pdf.MultiCell(0, 6, "Not paid yet. Line items may still change.", "", "", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// promoNote подпись об акции под позицией
func promoNote(item *domain.BookingLineItem) string {
	if item.PromoApplied == nil {
		return ""
	}

	note := "  Promo: " + item.PromoApplied.Name
	if item.OriginalPrice != nil && *item.OriginalPrice > item.Price {
		note += fmt.Sprintf(" (base %s, saved %s per unit)",
			formatAmount(*item.OriginalPrice), formatAmount(*item.OriginalPrice-item.Price))
	}
	return note
}

// settledPayment последний оплаченный платёж бронирования
func settledPayment(payments []*domain.Payment) *domain.Payment {
	var paid *domain.Payment
	for _, p := range payments {
		if p.IsSettled() {
			paid = p
		}
	}
	return paid
}

// formatAmount форматирует сумму с разделителями тысяч: 1250000 -> 1.250.000
func formatAmount(v int64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}

	digits := fmt.Sprintf("%d", v)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return sign + b.String()
}
