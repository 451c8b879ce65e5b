package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ClinicService/internal/infra/storage/booking"
	treatmentRepo "github.com/m04kA/SMC-ClinicService/internal/infra/storage/treatment"
)

// memStore хранилище в памяти с compare-and-swap по версии бронирования
// Чтение не блокирует строку, поэтому параллельные операции действительно конфликтуют
type memStore struct {
	mu         sync.Mutex
	bookings   map[int64]*domain.Booking
	treatments map[int64]*domain.Treatment
	promos     []*domain.Promo
	audit      []*domain.AuditEntry
	nextItemID int64

	// afterRead вызывается после каждого чтения бронирования
	afterRead func()
}

func newMemStore() *memStore {
	return &memStore{
		bookings:   make(map[int64]*domain.Booking),
		treatments: make(map[int64]*domain.Treatment),
	}
}

func (m *memStore) addBooking(b *domain.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b.Type == "" {
		b.Type = domain.TypeTreatment
	}
	if b.Version == 0 {
		b.Version = 1
	}
	m.bookings[b.ID] = cloneBooking(b)
}

func (m *memStore) addTreatment(t *domain.Treatment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.treatments[t.ID] = t
}

func (m *memStore) booking(id int64) *domain.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneBooking(m.bookings[id])
}

func (m *memStore) auditEntries() []*domain.AuditEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.AuditEntry(nil), m.audit...)
}

func cloneBooking(b *domain.Booking) *domain.Booking {
	if b == nil {
		return nil
	}
	c := *b
	c.LineItems = append([]domain.BookingLineItem(nil), b.LineItems...)
	return &c
}

func (m *memStore) GetByIDForUpdate(_ context.Context, id int64) (*domain.Booking, error) {
	m.mu.Lock()
	b, ok := m.bookings[id]
	var c *domain.Booking
	if ok {
		c = cloneBooking(b)
	}
	hook := m.afterRead
	m.mu.Unlock()

	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	if hook != nil {
		hook()
	}
	return c, nil
}

func (m *memStore) UpdateTotal(_ context.Context, id int64, total int64, expectedVersion int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.bookings[id]
	if !ok {
		return 0, bookingRepo.ErrBookingNotFound
	}
	if b.Version != expectedVersion {
		return 0, bookingRepo.ErrVersionConflict
	}
	b.TotalAmount = total
	b.Version++
	return b.Version, nil
}

func (m *memStore) Lock(_ context.Context, id int64, at time.Time, expectedVersion int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.bookings[id]
	if !ok {
		return 0, bookingRepo.ErrBookingNotFound
	}
	if b.Version != expectedVersion || b.LockedAt != nil {
		return 0, bookingRepo.ErrVersionConflict
	}
	b.LockedAt = &at
	b.Version++
	return b.Version, nil
}

func (m *memStore) InsertLineItem(_ context.Context, item *domain.BookingLineItem) (*domain.BookingLineItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b := m.bookings[item.BookingID]
	for _, existing := range b.LineItems {
		if existing.TreatmentID == item.TreatmentID {
			return nil, bookingRepo.ErrLineItemExists
		}
	}
	m.nextItemID++
	item.ID = m.nextItemID
	b.LineItems = append(b.LineItems, *item)
	return item, nil
}

func (m *memStore) DeleteLineItem(_ context.Context, bookingID, treatmentID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	b := m.bookings[bookingID]
	for i := range b.LineItems {
		if b.LineItems[i].TreatmentID == treatmentID {
			b.LineItems = append(b.LineItems[:i], b.LineItems[i+1:]...)
			return nil
		}
	}
	return bookingRepo.ErrLineItemNotFound
}

func (m *memStore) UpdateLineItemQuantity(_ context.Context, bookingID, treatmentID int64, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	b := m.bookings[bookingID]
	for i := range b.LineItems {
		if b.LineItems[i].TreatmentID == treatmentID {
			b.LineItems[i].Quantity = quantity
			return nil
		}
	}
	return bookingRepo.ErrLineItemNotFound
}

func (m *memStore) ListActive(_ context.Context, _ int64, _ time.Time) ([]*domain.Promo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.Promo(nil), m.promos...), nil
}

func (m *memStore) Insert(_ context.Context, entry *domain.AuditEntry) (*domain.AuditEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry.ID = int64(len(m.audit) + 1)
	m.audit = append(m.audit, entry)
	return entry, nil
}

func (m *memStore) GetByID(_ context.Context, id int64) (*domain.Treatment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tr, ok := m.treatments[id]
	if !ok {
		return nil, treatmentRepo.ErrTreatmentNotFound
	}
	c := *tr
	return &c, nil
}

type passthroughTx struct{}

func (passthroughTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeMetrics struct {
	mu         sync.Mutex
	operations map[string]int
	retries    map[string]int
	violations map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{
		operations: make(map[string]int),
		retries:    make(map[string]int),
		violations: make(map[string]int),
	}
}

func (f *fakeMetrics) LedgerOperation(action, result string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.operations[action+"/"+result]++
}

func (f *fakeMetrics) LedgerConflictRetry(action string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.retries[action]++
}

func (f *fakeMetrics) LedgerInvariantViolation(action string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.violations[action]++
}

func (f *fakeMetrics) retryCount(action string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.retries[action]
}

type testLogger struct {
	mu     sync.Mutex
	errors []string
}

func (l *testLogger) Info(string, ...interface{}) {}
func (l *testLogger) Warn(string, ...interface{}) {}

func (l *testLogger) Error(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, fmt.Sprintf(format, v...))
}
