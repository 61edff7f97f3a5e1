package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridexchange/dealer-api/internal/middleware"
	"github.com/ridexchange/dealer-api/internal/model"
	"github.com/ridexchange/dealer-api/internal/repository"
	"github.com/ridexchange/dealer-api/internal/service/audit"
	bookingService "github.com/ridexchange/dealer-api/internal/service/booking"
	dealershipService "github.com/ridexchange/dealer-api/internal/service/dealership"
	"github.com/ridexchange/dealer-api/pkg/metrics"
)

type memBookingRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*model.ServiceBooking
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{bookings: make(map[uuid.UUID]*model.ServiceBooking)}
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func (m *memBookingRepo) CreateIfSlotFree(ctx context.Context, booking *model.ServiceBooking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bookings {
		if b.Status.Active() && sameDay(b.ServiceDate, booking.ServiceDate) && b.StartTime == booking.StartTime {
			return repository.ErrSlotTaken
		}
	}
	booking.ID = uuid.New()
	booking.Status = model.BookingStatusPending
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = booking.CreatedAt
	stored := *booking
	m.bookings[booking.ID] = &stored
	return nil
}

func (m *memBookingRepo) Get(ctx context.Context, id uuid.UUID) (*model.ServiceBooking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (m *memBookingRepo) List(ctx context.Context, filters *model.BookingFilters) ([]*model.ServiceBooking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*model.ServiceBooking{}
	for _, b := range m.bookings {
		copied := *b
		out = append(out, &copied)
	}
	return out, nil
}

func (m *memBookingRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.ServiceBooking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*model.ServiceBooking{}
	for _, b := range m.bookings {
		if b.UserID != nil && *b.UserID == userID {
			copied := *b
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *memBookingRepo) ListActiveByDate(ctx context.Context, date time.Time) ([]*model.ServiceBooking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*model.ServiceBooking{}
	for _, b := range m.bookings {
		if b.Status.Active() && sameDay(b.ServiceDate, date) {
			copied := *b
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *memBookingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.BookingStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return repository.ErrNotFound
	}
	if b.Status.Terminal() {
		return repository.ErrStatusFinal
	}
	b.Status = status
	return nil
}

type memDealershipRepo struct {
	dealership *model.DealershipInfo
}

func (m *memDealershipRepo) Get(ctx context.Context) (*model.DealershipInfo, error) {
	if m.dealership == nil {
		return nil, repository.ErrNotFound
	}
	return m.dealership, nil
}

func (m *memDealershipRepo) CountWorkingDays(ctx context.Context) (int, error) {
	if m.dealership == nil {
		return 0, nil
	}
	return len(m.dealership.WorkingHours), nil
}

func (m *memDealershipRepo) SeedDefault(ctx context.Context) (*model.DealershipInfo, error) {
	info := &model.DealershipInfo{ID: uuid.New(), Name: "Test Motors"}
	for _, d := range model.Week {
		info.WorkingHours = append(info.WorkingHours, model.WorkingDay{
			DayOfWeek: d, OpenTime: "09:00", CloseTime: "18:00", IsOpen: true,
		})
	}
	m.dealership = info
	return info, nil
}

type memAuditRepo struct{}

func (memAuditRepo) Create(ctx context.Context, entry *model.AuditLog) error { return nil }

type memMailer struct{}

func (memMailer) SendBookingConfirmation(ctx context.Context, booking *model.ServiceBooking) error {
	return nil
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dealershipSvc := dealershipService.NewService(&memDealershipRepo{}, time.Minute)
	svc := bookingService.NewService(
		newMemBookingRepo(),
		dealershipSvc,
		nil,
		memMailer{},
		audit.NewService(memAuditRepo{}),
		metrics.New("test"),
	)

	r := gin.New()
	h := NewHandler(svc)
	auth := middleware.NewAuthMiddleware("test-secret", "", "staff")
	h.RegisterRoutes(r.Group("/api/v1"), auth)
	return r
}

func postJSON(r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func bookingPayload(date string) map[string]interface{} {
	return map[string]interface{}{
		"customer_name":  "Ada Lovelace",
		"customer_email": "ada@example.com",
		"customer_phone": "+1 555 0100",
		"vehicle_make":   "Toyota",
		"vehicle_model":  "Corolla",
		"vehicle_year":   2019,
		"service_date":   date,
		"start_time":     "10:00",
		"end_time":       "11:00",
	}
}

func TestGetAvailabilityEndpoint(t *testing.T) {
	r := newTestRouter(t)
	date := time.Now().AddDate(0, 0, 3).Format("2006-01-02")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/availability?date="+date, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Date  string `json:"date"`
			Slots []struct {
				ID        string `json:"id"`
				StartTime string `json:"start_time"`
				EndTime   string `json:"end_time"`
			} `json:"slots"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, date, resp.Data.Date)
	require.Len(t, resp.Data.Slots, 9)
	assert.Equal(t, "09:00-10:00", resp.Data.Slots[0].ID)
}

func TestGetAvailabilityRejectsBadDate(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/availability?date=tomorrow", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookServiceEndpoint(t *testing.T) {
	r := newTestRouter(t)
	date := time.Now().AddDate(0, 0, 3).Format("2006-01-02")

	w := postJSON(r, "/api/v1/bookings", bookingPayload(date))

	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Success bool                 `json:"success"`
		Data    model.ServiceBooking `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, model.BookingStatusPending, resp.Data.Status)
	assert.Equal(t, "10:00", resp.Data.StartTime)
}

func TestBookServiceEndpointValidation(t *testing.T) {
	r := newTestRouter(t)
	date := time.Now().AddDate(0, 0, 3).Format("2006-01-02")

	payload := bookingPayload(date)
	payload["customer_email"] = "not-an-email"
	w := postJSON(r, "/api/v1/bookings", payload)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "CustomerEmail")
}

func TestBookServiceEndpointConflict(t *testing.T) {
	r := newTestRouter(t)
	date := time.Now().AddDate(0, 0, 3).Format("2006-01-02")

	w := postJSON(r, "/api/v1/bookings", bookingPayload(date))
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(r, "/api/v1/bookings", bookingPayload(date))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "already booked")
}

func TestBookedSlotDisappearsFromAvailability(t *testing.T) {
	r := newTestRouter(t)
	date := time.Now().AddDate(0, 0, 3).Format("2006-01-02")

	w := postJSON(r, "/api/v1/bookings", bookingPayload(date))
	require.Equal(t, http.StatusCreated, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/availability?date="+date, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.NotContains(t, body, `"10:00-11:00"`)
	assert.Contains(t, body, `"09:00-10:00"`)
}

func TestListMyBookingsRequiresAuth(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/me", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestStaffEndpointsRequireStaffRole(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	body := bytes.NewReader([]byte(fmt.Sprintf(`{"status": %q}`, model.BookingStatusConfirmed)))
	patch := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/"+uuid.NewString()+"/status", body)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, patch)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
