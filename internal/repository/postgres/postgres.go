package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/ridexchange/dealer-api/internal/repository"
	"github.com/ridexchange/dealer-api/pkg/metrics"
)

type bookingRepository struct {
	BaseRepository
}

type dealershipRepository struct {
	BaseRepository
}

type auditRepository struct {
	BaseRepository
}

func NewBookingRepository(db *sqlx.DB, m *metrics.Metrics) repository.BookingRepository {
	return &bookingRepository{BaseRepository: NewBaseRepository(db, m)}
}

func NewDealershipRepository(db *sqlx.DB, m *metrics.Metrics) repository.DealershipRepository {
	return &dealershipRepository{BaseRepository: NewBaseRepository(db, m)}
}

func NewAuditRepository(db *sqlx.DB, m *metrics.Metrics) repository.AuditRepository {
	return &auditRepository{BaseRepository: NewBaseRepository(db, m)}
}
