package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

type AppointmentRepository struct {
	db     *pgxpool.Pool
	logger *logrus.Logger
}

func NewAppointmentRepository(db *pgxpool.Pool, logger *logrus.Logger) *AppointmentRepository {
	return &AppointmentRepository{db: db, logger: logger}
}

func (r *AppointmentRepository) CountAppointments(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM appointments`).Scan(&n); err != nil {
		r.logger.WithError(err).Error("Failed to count appointments")
		return 0, fmt.Errorf("failed to count appointments: %w", err)
	}
	return n, nil
}
