package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mediconnect/admin/internal/models"
	"github.com/sirupsen/logrus"
)

const profileColumns = `
id, full_name, email, role::text, contact_number, address, postal_code,
to_char(date_of_birth, 'YYYY-MM-DD'), gender::text, availability_days, availability_times,
profile_picture_url, created_at, updated_at`

type ProfileRepository struct {
	db     *pgxpool.Pool
	logger *logrus.Logger
}

func NewProfileRepository(db *pgxpool.Pool, logger *logrus.Logger) *ProfileRepository {
	return &ProfileRepository{
		db:     db,
		logger: logger,
	}
}

func scanProfile(row pgx.Row) (*models.Profile, error) {
	var p models.Profile
	var role string
	if err := row.Scan(
		&p.ID,
		&p.FullName,
		&p.Email,
		&role,
		&p.ContactNumber,
		&p.Address,
		&p.PostalCode,
		&p.DateOfBirth,
		&p.Gender,
		&p.AvailabilityDays,
		&p.AvailabilityTimes,
		&p.ProfilePictureURL,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	p.Role = models.Role(role)
	return &p, nil
}

func profileWhere(f models.ProfileFilter) *whereBuilder {
	b := &whereBuilder{}
	if f.Role != "" {
		b.eq("role::text", string(f.Role))
	}
	if f.Search != "" {
		cols := []string{"full_name", "email"}
		if f.SearchPhone {
			cols = append(cols, "contact_number")
		}
		b.ilikeAny(f.Search, cols...)
	}
	return b
}

func (r *ProfileRepository) ListProfiles(ctx context.Context, f models.ProfileFilter, req models.PageRequest) ([]models.Profile, error) {
	b := profileWhere(f)
	q := `SELECT ` + profileColumns + ` FROM profiles` + b.sql() +
		` ORDER BY created_at DESC, id LIMIT ` + b.arg(req.Limit) + ` OFFSET ` + b.arg(req.Offset())

	rows, err := r.db.Query(ctx, q, b.args...)
	if err != nil {
		r.logger.WithError(err).Error("Failed to list profiles")
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	profiles := make([]models.Profile, 0, req.Limit)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	return profiles, nil
}

func (r *ProfileRepository) CountProfiles(ctx context.Context, f models.ProfileFilter) (int, error) {
	b := profileWhere(f)

	var n int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM profiles`+b.sql(), b.args...).Scan(&n); err != nil {
		r.logger.WithError(err).Error("Failed to count profiles")
		return 0, fmt.Errorf("failed to count profiles: %w", err)
	}
	return n, nil
}

func (r *ProfileRepository) ProfileByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	p, err := scanProfile(r.db.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		r.logger.WithError(err).Error("Failed to get profile")
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

func (r *ProfileRepository) UpdateRole(ctx context.Context, id uuid.UUID, role models.Role) (*models.Profile, error) {
	q := `UPDATE profiles SET role = $2, updated_at = now() WHERE id = $1 RETURNING ` + profileColumns

	p, err := scanProfile(r.db.QueryRow(ctx, q, id, string(role)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		r.logger.WithError(err).Error("Failed to update profile role")
		return nil, fmt.Errorf("failed to update role: %w", err)
	}
	return p, nil
}

// DeleteProfile hard-deletes the profile only if it currently has the given role.
func (r *ProfileRepository) DeleteProfile(ctx context.Context, id uuid.UUID, role models.Role) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM profiles WHERE id = $1 AND role::text = $2`, id, string(role))
	if err != nil {
		r.logger.WithError(err).Error("Failed to delete profile")
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
