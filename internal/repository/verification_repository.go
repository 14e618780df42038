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

const verificationColumns = `
v.id, v.user_id, v.status::text, v.primary_id_type, v.primary_id_front, v.primary_id_back,
v.secondary_id_type, v.secondary_id_image, v.selfie_image, v.reviewer_notes,
v.created_at, v.updated_at`

const verificationUserColumns = `p.id, p.full_name, p.email, p.role::text, p.profile_picture_url`

const verificationFrom = ` FROM verifications v LEFT JOIN profiles p ON p.id = v.user_id`

type VerificationRepository struct {
	db     *pgxpool.Pool
	logger *logrus.Logger
}

func NewVerificationRepository(db *pgxpool.Pool, logger *logrus.Logger) *VerificationRepository {
	return &VerificationRepository{
		db:     db,
		logger: logger,
	}
}

func scanVerification(row pgx.Row) (*models.Verification, error) {
	var v models.Verification
	var status string
	var (
		userID   *uuid.UUID
		fullName *string
		email    *string
		role     *string
		picture  *string
	)
	if err := row.Scan(
		&v.ID,
		&v.UserID,
		&status,
		&v.PrimaryIDType,
		&v.PrimaryIDFront,
		&v.PrimaryIDBack,
		&v.SecondaryIDType,
		&v.SecondaryIDImage,
		&v.SelfieImage,
		&v.ReviewerNotes,
		&v.CreatedAt,
		&v.UpdatedAt,
		&userID,
		&fullName,
		&email,
		&role,
		&picture,
	); err != nil {
		return nil, err
	}
	v.Status = models.VerificationStatus(status)

	if userID != nil {
		u := &models.VerificationUser{
			ID:                *userID,
			FullName:          fullName,
			Email:             email,
			ProfilePictureURL: picture,
		}
		if role != nil {
			u.Role = models.Role(*role)
		}
		v.User = u
	}
	return &v, nil
}

func verificationWhere(f models.VerificationFilter) *whereBuilder {
	b := &whereBuilder{}
	if f.Status != "" {
		b.eq("v.status::text", string(f.Status))
	}
	if f.Search != "" {
		b.ilikeAny(f.Search, "p.full_name", "p.email")
	}
	return b
}

func (r *VerificationRepository) ListVerifications(ctx context.Context, f models.VerificationFilter, req models.PageRequest) ([]models.Verification, error) {
	b := verificationWhere(f)
	q := `SELECT ` + verificationColumns + `, ` + verificationUserColumns + verificationFrom + b.sql() +
		` ORDER BY v.created_at DESC, v.id LIMIT ` + b.arg(req.Limit) + ` OFFSET ` + b.arg(req.Offset())

	rows, err := r.db.Query(ctx, q, b.args...)
	if err != nil {
		r.logger.WithError(err).Error("Failed to list verifications")
		return nil, fmt.Errorf("failed to list verifications: %w", err)
	}
	defer rows.Close()

	out := make([]models.Verification, 0, req.Limit)
	for rows.Next() {
		v, err := scanVerification(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan verification: %w", err)
		}
		out = append(out, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list verifications: %w", err)
	}

	return out, nil
}

func (r *VerificationRepository) CountVerifications(ctx context.Context, f models.VerificationFilter) (int, error) {
	b := verificationWhere(f)

	var n int
	if err := r.db.QueryRow(ctx, `SELECT count(*)`+verificationFrom+b.sql(), b.args...).Scan(&n); err != nil {
		r.logger.WithError(err).Error("Failed to count verifications")
		return 0, fmt.Errorf("failed to count verifications: %w", err)
	}
	return n, nil
}

func (r *VerificationRepository) VerificationByID(ctx context.Context, id uuid.UUID) (*models.Verification, error) {
	q := `SELECT ` + verificationColumns + `, ` + verificationUserColumns + verificationFrom + ` WHERE v.id = $1`

	v, err := scanVerification(r.db.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		r.logger.WithError(err).Error("Failed to get verification")
		return nil, fmt.Errorf("failed to get verification: %w", err)
	}
	return v, nil
}

// UpdateVerificationStatus writes a review transition. reviewer_notes is only
// touched when the update carries notes; updated_at never moves backwards.
func (r *VerificationRepository) UpdateVerificationStatus(ctx context.Context, id uuid.UUID, u models.StatusUpdate) (*models.Verification, error) {
	b := &whereBuilder{}
	sets := "status = " + b.arg(string(u.Status)) +
		", updated_at = GREATEST(" + b.arg(u.UpdatedAt) + "::timestamptz, updated_at + interval '1 microsecond')"
	if u.Notes.Set {
		sets += ", reviewer_notes = " + b.arg(u.Notes.Ptr())
	}
	idArg := b.arg(id)

	q := `WITH v AS (UPDATE verifications SET ` + sets + ` WHERE id = ` + idArg + ` RETURNING *)
	SELECT ` + verificationColumns + `, ` + verificationUserColumns + ` FROM v LEFT JOIN profiles p ON p.id = v.user_id`

	v, err := scanVerification(r.db.QueryRow(ctx, q, b.args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		r.logger.WithError(err).Error("Failed to update verification status")
		return nil, fmt.Errorf("failed to update verification: %w", err)
	}
	return v, nil
}
