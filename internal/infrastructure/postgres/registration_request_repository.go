package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/portal-api/internal/domain"
	"github.com/jhoicas/portal-api/internal/domain/entity"
	"github.com/jhoicas/portal-api/internal/domain/repository"
)

var _ repository.RegistrationRequestRepository = (*RegistrationRequestRepo)(nil)

const registrationColumns = `id, email, name, requested_role, status, reviewed_by, created_at, updated_at`

// RegistrationRequestRepo solicitudes de registro sobre PostgreSQL.
type RegistrationRequestRepo struct {
	q Querier
}

// NewRegistrationRequestRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRegistrationRequestRepository(q Querier) *RegistrationRequestRepo {
	return &RegistrationRequestRepo{q: q}
}

// Create persiste una solicitud. Solo puede haber una pendiente por email.
func (r *RegistrationRequestRepo) Create(ctx context.Context, req *entity.RegistrationRequest) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO registration_requests (`+registrationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		req.ID, req.Email, req.Name, req.RequestedRole, req.Status, nullString(req.ReviewedBy),
		req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert registration request: %w", err)
	}
	return nil
}

// GetByID obtiene una solicitud por ID.
func (r *RegistrationRequestRepo) GetByID(ctx context.Context, id string) (*entity.RegistrationRequest, error) {
	return r.findOne(ctx, `SELECT `+registrationColumns+` FROM registration_requests WHERE id = $1`, id)
}

// GetPendingByEmail obtiene la solicitud pendiente de un email.
func (r *RegistrationRequestRepo) GetPendingByEmail(ctx context.Context, email string) (*entity.RegistrationRequest, error) {
	return r.findOne(ctx, `SELECT `+registrationColumns+` FROM registration_requests
		WHERE lower(email) = lower($1) AND status = 'pending'`, email)
}

// Update actualiza estado y revisor.
func (r *RegistrationRequestRepo) Update(ctx context.Context, req *entity.RegistrationRequest) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE registration_requests SET status = $2, reviewed_by = $3, updated_at = $4 WHERE id = $1`,
		req.ID, req.Status, nullString(req.ReviewedBy), req.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update registration request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByStatus lista solicitudes por estado (vacío = todas).
func (r *RegistrationRequestRepo) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*entity.RegistrationRequest, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+registrationColumns+` FROM registration_requests
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list registration requests: %w", err)
	}
	defer rows.Close()
	var list []*entity.RegistrationRequest
	for rows.Next() {
		req, err := scanRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("scan registration request: %w", err)
		}
		list = append(list, req)
	}
	return list, rows.Err()
}

func (r *RegistrationRequestRepo) findOne(ctx context.Context, query string, arg any) (*entity.RegistrationRequest, error) {
	req, err := scanRegistration(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get registration request: %w", err)
	}
	return req, nil
}

func scanRegistration(row pgx.Row) (*entity.RegistrationRequest, error) {
	var req entity.RegistrationRequest
	var reviewedBy *string
	if err := row.Scan(&req.ID, &req.Email, &req.Name, &req.RequestedRole, &req.Status,
		&reviewedBy, &req.CreatedAt, &req.UpdatedAt); err != nil {
		return nil, err
	}
	req.ReviewedBy = derefString(reviewedBy)
	return &req, nil
}
