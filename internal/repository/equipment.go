package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"equipment-inventory-api/internal/model"
	"equipment-inventory-api/internal/search"
)

// Custom errors for better error handling
var (
	ErrEquipmentNotFound = errors.New("equipment not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateEmail    = errors.New("user with this email already exists")
)

// EquipmentRepository is an interface for interacting with equipment data.
// Every read excludes retired rows.
type EquipmentRepository interface {
	ListActive(ctx context.Context) ([]model.Equipment, error)
	Search(ctx context.Context, filter search.Filter) ([]model.Equipment, error)
	GetActiveByID(ctx context.Context, id int64) (*model.Equipment, error)
	Create(ctx context.Context, equipment *model.Equipment) error
	Update(ctx context.Context, equipment *model.Equipment) error
	SoftDelete(ctx context.Context, id int64) error
}

type equipmentRepository struct {
	DB *sql.DB
}

// NewEquipmentRepository creates a new EquipmentRepository.
func NewEquipmentRepository(db *sql.DB) EquipmentRepository {
	return &equipmentRepository{DB: db}
}

// ListActive retrieves every active equipment record ordered by id.
func (r *equipmentRepository) ListActive(ctx context.Context) ([]model.Equipment, error) {
	return r.Search(ctx, search.Filter{})
}

// Search runs the query composed from filter.
func (r *equipmentRepository) Search(ctx context.Context, filter search.Filter) ([]model.Equipment, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	query, args, err := search.BuildQuery(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to build equipment query: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query equipment: %w", err)
	}
	defer rows.Close()

	items := []model.Equipment{}
	for rows.Next() {
		var e model.Equipment
		if err := scanEquipment(rows, &e); err != nil {
			return nil, fmt.Errorf("failed to scan equipment: %w", err)
		}
		items = append(items, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return items, nil
}

// GetActiveByID retrieves a single active record. Retired rows are
// reported as ErrEquipmentNotFound.
func (r *equipmentRepository) GetActiveByID(ctx context.Context, id int64) (*model.Equipment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `SELECT ` + search.SelectList + ` FROM equipment WHERE id = $1 AND active = TRUE`

	var e model.Equipment
	if err := scanEquipment(r.DB.QueryRowContext(ctx, query, id), &e); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEquipmentNotFound
		}
		return nil, fmt.Errorf("failed to get equipment by ID: %w", err)
	}
	return &e, nil
}

// Create inserts equipment and fills in the store-assigned id, active flag
// and creation time.
func (r *equipmentRepository) Create(ctx context.Context, equipment *model.Equipment) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `
		INSERT INTO equipment (type, name, purchase_date, details, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, active, created_at`

	err := r.DB.QueryRowContext(ctx, query,
		equipment.Type,
		equipment.Name,
		nullIfEmpty(equipment.PurchaseDate),
		nullIfEmpty(equipment.Details),
		equipment.Status,
	).Scan(&equipment.ID, &equipment.Active, &equipment.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create equipment: %w", err)
	}

	return nil
}

// Update overwrites every mutable field of an active record.
func (r *equipmentRepository) Update(ctx context.Context, equipment *model.Equipment) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `
		UPDATE equipment
		SET type = $1, name = $2, purchase_date = $3, details = $4, status = $5
		WHERE id = $6 AND active = TRUE`

	result, err := r.DB.ExecContext(ctx, query,
		equipment.Type,
		equipment.Name,
		nullIfEmpty(equipment.PurchaseDate),
		nullIfEmpty(equipment.Details),
		equipment.Status,
		equipment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update equipment: %w", err)
	}

	return expectOneRow(result, ErrEquipmentNotFound)
}

// SoftDelete retires an active record. Retiring twice reports
// ErrEquipmentNotFound.
func (r *equipmentRepository) SoftDelete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `UPDATE equipment SET active = FALSE WHERE id = $1 AND active = TRUE`

	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete equipment: %w", err)
	}

	return expectOneRow(result, ErrEquipmentNotFound)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanEquipment reads a row selected with search.Columns.
func scanEquipment(row rowScanner, e *model.Equipment) error {
	return row.Scan(&e.ID, &e.Type, &e.Name, &e.PurchaseDate, &e.Details, &e.Status, &e.Active, &e.CreatedAt)
}

func expectOneRow(result sql.Result, notFound error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return notFound
	}

	return nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
