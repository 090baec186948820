package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"equipment-inventory-api/internal/model"
)

// ActionLogRepository appends and reads the equipment action log.
type ActionLogRepository interface {
	Insert(ctx context.Context, entry model.ActionLogEntry) error
	ListByEquipment(ctx context.Context, equipmentID int64) ([]model.ActionLogEntry, error)
}

type actionLogRepository struct {
	DB *sql.DB
}

// NewActionLogRepository creates a new ActionLogRepository.
func NewActionLogRepository(db *sql.DB) ActionLogRepository {
	return &actionLogRepository{DB: db}
}

// Insert appends one entry. The caller owns the timeout.
func (r *actionLogRepository) Insert(ctx context.Context, entry model.ActionLogEntry) error {
	query := `
		INSERT INTO logs (action_type, equipment_id, user_id, details)
		VALUES ($1, $2, $3, $4)`

	if _, err := r.DB.ExecContext(ctx, query,
		string(entry.ActionType),
		entry.EquipmentID,
		entry.UserID,
		entry.Details,
	); err != nil {
		return fmt.Errorf("failed to insert action log: %w", err)
	}

	return nil
}

// ListByEquipment returns the history of one equipment record, oldest first.
func (r *actionLogRepository) ListByEquipment(ctx context.Context, equipmentID int64) ([]model.ActionLogEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	query := `
		SELECT id, action_type, equipment_id, user_id, details, created_at
		FROM logs
		WHERE equipment_id = $1
		ORDER BY created_at, id`

	rows, err := r.DB.QueryContext(ctx, query, equipmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query action logs: %w", err)
	}
	defer rows.Close()

	entries := []model.ActionLogEntry{}
	for rows.Next() {
		var e model.ActionLogEntry
		if err := rows.Scan(&e.ID, &e.ActionType, &e.EquipmentID, &e.UserID, &e.Details, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan action log: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return entries, nil
}
