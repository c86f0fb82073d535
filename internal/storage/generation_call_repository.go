package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fleveque/location-service/internal/model"
)

// GenerationCallRepository handles persistence of generation call tracking.
type GenerationCallRepository interface {
	Create(ctx context.Context, call *model.GenerationCall) error
	Count(ctx context.Context) (int64, error)
	CountBySuccess(ctx context.Context, success bool) (int64, error)
	ListRecent(ctx context.Context, limit int) ([]model.GenerationCall, error)
}

type sqliteGenerationCallRepository struct {
	db *sqlx.DB
}

// NewGenerationCallRepository creates a new SQLite-backed GenerationCallRepository.
func NewGenerationCallRepository(db *sqlx.DB) GenerationCallRepository {
	return &sqliteGenerationCallRepository{db: db}
}

func (r *sqliteGenerationCallRepository) Create(ctx context.Context, call *model.GenerationCall) error {
	result, err := r.db.NamedExecContext(ctx, `
		INSERT INTO generation_calls (place, tags, provider, model, success, duration_ms, error_message)
		VALUES (:place, :tags, :provider, :model, :success, :duration_ms, :error_message)
	`, call)
	if err != nil {
		return fmt.Errorf("creating generation call record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	call.ID = id
	return nil
}

func (r *sqliteGenerationCallRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM generation_calls")
	return count, err
}

func (r *sqliteGenerationCallRepository) CountBySuccess(ctx context.Context, success bool) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM generation_calls WHERE success = ?", success)
	return count, err
}

func (r *sqliteGenerationCallRepository) ListRecent(ctx context.Context, limit int) ([]model.GenerationCall, error) {
	var calls []model.GenerationCall
	err := r.db.SelectContext(ctx, &calls,
		"SELECT * FROM generation_calls ORDER BY id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("listing generation calls: %w", err)
	}
	return calls, nil
}
