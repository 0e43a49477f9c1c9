package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AIRepository хранит журнал обращений к AI-провайдерам для диагностики.
type AIRepository struct {
	db *pgxpool.Pool
}

type AIRequestLog struct {
	ID           uuid.UUID
	UseCase      string
	Provider     string
	Model        string
	Prompt       string
	RawResponse  string
	Success      bool
	ErrorMessage *string
	CreatedAt    time.Time
}

// NewAIRepository создает репозиторий журнала AI-запросов.
func NewAIRepository(db *pgxpool.Pool) *AIRepository {
	return &AIRepository{db: db}
}

// LogRequest сохраняет запись об обращении к провайдеру.
func (r *AIRepository) LogRequest(ctx context.Context, log AIRequestLog) error {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO ai_requests
		 (id, use_case, provider, model, prompt, raw_response, success, error_message, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		log.ID,
		log.UseCase,
		log.Provider,
		log.Model,
		log.Prompt,
		log.RawResponse,
		log.Success,
		log.ErrorMessage,
		time.Now().UTC(),
	)
	return err
}

// ListRequests возвращает последние обращения к провайдерам.
func (r *AIRepository) ListRequests(ctx context.Context, limit int) ([]AIRequestLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, use_case, provider, model, prompt, raw_response, success, error_message, created_at
		 FROM ai_requests
		 ORDER BY created_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]AIRequestLog, 0)
	for rows.Next() {
		var log AIRequestLog
		if err := rows.Scan(
			&log.ID,
			&log.UseCase,
			&log.Provider,
			&log.Model,
			&log.Prompt,
			&log.RawResponse,
			&log.Success,
			&log.ErrorMessage,
			&log.CreatedAt,
		); err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}

	return logs, rows.Err()
}
