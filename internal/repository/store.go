package repository

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Ключи плоского key→JSON хранилища. Каждый ключ хранит одно значение
// целиком, поэтому любая мутация атомарна с точки зрения ядра.
const (
	KeyAPIConfig   = "api-config"
	KeyMealHistory = "meal-history"
	KeySavedDishes = "saved-dishes"
	KeyUserProfile = "user-profile"
)

// KV описывает плоское хранилище ключ→JSON. Репозитории зависят от
// интерфейса, чтобы тесты могли подменять Postgres картой в памяти.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Store реализует KV поверх таблицы app_state в PostgreSQL.
type Store struct {
	db *pgxpool.Pool
}

// NewStore создает хранилище поверх пула подключений.
func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Get возвращает значение ключа и признак его наличия.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte

	err := s.db.QueryRow(ctx,
		`SELECT value FROM app_state WHERE key = $1`,
		key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return value, true, nil
}

// Put записывает значение ключа, заменяя предыдущее.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO app_state (key, value, updated_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (key) DO UPDATE SET value = $2, updated_at = $3`,
		key, value, time.Now().UTC(),
	)
	return err
}

// Delete удаляет ключ. Отсутствующий ключ не считается ошибкой.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM app_state WHERE key = $1`, key)
	return err
}

// loadJSON читает и разбирает значение ключа. Нечитаемый JSON трактуется как
// отсутствие значения: ключ с битыми данными отбрасывается, а не роняет
// загрузку (доступность важнее нечитаемого состояния).
func loadJSON(ctx context.Context, kv KV, key string, target any) (bool, error) {
	raw, found, err := kv.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}

	if err := json.Unmarshal(raw, target); err != nil {
		slog.Warn("discarding corrupt persisted value",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return false, nil
	}

	return true, nil
}

func saveJSON(ctx context.Context, kv KV, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return kv.Put(ctx, key, raw)
}
