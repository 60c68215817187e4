package postgres

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pribylovaa/go-vacancy-aggregator/internal/models"
	"github.com/pribylovaa/go-vacancy-aggregator/internal/pkg/log"
	"github.com/pribylovaa/go-vacancy-aggregator/internal/storage"
	"github.com/pribylovaa/go-vacancy-aggregator/internal/vacancy"
)

// Совпадает с migrations/1_init_vacancies.up.sql.
const schema = `
CREATE TABLE IF NOT EXISTS vacancies (
    position    BIGSERIAL PRIMARY KEY,
    vacancy_id  BIGINT UNIQUE,
    data        JSONB NOT NULL,
    saved_at    TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Storage хранит плоские представления вакансий в таблице vacancies:
// порядок — по position, уникальность — по vacancy_id (NULL для записей без id).
type Storage struct {
	db *pgxpool.Pool
}

// New создает новое подключение к PostgreSQL и создаёт таблицу, если её нет.
func New(ctx context.Context, dbURL string) (*Storage, error) {
	const op = "storage/postgres/New"

	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	db, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := db.Exec(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: ensure schema: %w", op, err)
	}

	return &Storage{db: db}, nil
}

// Close закрывает пул соединений.
func (s *Storage) Close() {
	s.db.Close()
}

// Проверка на соответствие интерфейсу Storage.
var _ storage.Storage = (*Storage)(nil)

// ReadAll возвращает записи в порядке сохранения.
// Строки, которые не удалось разобрать как объект, пропускаются с предупреждением.
func (s *Storage) ReadAll(ctx context.Context) ([]models.Mapping, error) {
	const op = "storage/postgres/ReadAll"

	rows, err := s.db.Query(ctx, `SELECT position, data FROM vacancies ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	lg := log.From(ctx)
	items := []models.Mapping{}

	for rows.Next() {
		var (
			pos  int64
			data []byte
		)
		if err := rows.Scan(&pos, &data); err != nil {
			return nil, fmt.Errorf("%s: scan row: %w", op, err)
		}

		item, err := decodeObject(data)
		if err != nil {
			lg.Warn("read_all_malformed_row",
				slog.String("op", op),
				slog.Int64("position", pos),
				slog.String("err", err.Error()),
			)
			continue
		}

		items = append(items, item)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, rows.Err())
	}

	return items, nil
}

// WriteAll заменяет содержимое таблицы в одной транзакции.
// Повторы id внутри items отбрасываются: vacancy_id уникален.
func (s *Storage) WriteAll(ctx context.Context, items []models.Mapping) error {
	const op = "storage/postgres/WriteAll"

	return s.inTx(ctx, op, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `TRUNCATE vacancies RESTART IDENTITY`); err != nil {
			return fmt.Errorf("truncate: %w", err)
		}
		return insertBatch(ctx, tx, items)
	})
}

// AppendWithoutDuplicates дописывает записи, id которых ещё нет в таблице.
// Записи без id добавляются всегда.
func (s *Storage) AppendWithoutDuplicates(ctx context.Context, items []models.Mapping) error {
	const op = "storage/postgres/AppendWithoutDuplicates"

	if len(items) == 0 {
		return nil
	}

	return s.inTx(ctx, op, func(tx pgx.Tx) error {
		return insertBatch(ctx, tx, items)
	})
}

// Clear удаляет все записи.
func (s *Storage) Clear(ctx context.Context) error {
	const op = "storage/postgres/Clear"

	if _, err := s.db.Exec(ctx, `TRUNCATE vacancies RESTART IDENTITY`); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) inTx(ctx context.Context, op string, fn func(tx pgx.Tx) error) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", op, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}

	return nil
}

func insertBatch(ctx context.Context, tx pgx.Tx, items []models.Mapping) error {
	if len(items) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for i, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("encode item %d: %w", i, err)
		}

		var id *int64
		if v, ok := vacancy.IDOf(item); ok {
			id = &v
		}

		batch.Queue(`
		INSERT INTO vacancies (vacancy_id, data)
		VALUES ($1, $2)
		ON CONFLICT (vacancy_id) DO NOTHING
		`, id, json.RawMessage(data))
	}

	br := tx.SendBatch(ctx, batch)
	defer br.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch item %d: %w", i, err)
		}
	}

	return nil
}

func decodeObject(data []byte) (models.Mapping, error) {
	var item models.Mapping

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&item); err != nil {
		return nil, err
	}
	if item == nil {
		return nil, errors.New("not an object")
	}

	return item, nil
}
