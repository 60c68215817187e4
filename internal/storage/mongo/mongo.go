package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/pribylovaa/go-vacancy-aggregator/internal/models"
	"github.com/pribylovaa/go-vacancy-aggregator/internal/pkg/log"
	"github.com/pribylovaa/go-vacancy-aggregator/internal/storage"
	"github.com/pribylovaa/go-vacancy-aggregator/internal/vacancy"
)

const (
	vacanciesCollection = "vacancies"
	defaultDBName       = "vacancies"

	disconnectTimeout = 5 * time.Second
)

// document — запись коллекции: позиция задаёт порядок, data — плоское представление вакансии.
type document struct {
	Pos       int64  `bson:"pos"`
	VacancyID *int64 `bson:"vacancy_id,omitempty"`
	Data      bson.M `bson:"data"`
}

// Storage - тонкий адаптер MongoDB для хранения вакансий.
//
// WriteAll не транзакционный: DeleteMany + InsertMany (standalone-инстанс без реплики).
type Storage struct {
	client    *mongodriver.Client
	vacancies *mongodriver.Collection
}

// Проверка на соответствие интерфейсу Storage.
var _ storage.Storage = (*Storage)(nil)

// New подключается к MongoDB, проверяет соединение и создаёт индексы.
// Имя БД берётся из пути URI, по умолчанию "vacancies".
func New(ctx context.Context, uri string) (*Storage, error) {
	if uri == "" {
		return nil, fmt.Errorf("mongo: empty uri")
	}

	cli, err := mongodriver.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := cli.Ping(ctx, readpref.Primary()); err != nil {
		_ = cli.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	s := &Storage{
		client:    cli,
		vacancies: cli.Database(databaseFromURI(uri)).Collection(vacanciesCollection),
	}

	if err := s.ensureIndexes(ctx); err != nil {
		s.Close()
		return nil, err
	}

	return s, nil
}

// Close отключается от MongoDB.
func (s *Storage) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
	defer cancel()
	_ = s.client.Disconnect(ctx)
}

// ensureIndexes создает индексы:
// - порядок чтения: pos(asc)
// - поиск по id вакансии: vacancy_id
func (s *Storage) ensureIndexes(ctx context.Context) error {
	indexes := []mongodriver.IndexModel{
		{
			Keys:    bson.D{{Key: "pos", Value: 1}},
			Options: options.Index().SetName("pos_asc"),
		},
		{
			Keys:    bson.D{{Key: "vacancy_id", Value: 1}},
			Options: options.Index().SetName("vacancy_id"),
		},
	}

	if _, err := s.vacancies.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("mongo ensure indexes: %w", err)
	}
	return nil
}

// ReadAll возвращает записи в порядке pos.
// Документы, которые не удалось декодировать, пропускаются с предупреждением.
func (s *Storage) ReadAll(ctx context.Context) ([]models.Mapping, error) {
	const op = "storage/mongo/ReadAll"

	cur, err := s.vacancies.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "pos", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", op, err)
	}
	defer cur.Close(ctx)

	lg := log.From(ctx)
	items := []models.Mapping{}

	for cur.Next(ctx) {
		var doc document
		if err := cur.Decode(&doc); err != nil {
			lg.Warn("read_all_malformed_document",
				slog.String("op", op),
				slog.String("err", err.Error()),
			)
			continue
		}
		if doc.Data == nil {
			continue
		}

		items = append(items, models.Mapping(doc.Data))
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%s: cursor: %w", op, err)
	}

	return items, nil
}

// WriteAll заменяет содержимое коллекции.
func (s *Storage) WriteAll(ctx context.Context, items []models.Mapping) error {
	const op = "storage/mongo/WriteAll"

	if _, err := s.vacancies.DeleteMany(ctx, bson.D{}); err != nil {
		return fmt.Errorf("%s: delete: %w", op, err)
	}

	if len(items) == 0 {
		return nil
	}

	docs := make([]any, 0, len(items))
	for i, item := range items {
		doc := document{Pos: int64(i), Data: bson.M(item)}
		if id, ok := vacancy.IDOf(item); ok {
			doc.VacancyID = &id
		}
		docs = append(docs, doc)
	}

	if _, err := s.vacancies.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true)); err != nil {
		return fmt.Errorf("%s: insert: %w", op, err)
	}

	return nil
}

// AppendWithoutDuplicates дописывает записи, id которых ещё нет в коллекции.
func (s *Storage) AppendWithoutDuplicates(ctx context.Context, items []models.Mapping) error {
	if len(items) == 0 {
		return nil
	}

	return storage.AppendMerged(ctx, s, items)
}

// Clear удаляет все записи.
func (s *Storage) Clear(ctx context.Context) error {
	return s.WriteAll(ctx, nil)
}

// databaseFromURI извлекает имя базы данных из URI-пути mongodb.
func databaseFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err == nil {
		if name := strings.Trim(u.Path, "/"); name != "" {
			return name
		}
	}
	return defaultDBName
}
