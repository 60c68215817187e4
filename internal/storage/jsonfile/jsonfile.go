// jsonfile — файловое хранилище вакансий в формате JSON Lines
// (одно плоское представление на строку).
package jsonfile

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pribylovaa/go-vacancy-aggregator/internal/models"
	"github.com/pribylovaa/go-vacancy-aggregator/internal/pkg/log"
	"github.com/pribylovaa/go-vacancy-aggregator/internal/storage"
)

// Ext — расширение файлов хранилища.
const Ext = ".json"

// maxLine — предельная длина строки файла.
const maxLine = 4 << 20

// Store реализует storage.VacancyStorage поверх одного файла.
type Store struct {
	path string
}

var _ storage.VacancyStorage = (*Store)(nil)

// New создаёт хранилище dir/name; расширение .json добавляется, если его нет.
func New(dir, name string) *Store {
	return &Store{path: filepath.Join(dir, WithExt(name))}
}

// WithExt дописывает .json к имени без расширения.
func WithExt(name string) string {
	if strings.HasSuffix(name, Ext) {
		return name
	}

	return name + Ext
}

// Path возвращает путь к файлу хранилища.
func (s *Store) Path() string { return s.path }

// ReadAll читает все записи файла.
//
// Особенности:
//   - отсутствующий, пустой или битый файл даёт пустой срез и nil-ошибку;
//   - помимо JSON Lines читается JSON-массив объектов;
//   - числа декодируются как json.Number (id не теряют точность).
func (s *Store) ReadAll(ctx context.Context) ([]models.Mapping, error) {
	const op = "storage/jsonfile/ReadAll"

	lg := log.From(ctx)

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			lg.Warn("read_all_failed",
				slog.String("op", op),
				slog.String("path", s.path),
				slog.String("err", err.Error()),
			)
		}
		return []models.Mapping{}, nil
	}

	items, err := decode(data)
	if err != nil {
		lg.Warn("read_all_malformed",
			slog.String("op", op),
			slog.String("path", s.path),
			slog.String("err", err.Error()),
		)
		return []models.Mapping{}, nil
	}

	return items, nil
}

// WriteAll атомарно перезаписывает файл (временный файл + rename).
func (s *Store) WriteAll(ctx context.Context, items []models.Mapping) error {
	const op = "storage/jsonfile/WriteAll"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	var buf bytes.Buffer
	for i, item := range items {
		line, err := encodeLine(item)
		if err != nil {
			return fmt.Errorf("%s: encode item %d: %w", op, i, err)
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}

	if err := writeFileAtomic(s.path, buf.Bytes()); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log.From(ctx).Debug("write_all_ok",
		slog.String("op", op),
		slog.String("path", s.path),
		slog.Int("items", len(items)),
	)

	return nil
}

// AppendWithoutDuplicates дописывает записи с новыми id.
func (s *Store) AppendWithoutDuplicates(ctx context.Context, items []models.Mapping) error {
	return storage.AppendMerged(ctx, s, items)
}

// Clear очищает файл.
func (s *Store) Clear(ctx context.Context) error {
	return s.WriteAll(ctx, nil)
}

func decode(data []byte) ([]models.Mapping, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return []models.Mapping{}, nil
	}

	if trimmed[0] == '[' {
		var items []models.Mapping
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.UseNumber()
		if err := dec.Decode(&items); err != nil {
			return nil, err
		}
		for i, item := range items {
			if item == nil {
				return nil, fmt.Errorf("element %d is not an object", i)
			}
		}
		if items == nil {
			items = []models.Mapping{}
		}
		return items, nil
	}

	items := []models.Mapping{}
	sc := bufio.NewScanner(bytes.NewReader(trimmed))
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)

	for n := 1; sc.Scan(); n++ {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}

		var item models.Mapping
		dec := json.NewDecoder(bytes.NewReader(line))
		dec.UseNumber()
		if err := dec.Decode(&item); err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		if item == nil {
			return nil, fmt.Errorf("line %d: not an object", n)
		}
		items = append(items, item)
	}

	if err := sc.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// encodeLine пишет объект с ключами в каноническом порядке полей,
// неизвестные ключи — следом по алфавиту.
func encodeLine(m models.Mapping) ([]byte, error) {
	keys := make([]string, 0, len(m))
	known := make(map[string]struct{}, len(models.Fields))
	for _, f := range models.Fields {
		known[f.Name()] = struct{}{}
		if _, ok := m[f.Name()]; ok {
			keys = append(keys, f.Name())
		}
	}

	var extra []string
	for k := range m {
		if _, ok := known[k]; !ok {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	keys = append(keys, extra...)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	out := []byte{'{'}
	for i, k := range keys {
		if i > 0 {
			out = append(out, ',')
		}

		buf.Reset()
		if err := enc.Encode(k); err != nil {
			return nil, err
		}
		out = append(out, bytes.TrimRight(buf.Bytes(), "\n")...)
		out = append(out, ':')

		buf.Reset()
		if err := enc.Encode(m[k]); err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		out = append(out, bytes.TrimRight(buf.Bytes(), "\n")...)
	}
	out = append(out, '}')

	return out, nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename: %w", err)
	}

	return nil
}
