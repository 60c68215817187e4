// xlsx — файловое хранилище вакансий в виде таблицы Excel:
// первая строка — имена полей, далее по строке на вакансию.
package xlsx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/pribylovaa/go-vacancy-aggregator/internal/models"
	"github.com/pribylovaa/go-vacancy-aggregator/internal/pkg/log"
	"github.com/pribylovaa/go-vacancy-aggregator/internal/storage"
)

// Ext — расширение файлов хранилища.
const Ext = ".xlsx"

// Store реализует storage.VacancyStorage поверх одной книги Excel.
type Store struct {
	path string
}

var _ storage.VacancyStorage = (*Store)(nil)

// New создаёт хранилище dir/name; расширение .xlsx добавляется, если его нет.
func New(dir, name string) *Store {
	return &Store{path: filepath.Join(dir, WithExt(name))}
}

// WithExt дописывает .xlsx к имени без расширения.
func WithExt(name string) string {
	if strings.HasSuffix(name, Ext) {
		return name
	}

	return name + Ext
}

// Path возвращает путь к файлу хранилища.
func (s *Store) Path() string { return s.path }

// ReadAll читает первый лист книги.
//
// Особенности:
//   - отсутствующий или нечитаемый файл даёт пустой срез и nil-ошибку;
//   - пустая ячейка — nil; полностью пустые строки пропускаются;
//   - id читается как int64, salary_from/salary_to — как float64,
//     остальные колонки — строками. Нечисловое значение в числовой колонке
//     остаётся строкой и отвергается уже при сборке вакансии.
func (s *Store) ReadAll(ctx context.Context) ([]models.Mapping, error) {
	const op = "storage/xlsx/ReadAll"

	lg := log.From(ctx)

	rows, err := s.readRows()
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			lg.Warn("read_all_malformed",
				slog.String("op", op),
				slog.String("path", s.path),
				slog.String("err", err.Error()),
			)
		}
		return []models.Mapping{}, nil
	}

	items := []models.Mapping{}
	if len(rows) == 0 {
		return items, nil
	}

	header := rows[0]
	for _, row := range rows[1:] {
		item := make(models.Mapping, len(header))
		empty := true

		for i, key := range header {
			key = strings.TrimSpace(key)
			if key == "" {
				continue
			}

			cell := ""
			if i < len(row) {
				cell = row[i]
			}

			if cell == "" {
				item[key] = nil
				continue
			}

			empty = false
			item[key] = parseCell(key, cell)
		}

		if !empty {
			items = append(items, item)
		}
	}

	return items, nil
}

func (s *Store) readRows() ([][]string, error) {
	if _, err := os.Stat(s.path); err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}

	return f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
}

func parseCell(key, cell string) any {
	switch key {
	case models.FieldID.Name():
		if n, err := strconv.ParseInt(cell, 10, 64); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(cell, 64); err == nil {
			return f
		}
	case models.FieldSalaryFrom.Name(), models.FieldSalaryTo.Name():
		if f, err := strconv.ParseFloat(cell, 64); err == nil {
			return f
		}
	}

	return cell
}

// WriteAll перезаписывает книгу: заголовок из известных полей (+ лишние ключи по алфавиту)
// и по строке на запись. nil-значения оставляют ячейку пустой.
func (s *Store) WriteAll(ctx context.Context, items []models.Mapping) error {
	const op = "storage/xlsx/WriteAll"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	columns := columnsOf(items)

	for c, col := range columns {
		if err := setCell(f, sheet, c+1, 1, col); err != nil {
			return fmt.Errorf("%s: header: %w", op, err)
		}
	}

	for r, item := range items {
		for c, col := range columns {
			v, ok := item[col]
			if !ok || v == nil {
				continue
			}
			if err := setCell(f, sheet, c+1, r+2, cellValue(v)); err != nil {
				return fmt.Errorf("%s: row %d: %w", op, r, err)
			}
		}
	}

	if err := s.save(f); err != nil {
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

// Clear оставляет в книге только строку заголовка.
func (s *Store) Clear(ctx context.Context) error {
	return s.WriteAll(ctx, nil)
}

// save пишет книгу во временный файл рядом и переименовывает его.
func (s *Store) save(f *excelize.File) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	tmp := filepath.Join(dir, "."+filepath.Base(s.path)+".tmp"+Ext)
	if err := f.SaveAs(tmp); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("save: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename: %w", err)
	}

	return nil
}

func setCell(f *excelize.File, sheet string, col, row int, v any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}

	return f.SetCellValue(sheet, cell, v)
}

func columnsOf(items []models.Mapping) []string {
	columns := make([]string, 0, len(models.Fields))
	known := make(map[string]struct{}, len(models.Fields))
	for _, fld := range models.Fields {
		columns = append(columns, fld.Name())
		known[fld.Name()] = struct{}{}
	}

	extra := map[string]struct{}{}
	for _, item := range items {
		for k := range item {
			if _, ok := known[k]; !ok {
				extra[k] = struct{}{}
			}
		}
	}

	rest := make([]string, 0, len(extra))
	for k := range extra {
		rest = append(rest, k)
	}
	sort.Strings(rest)

	return append(columns, rest...)
}

// cellValue приводит значение к типам, которые excelize пишет как число или строку.
func cellValue(v any) any {
	switch x := v.(type) {
	case string, bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return x
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return n
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case *string:
		if x != nil {
			return *x
		}
	case *float64:
		if x != nil {
			return *x
		}
	case *int64:
		if x != nil {
			return *x
		}
	default:
		return fmt.Sprint(x)
	}

	return ""
}
