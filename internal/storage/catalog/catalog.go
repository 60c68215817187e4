// catalog работает с каталогом файловых хранилищ: перечисляет файлы
// с количеством вакансий и открывает хранилище по имени файла.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/pribylovaa/go-vacancy-aggregator/internal/storage"
	"github.com/pribylovaa/go-vacancy-aggregator/internal/storage/jsonfile"
	"github.com/pribylovaa/go-vacancy-aggregator/internal/storage/xlsx"
)

// FileInfo — сведения о файле каталога.
type FileInfo struct {
	Name string `json:"name"`
	// Формат по расширению: "json", "xlsx" или "" для неподдерживаемых.
	Format string `json:"format"`
	// Количество записей в файле.
	Count int `json:"count"`
}

// Usable сообщает, можно ли загрузить из файла вакансии.
func (f FileInfo) Usable() bool { return f.Format != "" && f.Count > 0 }

// Catalog — каталог с файлами вакансий.
type Catalog struct {
	dir string
}

// New создаёт каталог поверх dir. Каталог может не существовать.
func New(dir string) *Catalog {
	return &Catalog{dir: dir}
}

// Dir возвращает путь каталога.
func (c *Catalog) Dir() string { return c.dir }

// Open возвращает хранилище по имени файла с расширением .json или .xlsx.
//
// Ошибки:
//   - storage.ErrUnsupportedFormat — другое расширение или его отсутствие.
func (c *Catalog) Open(name string) (storage.VacancyStorage, error) {
	switch filepath.Ext(name) {
	case jsonfile.Ext:
		return jsonfile.New(c.dir, name), nil
	case xlsx.Ext:
		return xlsx.New(c.dir, name), nil
	default:
		return nil, fmt.Errorf("open %q: %w", name, storage.ErrUnsupportedFormat)
	}
}

// OpenExisting — Open для файла, который уже есть в каталоге.
//
// Ошибки:
//   - storage.ErrNotFound — файла нет;
//   - storage.ErrUnsupportedFormat — неподдерживаемое расширение.
func (c *Catalog) OpenExisting(name string) (storage.VacancyStorage, error) {
	if filepath.Base(name) != name {
		return nil, fmt.Errorf("open %q: %w", name, storage.ErrNotFound)
	}

	info, err := os.Stat(filepath.Join(c.dir, name))
	if err != nil || info.IsDir() {
		return nil, fmt.Errorf("open %q: %w", name, storage.ErrNotFound)
	}

	return c.Open(name)
}

// List перечисляет обычные файлы каталога по алфавиту и считает записи в поддерживаемых.
// Отсутствующий каталог даёт пустой список.
func (c *Catalog) List(ctx context.Context) ([]FileInfo, error) {
	const op = "storage/catalog/List"

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []FileInfo{}, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]FileInfo, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() || e.Name()[0] == '.' {
			continue
		}

		info := FileInfo{Name: e.Name()}

		st, err := c.Open(e.Name())
		if err == nil {
			items, err := st.ReadAll(ctx)
			if err != nil {
				return nil, fmt.Errorf("%s: read %s: %w", op, e.Name(), err)
			}
			info.Format = filepath.Ext(e.Name())[1:]
			info.Count = len(items)
		}

		out = append(out, info)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out, nil
}
