package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	apierrors "github.com/pribylovaa/go-vacancy-aggregator/internal/errors"
	"github.com/pribylovaa/go-vacancy-aggregator/internal/models"
	"github.com/pribylovaa/go-vacancy-aggregator/internal/service"
	"github.com/pribylovaa/go-vacancy-aggregator/internal/storage"
	"github.com/pribylovaa/go-vacancy-aggregator/internal/storage/catalog"
	"github.com/pribylovaa/go-vacancy-aggregator/internal/vacancy"
)

// VacancyListResponse — ответ GET /vacancies.
type VacancyListResponse struct {
	Count int `json:"count"`
	// Сколько сохранённых записей не прошли валидацию.
	Skipped int              `json:"skipped"`
	Items   []models.Mapping `json:"items"`
}

// FileListResponse — ответ GET /files.
type FileListResponse struct {
	Dir   string             `json:"dir"`
	Files []catalog.FileInfo `json:"files"`
}

// ListVacancies отдаёт сохранённые вакансии.
//
// Параметры запроса:
//   - file — имя файла каталога; без него читается основное хранилище;
//   - keywords — слова через пробел или запятую, все должны встретиться;
//   - top — оставить N вакансий с наибольшей зарплатой (N > 0).
//
// Фильтр применяется до top.
func (h *Handlers) ListVacancies(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	top := 0
	if v := q.Get("top"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			apierrors.WriteError(w, r, fmt.Errorf("top=%q: %w", v, service.ErrInvalidArgument))
			return
		}
		top = n
	}

	st, err := h.storageFor(q.Get("file"))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	vs, report, err := h.svc.Load(r.Context(), st)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if kw := q.Get("keywords"); kw != "" {
		vs = h.svc.Filter(vs, kw)
	}

	if top > 0 {
		if vs, err = h.svc.Top(vs, top); err != nil {
			apierrors.WriteError(w, r, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, VacancyListResponse{
		Count:   len(vs),
		Skipped: report.Skipped,
		Items:   vacancy.ToStorage(vs),
	})
}

// ListFiles перечисляет файлы каталога с количеством записей.
func (h *Handlers) ListFiles(w http.ResponseWriter, r *http.Request) {
	infos, err := h.files.List(r.Context())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, FileListResponse{Dir: h.files.Dir(), Files: infos})
}

func (h *Handlers) storageFor(file string) (storage.VacancyStorage, error) {
	if file != "" {
		return h.files.OpenExisting(file)
	}
	if h.store == nil {
		return nil, fmt.Errorf("file is required: %w", service.ErrInvalidArgument)
	}
	return h.store, nil
}
