package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/pribylovaa/go-vacancy-aggregator/internal/service"
	"github.com/pribylovaa/go-vacancy-aggregator/internal/storage"
	"github.com/pribylovaa/go-vacancy-aggregator/internal/storage/catalog"
)

// Handlers агрегирует зависимости HTTP API.
type Handlers struct {
	svc   *service.Service
	files *catalog.Catalog
	// Основное хранилище; используется, когда в запросе не указан файл каталога.
	store storage.VacancyStorage
}

func New(svc *service.Service, files *catalog.Catalog, store storage.VacancyStorage) *Handlers {
	return &Handlers{svc: svc, files: files, store: store}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}
