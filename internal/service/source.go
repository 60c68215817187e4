package service

import (
	"context"

	"github.com/pribylovaa/go-vacancy-aggregator/internal/models"
)

// PageRequest — запрос одной страницы поиска.
type PageRequest struct {
	Keyword  string
	Page     int
	PageSize int
}

// Page — страница сырых вакансий и признак наличия следующей.
type Page struct {
	Items []models.RawVacancy
	More  bool
}

// Source — удалённый источник вакансий (hh.ru или его кэширующая обёртка).
// Ошибка возвращается, если источник ответил неуспешным статусом или битым телом.
type Source interface {
	FetchPage(ctx context.Context, req PageRequest) (Page, error)
}
