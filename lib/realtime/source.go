package realtime

import (
	"context"
	"convenios-backend/models"
	apimodels "convenios-backend/models/api"
	requestapimodels "convenios-backend/models/api/request"
	dbmodels "convenios-backend/models/db"

	"github.com/pkg/errors"
)

const snapshotLimit = 100

// Fetcher загрузка списка заявок при подключении и смене фильтра
type Fetcher interface {
	Fetch(ctx context.Context, filter FilterContext) ([]RequestRow, error)
}

type RequestLister interface {
	List(categories []models.RequestCategory, primaryReviewer bool, filter requestapimodels.Filter) (list []dbmodels.BenefitRequest, rowCount int64, err error)
}

type CollaboratorGetter interface {
	GetByID(id string) (*dbmodels.CollaboratorProfile, error)
}

// StoreSource Fetcher и Enricher поверх хранилищ заявок и сотрудников
type StoreSource struct {
	requests      RequestLister
	collaborators CollaboratorGetter
}

func NewStoreSource(requests RequestLister, collaborators CollaboratorGetter) StoreSource {
	return StoreSource{
		requests:      requests,
		collaborators: collaborators,
	}
}

func (s StoreSource) Fetch(ctx context.Context, filter FilterContext) ([]RequestRow, error) {
	list, _, err := s.requests.List(filter.Categories, filter.Role.IsPrimaryReviewer(), requestapimodels.Filter{
		Pagination: apimodels.Pagination{Page: 1, Limit: snapshotLimit},
	})
	if err != nil {
		return nil, err
	}
	rows := make([]RequestRow, 0, len(list))
	for _, rec := range list {
		rows = append(rows, RowFromDb(rec))
	}
	return rows, nil
}

func (s StoreSource) Enrich(ctx context.Context, row RequestRow) (RequestRow, error) {
	rec, err := s.collaborators.GetByID(row.CollaboratorID)
	if err != nil {
		return row, err
	}
	if rec == nil {
		return row, errors.Errorf("сотрудник %v не найден", row.CollaboratorID)
	}
	row.CollaboratorName = rec.Name
	row.UnitName = rec.GetUnitName()
	return row, nil
}
