package service

import (
	"context"
	"errors"

	"github.com/sefedemircan/triz-pos/internal/dto"
	"github.com/sefedemircan/triz-pos/internal/model"
	"github.com/sefedemircan/triz-pos/internal/repository"

	"github.com/google/uuid"
)

type TableService interface {
	CreateTable(ctx context.Context, req dto.CreateTableRequest) (*dto.TableResponse, error)
	GetTable(ctx context.Context, id uuid.UUID) (*dto.TableResponse, error)
	ListTables(ctx context.Context) ([]dto.TableResponse, error)
	UpdateTable(ctx context.Context, id uuid.UUID, req dto.UpdateTableRequest) (*dto.TableResponse, error)
	DeleteTable(ctx context.Context, id uuid.UUID) error
}

type tableService struct {
	repo      repository.TableRepository
	orderRepo repository.OrderRepository
}

func NewTableService(repo repository.TableRepository, orderRepo repository.OrderRepository) TableService {
	return &tableService{repo: repo, orderRepo: orderRepo}
}

func (s *tableService) CreateTable(ctx context.Context, req dto.CreateTableRequest) (*dto.TableResponse, error) {
	if _, err := s.repo.FindByNumber(ctx, req.TableNumber); err == nil {
		return nil, errors.New("table number already in use")
	}
	t := &model.Table{
		TableNumber: req.TableNumber,
		Capacity:    req.Capacity,
		Status:      "empty",
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	resp := tableToResponse(t)
	return &resp, nil
}

func (s *tableService) GetTable(ctx context.Context, id uuid.UUID) (*dto.TableResponse, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrTableNotFound
	}
	resp := tableToResponse(t)
	s.attachActiveOrder(ctx, &resp, t.ID)
	return &resp, nil
}

func (s *tableService) ListTables(ctx context.Context) ([]dto.TableResponse, error) {
	tables, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.TableResponse, 0, len(tables))
	for i := range tables {
		r := tableToResponse(&tables[i])
		if tables[i].Status == "occupied" {
			s.attachActiveOrder(ctx, &r, tables[i].ID)
		}
		resp = append(resp, r)
	}
	return resp, nil
}

func (s *tableService) UpdateTable(ctx context.Context, id uuid.UUID, req dto.UpdateTableRequest) (*dto.TableResponse, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrTableNotFound
	}
	if req.TableNumber != nil {
		t.TableNumber = *req.TableNumber
	}
	if req.Capacity != nil {
		t.Capacity = *req.Capacity
	}
	if req.Status != nil {
		t.Status = *req.Status
	}
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	resp := tableToResponse(t)
	return &resp, nil
}

func (s *tableService) DeleteTable(ctx context.Context, id uuid.UUID) error {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ErrTableNotFound
	}
	if t.Status == "occupied" {
		return ErrTableOccupied
	}
	return s.repo.Delete(ctx, id)
}

func (s *tableService) attachActiveOrder(ctx context.Context, resp *dto.TableResponse, tableID uuid.UUID) {
	if order, err := s.orderRepo.FindActiveByTable(ctx, tableID); err == nil {
		oid := order.ID.String()
		resp.ActiveOrderID = &oid
	}
}

func tableToResponse(t *model.Table) dto.TableResponse {
	return dto.TableResponse{
		ID:          t.ID.String(),
		TableNumber: t.TableNumber,
		Capacity:    t.Capacity,
		Status:      t.Status,
	}
}
