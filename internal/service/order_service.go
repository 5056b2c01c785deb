package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sefedemircan/triz-pos/internal/dto"
	"github.com/sefedemircan/triz-pos/internal/model"
	"github.com/sefedemircan/triz-pos/internal/repository"
	"github.com/sefedemircan/triz-pos/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderService interface {
	CreateOrder(ctx context.Context, userID uuid.UUID, req dto.CreateOrderRequest) (*dto.OrderResponse, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error)
	ListOrders(ctx context.Context, filter dto.OrderFilter) (*dto.OrderListResponse, error)

	// CheckStock answers "could this set of lines be fulfilled right now?"
	// without reserving anything. The answer can go stale immediately; the
	// depletion engine re-checks under row locks at order time.
	CheckStock(ctx context.Context, req dto.StockCheckRequest) (*dto.StockCheckResponse, error)

	// MarkReady moves an active order to ready (kitchen done).
	MarkReady(ctx context.Context, id uuid.UUID) error

	// CompleteOrder captures the payment, closes the order, and frees the
	// table. Stock stays consumed.
	CompleteOrder(ctx context.Context, id uuid.UUID, req dto.CompleteOrderRequest) error

	// CancelOrder restores deducted stock, marks the order cancelled, and
	// frees the table. Safe to call twice: the second call is a no-op.
	CancelOrder(ctx context.Context, id, userID uuid.UUID, req dto.CancelOrderRequest) error
}

type orderService struct {
	repo        repository.OrderRepository
	tableRepo   repository.TableRepository
	productRepo repository.ProductRepository
	stock       StockService
	dispatcher  *worker.Dispatcher
}

func NewOrderService(
	repo repository.OrderRepository,
	tableRepo repository.TableRepository,
	productRepo repository.ProductRepository,
	stock StockService,
	dispatcher *worker.Dispatcher,
) OrderService {
	return &orderService{
		repo:        repo,
		tableRepo:   tableRepo,
		productRepo: productRepo,
		stock:       stock,
		dispatcher:  dispatcher,
	}
}

// ── CreateOrder ───────────────────────────────────────────────────────────────
// Single ACID transaction:
//  1. Validate table exists and has no open order
//  2. Resolve products, freeze prices, calculate the total (pre-flight)
//  3. BEGIN TX: insert order+items, run the depletion engine under row locks,
//     flip the table to occupied
//  4. COMMIT
//  5. (async) raise low-stock alerts for ingredients that crossed thresholds

func (s *orderService) CreateOrder(ctx context.Context, userID uuid.UUID, req dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	tableID, err := uuid.Parse(req.TableID)
	if err != nil {
		return nil, fmt.Errorf("table_id: %w", err)
	}

	table, err := s.tableRepo.FindByID(ctx, tableID)
	if err != nil {
		return nil, ErrTableNotFound
	}
	// Only a definite "no open order" clears the table; a failed lookup must
	// not be read as a free table.
	if _, err := s.repo.FindActiveByTable(ctx, tableID); err == nil {
		return nil, ErrTableOccupied
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check table availability: %w", err)
	}

	// Resolve products and freeze prices outside the transaction.
	type resolvedLine struct {
		productID uuid.UUID
		name      string
		price     decimal.Decimal
		quantity  int
		notes     *string
	}

	var resolved []resolvedLine
	var lines []OrderLine
	total := decimal.Zero

	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("product %s: %w", item.ProductID, ErrInvalidQuantity)
		}
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("product_id: %w", err)
		}
		p, err := s.productRepo.FindByID(ctx, pid)
		if err != nil {
			return nil, fmt.Errorf("product %s: %w", item.ProductID, ErrProductNotFound)
		}
		if !p.IsAvailable {
			return nil, fmt.Errorf("product %q is not available for sale", p.Name)
		}
		lineTotal := p.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(lineTotal)
		resolved = append(resolved, resolvedLine{
			productID: pid,
			name:      p.Name,
			price:     p.Price,
			quantity:  item.Quantity,
			notes:     item.Notes,
		})
		lines = append(lines, OrderLine{ProductID: pid, Quantity: item.Quantity})
	}

	var order model.Order
	var deducted []DeductedItem
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		order = model.Order{
			TableID:     tableID,
			UserID:      userID,
			Status:      "active",
			TotalAmount: total,
			Notes:       req.Notes,
		}
		for _, r := range resolved {
			order.Items = append(order.Items, model.OrderItem{
				ProductID:  r.productID,
				Quantity:   r.quantity,
				UnitPrice:  r.price,
				TotalPrice: r.price.Mul(decimal.NewFromInt(int64(r.quantity))),
				Status:     "pending",
				Notes:      r.notes,
			})
		}
		if err := s.repo.Create(ctx, tx, &order); err != nil {
			return err
		}

		// Depletion engine: any shortfall rolls back the order insert too.
		deducted, err = s.stock.DeductForOrderTx(ctx, tx, lines, order.ID, userID)
		if err != nil {
			return err
		}

		return s.tableRepo.UpdateStatusTx(tx, tableID, "occupied")
	})
	if txErr != nil {
		return nil, txErr
	}

	// Alerts are informational: raised after commit, never gating the order.
	s.stock.RaiseLowStockAlerts(ctx, deducted)

	resp := orderToResponse(&order)
	resp.TableNumber = table.TableNumber
	for i, r := range resolved {
		resp.Items[i].Product = r.name
	}
	return resp, nil
}

func (s *orderService) GetOrder(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return orderToResponse(order), nil
}

func (s *orderService) ListOrders(ctx context.Context, filter dto.OrderFilter) (*dto.OrderListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	orders, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		data = append(data, *orderToResponse(&o))
	}
	return &dto.OrderListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *orderService) CheckStock(ctx context.Context, req dto.StockCheckRequest) (*dto.StockCheckResponse, error) {
	lines := make([]OrderLine, 0, len(req.Items))
	for _, item := range req.Items {
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("product_id: %w", err)
		}
		lines = append(lines, OrderLine{ProductID: pid, Quantity: item.Quantity})
	}
	return s.stock.CheckAvailability(ctx, lines)
}

func (s *orderService) MarkReady(ctx context.Context, id uuid.UUID) error {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ErrOrderNotFound
	}
	if order.Status != "active" {
		return fmt.Errorf("order is %s: %w", order.Status, ErrInvalidTransition)
	}
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.UpdateStatusTx(tx, id, "ready")
	})
}

func (s *orderService) CompleteOrder(ctx context.Context, id uuid.UUID, req dto.CompleteOrderRequest) error {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ErrOrderNotFound
	}
	if order.Status != "active" && order.Status != "ready" {
		return fmt.Errorf("order is %s: %w", order.Status, ErrInvalidTransition)
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.UpdateStatusTx(tx, id, "completed"); err != nil {
			return err
		}
		if err := s.repo.UpdatePaymentTx(tx, id, req.PaymentMethod); err != nil {
			return err
		}
		return s.tableRepo.UpdateStatusTx(tx, order.TableID, "empty")
	})
	if txErr != nil {
		return txErr
	}

	// Receipt rendering is async — fire & forget.
	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueReceipt(ctx, worker.ReceiptPayload{OrderID: id.String()})
	}
	return nil
}

func (s *orderService) CancelOrder(ctx context.Context, id, userID uuid.UUID, req dto.CancelOrderRequest) error {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ErrOrderNotFound
	}
	if order.Status == "cancelled" {
		// Idempotent: repeating a cancellation changes nothing.
		return nil
	}
	if order.Status == "completed" {
		return fmt.Errorf("order is completed: %w", ErrInvalidTransition)
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// The restoration engine carries its own idempotence guard; a
		// concurrent cancel that slipped past the status check above is
		// caught here.
		if err := s.stock.RestoreForOrderTx(ctx, tx, id, userID); err != nil {
			if errors.Is(err, ErrAlreadyRestored) {
				return nil
			}
			return err
		}

		if err := s.repo.UpdateStatusTx(tx, id, "cancelled"); err != nil {
			return err
		}

		notes := fmt.Sprintf("Cancelled: %s", req.Reason)
		if order.Notes != nil && *order.Notes != "" {
			notes = fmt.Sprintf("%s | %s", *order.Notes, notes)
		}
		if err := s.repo.UpdateNotesTx(tx, id, notes); err != nil {
			return err
		}

		return s.tableRepo.UpdateStatusTx(tx, order.TableID, "empty")
	})
}

func orderToResponse(o *model.Order) *dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		name := ""
		if item.Product != nil {
			name = item.Product.Name
		}
		items = append(items, dto.OrderItemResponse{
			ID:         item.ID.String(),
			ProductID:  item.ProductID.String(),
			Product:    name,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice,
			Status:     item.Status,
			Notes:      item.Notes,
		})
	}
	resp := &dto.OrderResponse{
		ID:            o.ID.String(),
		TableID:       o.TableID.String(),
		UserID:        o.UserID.String(),
		Status:        o.Status,
		TotalAmount:   o.TotalAmount,
		PaymentMethod: o.PaymentMethod,
		Notes:         o.Notes,
		Items:         items,
		CreatedAt:     o.CreatedAt.UTC().Format(time.RFC3339),
	}
	if o.Table != nil {
		resp.TableNumber = o.Table.TableNumber
	}
	if o.User != nil {
		resp.WaiterName = o.User.FullName
	}
	return resp
}
