package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/apmw/freshbrand-backend/internal/cart"
	"github.com/apmw/freshbrand-backend/internal/catalog"
	"github.com/apmw/freshbrand-backend/internal/designs"
	"github.com/apmw/freshbrand-backend/internal/users"
	"github.com/apmw/freshbrand-backend/pkg/db/models"
	"github.com/apmw/freshbrand-backend/pkg/enums"
	pkgerrors "github.com/apmw/freshbrand-backend/pkg/errors"
	"github.com/apmw/freshbrand-backend/pkg/logger"
	"github.com/apmw/freshbrand-backend/pkg/metrics"
	"github.com/apmw/freshbrand-backend/pkg/money"
	"github.com/apmw/freshbrand-backend/pkg/pagination"
)

// Service defines the order workflow used by client and admin controllers.
type Service interface {
	Place(ctx context.Context, input PlaceOrderInput) (*OrderDTO, error)
	Get(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error)
	ListForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderListDTO, error)
	ListAll(ctx context.Context, params pagination.Params, filters AdminOrderFilters) (*AdminOrderListDTO, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) (*OrderDTO, error)
	UpdateDeliveryDate(ctx context.Context, orderID uuid.UUID, date time.Time) (*OrderDTO, error)
	MarkPaid(ctx context.Context, orderID uuid.UUID, paymentID string) (*OrderDTO, error)
	MarkPaymentFailed(ctx context.Context, orderID uuid.UUID, reason string) (*OrderDTO, error)
	SetGatewayOrderID(ctx context.Context, orderID uuid.UUID, gatewayOrderID string) error
	Delete(ctx context.Context, orderID uuid.UUID) error
}

type service struct {
	tx       txRunner
	repo     Repository
	carts    *cart.Repository
	users    *users.Repository
	products *catalog.Repository
	designs  *designs.Repository
	events   eventPublisher
	metrics  *metrics.OrderMetrics
	logger   *logger.Logger
}

// ServiceParams bundles the order workflow dependencies.
type ServiceParams struct {
	TxRunner txRunner
	Repo     Repository
	Carts    *cart.Repository
	Users    *users.Repository
	Products *catalog.Repository
	Designs  *designs.Repository
	Events   eventPublisher
	Metrics  *metrics.OrderMetrics
	Logger   *logger.Logger
}

// NewService constructs the order workflow service.
func NewService(params ServiceParams) (Service, error) {
	if params.TxRunner == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository is required")
	}
	if params.Carts == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("users repository is required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("catalog repository is required")
	}
	if params.Designs == nil {
		return nil, fmt.Errorf("designs repository is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{
		tx:       params.TxRunner,
		repo:     params.Repo,
		carts:    params.Carts,
		users:    params.Users,
		products: params.Products,
		designs:  params.Designs,
		events:   params.Events,
		metrics:  params.Metrics,
		logger:   params.Logger,
	}, nil
}

// Place snapshots the user's cart into a new order inside one transaction:
// order row, item rows, per-item stock decrement, and cart clearing either
// all land or none do. An empty cart still yields a zero-total pending order.
func (s *service) Place(ctx context.Context, input PlaceOrderInput) (*OrderDTO, error) {
	method := input.PaymentMethod
	if method == "" {
		method = enums.PaymentMethodNotSet
	}
	if !method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid payment method %q", input.PaymentMethod))
	}

	var placed *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := s.users.WithTx(tx)
		cartRepo := s.carts.WithTx(tx)
		productRepo := s.products.WithTx(tx)
		designRepo := s.designs.WithTx(tx)
		orderRepo := s.repo.WithTx(tx)

		user, err := userRepo.FindByID(ctx, input.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "user profile not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
		}

		lines, err := cartRepo.ListByUser(ctx, input.UserID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}

		var subtotal int64
		items := make([]models.OrderItem, 0, len(lines))
		for i := range lines {
			line := &lines[i]
			productID := line.ProductID
			items = append(items, models.OrderItem{
				ProductID:      &productID,
				ProductName:    line.ProductName,
				ImageURL:       line.ImageURL,
				UnitPricePaise: line.UnitPricePaise,
				Quantity:       line.Quantity,
				TotalPaise:     line.LineTotalPaise,
			})
			subtotal += line.LineTotalPaise
		}
		tax := money.Tax(subtotal)

		order := &models.Order{
			UserID:        user.ID,
			UserName:      user.Name,
			UserEmail:     user.Email,
			UserPhone:     user.Phone,
			UserAddress:   user.Address,
			SubtotalPaise: subtotal,
			TaxPaise:      tax,
			TotalPaise:    subtotal + tax,
			Status:        enums.OrderStatusPending,
			PaymentMethod: method,
			PaymentStatus: enums.PaymentStatusPending,
			Notes:         input.Notes,
			Items:         items,
		}

		if design, err := designRepo.FindByUser(ctx, user.ID); err == nil {
			order.DesignID = &design.ID
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup design")
		}

		if _, err := orderRepo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		for i := range lines {
			if err := productRepo.DecrementStock(ctx, lines[i].ProductID, lines[i].Quantity); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement stock")
			}
		}

		if len(lines) > 0 {
			if err := cartRepo.Clear(ctx, input.UserID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
			}
		}

		placed = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncPlaced(string(placed.PaymentMethod))
	s.publish(ctx, EventOrderPlaced, placed)
	return FromModel(placed), nil
}

func (s *service) Get(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.mustFind(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return FromModel(order), nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderListDTO, error) {
	page, err := s.repo.ListByUser(ctx, userID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list user orders")
	}
	return &OrderListDTO{
		Orders:     toDTOs(page.Orders),
		NextCursor: page.NextCursor,
	}, nil
}

func (s *service) ListAll(ctx context.Context, params pagination.Params, filters AdminOrderFilters) (*AdminOrderListDTO, error) {
	page, err := s.repo.ListAll(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	userMap, err := s.resolveUsers(ctx, page.Orders)
	if err != nil {
		return nil, err
	}

	return &AdminOrderListDTO{
		Orders:     toDTOs(page.Orders),
		Users:      userMap,
		NextCursor: page.NextCursor,
	}, nil
}

// UpdateStatus overwrites the fulfillment status with any known value.
// Backwards moves and updates on terminal orders are intentionally allowed.
func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) (*OrderDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", status))
	}

	if _, err := s.mustFind(ctx, orderID); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, orderID, map[string]any{"status": status}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}

	order, err := s.mustFind(ctx, orderID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, EventOrderStatusChanged, order)
	return FromModel(order), nil
}

func (s *service) UpdateDeliveryDate(ctx context.Context, orderID uuid.UUID, date time.Time) (*OrderDTO, error) {
	if _, err := s.mustFind(ctx, orderID); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, orderID, map[string]any{"delivery_date": date}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update delivery date")
	}

	order, err := s.mustFind(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return FromModel(order), nil
}

// MarkPaid records the gateway payment id and moves payment status to paid.
// Pending and failed payments may transition, so a buyer whose checkout
// failed can retry and still settle. A second confirmation on a paid order
// is a state conflict so each checkout intent settles exactly once.
func (s *service) MarkPaid(ctx context.Context, orderID uuid.UUID, paymentID string) (*OrderDTO, error) {
	if paymentID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment id is required")
	}

	order, err := s.mustFind(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus != enums.PaymentStatusPending && order.PaymentStatus != enums.PaymentStatusFailed {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("payment status is %s, expected pending or failed", order.PaymentStatus))
	}

	updates := map[string]any{
		"payment_status":         enums.PaymentStatusPaid,
		"payment_method":         enums.PaymentMethodRazorpay,
		"razorpay_payment_id":    paymentID,
		"payment_failure_reason": nil,
	}
	if err := s.repo.Update(ctx, orderID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark order paid")
	}

	order, err = s.mustFind(ctx, orderID)
	if err != nil {
		return nil, err
	}
	s.metrics.IncPaid()
	s.publish(ctx, EventOrderPaid, order)
	return FromModel(order), nil
}

// MarkPaymentFailed records the gateway failure reason in its own column,
// leaving buyer notes intact. The fulfillment status is untouched so the
// buyer can retry checkout.
func (s *service) MarkPaymentFailed(ctx context.Context, orderID uuid.UUID, reason string) (*OrderDTO, error) {
	order, err := s.mustFind(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus == enums.PaymentStatusPaid {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is already paid")
	}

	updates := map[string]any{
		"payment_status": enums.PaymentStatusFailed,
	}
	if reason != "" {
		updates["payment_failure_reason"] = reason
	}
	if err := s.repo.Update(ctx, orderID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark payment failed")
	}

	order, err = s.mustFind(ctx, orderID)
	if err != nil {
		return nil, err
	}
	s.metrics.IncPaymentFailed()
	return FromModel(order), nil
}

// SetGatewayOrderID stores the Razorpay order id created for checkout.
func (s *service) SetGatewayOrderID(ctx context.Context, orderID uuid.UUID, gatewayOrderID string) error {
	if gatewayOrderID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "gateway order id is required")
	}
	if err := s.repo.Update(ctx, orderID, map[string]any{"razorpay_order_id": gatewayOrderID}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store gateway order id")
	}
	return nil
}

func (s *service) Delete(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.mustFind(ctx, orderID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, orderID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
	}
	s.publish(ctx, EventOrderDeleted, order)
	return nil
}

func (s *service) mustFind(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup order")
	}
	return order, nil
}

func (s *service) resolveUsers(ctx context.Context, orders []models.Order) (map[string]users.UserDTO, error) {
	seen := map[uuid.UUID]struct{}{}
	ids := make([]uuid.UUID, 0, len(orders))
	for i := range orders {
		id := orders[i].UserID
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	rows, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve order users")
	}

	userMap := make(map[string]users.UserDTO, len(rows))
	for i := range rows {
		userMap[rows[i].ID.String()] = *users.FromModel(&rows[i])
	}
	return userMap, nil
}

// publish sends the lifecycle event best-effort: a broker outage must
// never fail the order request.
func (s *service) publish(ctx context.Context, eventType string, order *models.Order) {
	if s.events == nil || order == nil {
		return
	}
	event := Event{
		Type:          eventType,
		OrderID:       order.ID,
		UserID:        order.UserID,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		TotalPaise:    order.TotalPaise,
		OccurredAt:    time.Now().UTC(),
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Error(s.logger.WithOrderID(ctx, order.ID.String()), "publish order event", err)
	}
}

func toDTOs(rows []models.Order) []OrderDTO {
	dtos := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return dtos
}
