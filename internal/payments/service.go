package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/apmw/freshbrand-backend/internal/orders"
	"github.com/apmw/freshbrand-backend/pkg/db/models"
	"github.com/apmw/freshbrand-backend/pkg/enums"
	pkgerrors "github.com/apmw/freshbrand-backend/pkg/errors"
	"github.com/apmw/freshbrand-backend/pkg/logger"
	"github.com/apmw/freshbrand-backend/pkg/razorpay"
)

// Service bridges order payment state to the Razorpay gateway.
type Service interface {
	CreateCheckout(ctx context.Context, orderID, userID uuid.UUID) (*CheckoutDTO, error)
	ConfirmPayment(ctx context.Context, orderID, userID uuid.UUID, req ConfirmPaymentRequest) (*orders.OrderDTO, error)
	FailPayment(ctx context.Context, orderID, userID uuid.UUID, req FailPaymentRequest) (*orders.OrderDTO, error)
}

// orderWorkflow is the slice of the order service the bridge drives.
type orderWorkflow interface {
	Get(ctx context.Context, orderID uuid.UUID) (*orders.OrderDTO, error)
	SetGatewayOrderID(ctx context.Context, orderID uuid.UUID, gatewayOrderID string) error
	MarkPaid(ctx context.Context, orderID uuid.UUID, paymentID string) (*orders.OrderDTO, error)
	MarkPaymentFailed(ctx context.Context, orderID uuid.UUID, reason string) (*orders.OrderDTO, error)
}

// gateway is the Razorpay client surface used by the bridge.
type gateway interface {
	CreateOrder(ctx context.Context, params razorpay.OrderCreateParams) (*razorpay.GatewayOrder, error)
	VerifyPaymentSignature(gatewayOrderID, paymentID, signature string) bool
	CheckoutOptions(params razorpay.CheckoutParams) map[string]any
	KeyID() string
	Currency() string
}

// userLoader resolves the buyer for checkout prefill.
type userLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type service struct {
	orders  orderWorkflow
	gateway gateway
	users   userLoader
	logger  *logger.Logger
}

// ServiceParams bundles the payment bridge dependencies.
type ServiceParams struct {
	Orders  orderWorkflow
	Gateway gateway
	Users   userLoader
	Logger  *logger.Logger
}

// NewService constructs the payment bridge.
func NewService(params ServiceParams) (Service, error) {
	if params.Orders == nil {
		return nil, fmt.Errorf("order workflow is required")
	}
	if params.Gateway == nil {
		return nil, fmt.Errorf("razorpay gateway is required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("user loader is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{
		orders:  params.Orders,
		gateway: params.Gateway,
		users:   params.Users,
		logger:  params.Logger,
	}, nil
}

// CreateCheckout registers a gateway order for an unpaid order and returns
// the checkout options. Retried checkouts get a fresh gateway order; the
// latest gateway order id always wins.
func (s *service) CreateCheckout(ctx context.Context, orderID, userID uuid.UUID) (*CheckoutDTO, error) {
	order, err := s.ownedOrder(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus == enums.PaymentStatusPaid {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is already paid")
	}
	if order.TotalPaise <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order total must be positive to start checkout")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}

	gatewayOrder, err := s.gateway.CreateOrder(ctx, razorpay.OrderCreateParams{
		AmountPaise: order.TotalPaise,
		Receipt:     order.ID.String(),
		Notes: map[string]string{
			"order_id": order.ID.String(),
			"user_id":  userID.String(),
		},
	})
	if err != nil {
		return nil, err
	}

	if err := s.orders.SetGatewayOrderID(ctx, orderID, gatewayOrder.ID); err != nil {
		return nil, err
	}

	contact := ""
	if user.Phone != nil {
		contact = *user.Phone
	}
	options := s.gateway.CheckoutOptions(razorpay.CheckoutParams{
		GatewayOrderID: gatewayOrder.ID,
		OrderID:        order.ID.String(),
		UserID:         userID.String(),
		AmountPaise:    order.TotalPaise,
		Email:          user.Email,
		Contact:        contact,
	})

	s.logger.Info(s.logger.WithOrderID(ctx, order.ID.String()), "razorpay checkout created")

	return &CheckoutDTO{
		OrderID:        order.ID,
		GatewayOrderID: gatewayOrder.ID,
		KeyID:          s.gateway.KeyID(),
		AmountPaise:    order.TotalPaise,
		Currency:       s.gateway.Currency(),
		Options:        options,
	}, nil
}

// ConfirmPayment verifies the checkout signature against the stored gateway
// order id and settles the payment. A signature computed over any other
// gateway order is rejected before touching order state.
func (s *service) ConfirmPayment(ctx context.Context, orderID, userID uuid.UUID, req ConfirmPaymentRequest) (*orders.OrderDTO, error) {
	order, err := s.ownedOrder(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}
	if order.RazorpayOrderID == nil || *order.RazorpayOrderID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "checkout was never created for this order")
	}
	if req.GatewayOrderID != *order.RazorpayOrderID {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "gateway order id does not match this order")
	}
	if !s.gateway.VerifyPaymentSignature(*order.RazorpayOrderID, req.PaymentID, req.Signature) {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid payment signature")
	}

	paid, err := s.orders.MarkPaid(ctx, orderID, req.PaymentID)
	if err != nil {
		return nil, err
	}

	s.logger.Info(s.logger.WithOrderID(ctx, orderID.String()), "payment confirmed")
	return paid, nil
}

// FailPayment records a checkout failure reported by the mobile SDK. The
// fulfillment status is untouched so the buyer can retry.
func (s *service) FailPayment(ctx context.Context, orderID, userID uuid.UUID, req FailPaymentRequest) (*orders.OrderDTO, error) {
	if _, err := s.ownedOrder(ctx, orderID, userID); err != nil {
		return nil, err
	}

	reason := razorpay.FailureMessage(req.Code, req.Description)
	failed, err := s.orders.MarkPaymentFailed(ctx, orderID, reason)
	if err != nil {
		return nil, err
	}

	s.logger.Info(s.logger.WithOrderID(ctx, orderID.String()), "payment failed")
	return failed, nil
}

func (s *service) ownedOrder(ctx context.Context, orderID, userID uuid.UUID) (*orders.OrderDTO, error) {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another user")
	}
	return order, nil
}
