package orders

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/apmw/freshbrand-backend/internal/cart"
	"github.com/apmw/freshbrand-backend/internal/catalog"
	"github.com/apmw/freshbrand-backend/internal/designs"
	"github.com/apmw/freshbrand-backend/internal/users"
	"github.com/apmw/freshbrand-backend/pkg/db/models"
	"github.com/apmw/freshbrand-backend/pkg/enums"
	pkgerrors "github.com/apmw/freshbrand-backend/pkg/errors"
	"github.com/apmw/freshbrand-backend/pkg/logger"
	"github.com/apmw/freshbrand-backend/pkg/money"
	"github.com/apmw/freshbrand-backend/pkg/pagination"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

type capturingPublisher struct {
	events []Event
}

func (p *capturingPublisher) Publish(ctx context.Context, event Event) error {
	p.events = append(p.events, event)
	return nil
}

type orderFixture struct {
	db     *gorm.DB
	svc    Service
	carts  *cart.Repository
	events *capturingPublisher
	user   *models.User
}

func setupOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	for _, ddl := range []string{
		`CREATE TABLE users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL DEFAULT '',
  name TEXT NOT NULL,
  phone TEXT,
  company_name TEXT,
  gst_number TEXT,
  address TEXT,
  role TEXT NOT NULL DEFAULT 'client',
  status TEXT NOT NULL DEFAULT 'active',
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT,
  category TEXT NOT NULL,
  unit TEXT NOT NULL DEFAULT 'unit',
  price_paise INTEGER NOT NULL,
  min_order_qty INTEGER NOT NULL DEFAULT 1,
  max_order_qty INTEGER NOT NULL DEFAULT 0,
  available_stock INTEGER NOT NULL DEFAULT 0,
  status TEXT NOT NULL DEFAULT 'available',
  images TEXT NOT NULL DEFAULT '{}',
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE cart_items (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  product_name TEXT NOT NULL,
  image_url TEXT,
  unit_price_paise INTEGER NOT NULL,
  quantity INTEGER NOT NULL,
  line_total_paise INTEGER NOT NULL,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (user_id, product_id)
);`,
		`CREATE TABLE orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  user_name TEXT NOT NULL,
  user_email TEXT NOT NULL DEFAULT '',
  user_phone TEXT,
  user_address TEXT,
  subtotal_paise INTEGER NOT NULL,
  tax_paise INTEGER NOT NULL,
  total_paise INTEGER NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  payment_method TEXT NOT NULL DEFAULT 'not_set',
  payment_status TEXT NOT NULL DEFAULT 'pending',
  razorpay_order_id TEXT,
  razorpay_payment_id TEXT,
  delivery_date DATETIME,
  notes TEXT,
  payment_failure_reason TEXT,
  design_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT,
  product_name TEXT NOT NULL,
  image_url TEXT,
  unit_price_paise INTEGER NOT NULL,
  quantity INTEGER NOT NULL,
  total_paise INTEGER NOT NULL,
  created_at DATETIME
);`,
		`CREATE TABLE custom_designs (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL UNIQUE,
  brand_name TEXT NOT NULL,
  title TEXT,
  color_hex TEXT NOT NULL DEFAULT '#4CAF50',
  logo_url TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
	} {
		require.NoError(t, db.Exec(ddl).Error)
	}

	user := &models.User{
		ID:     uuid.New(),
		Email:  "shop@example.com",
		Name:   "Asha Stores",
		Role:   enums.UserRoleClient,
		Status: enums.UserStatusActive,
	}
	require.NoError(t, db.Create(user).Error)

	events := &capturingPublisher{}
	cartRepo := cart.NewRepository(db)

	svc, err := NewService(ServiceParams{
		TxRunner: gormTxRunner{db: db},
		Repo:     NewRepository(db),
		Carts:    cartRepo,
		Users:    users.NewRepository(db),
		Products: catalog.NewRepository(db),
		Designs:  designs.NewRepository(db),
		Events:   events,
		Logger:   logger.New(logger.Options{ServiceName: "orders-test", Output: io.Discard}),
	})
	require.NoError(t, err)

	return &orderFixture{
		db:     db,
		svc:    svc,
		carts:  cartRepo,
		events: events,
		user:   user,
	}
}

func (f *orderFixture) seedProduct(t *testing.T, pricePaise int64, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:             uuid.New(),
		Name:           "Masala Sachet 50g",
		Category:       "spices",
		Unit:           "box",
		PricePaise:     pricePaise,
		MinOrderQty:    1,
		AvailableStock: stock,
		Status:         enums.ProductStatusAvailable,
	}
	require.NoError(t, f.db.Create(product).Error)
	return product
}

func (f *orderFixture) seedCartLine(t *testing.T, product *models.Product, qty int) {
	t.Helper()
	item := &models.CartItem{
		ID:             uuid.New(),
		UserID:         f.user.ID,
		ProductID:      product.ID,
		ProductName:    product.Name,
		UnitPricePaise: product.PricePaise,
		Quantity:       qty,
		LineTotalPaise: money.LineTotal(product.PricePaise, qty),
	}
	require.NoError(t, f.db.Create(item).Error)
}

func TestServicePlaceSnapshotsCartWithGSTTotals(t *testing.T) {
	f := setupOrderFixture(t)
	product := f.seedProduct(t, 15000, 10)
	f.seedCartLine(t, product, 2)

	order, err := f.svc.Place(context.Background(), PlaceOrderInput{
		UserID:        f.user.ID,
		PaymentMethod: enums.PaymentMethodRazorpay,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(30000), order.SubtotalPaise)
	assert.Equal(t, int64(5400), order.TaxPaise)
	assert.Equal(t, int64(35400), order.TotalPaise)
	assert.Equal(t, f.user.Email, order.UserEmail)
	assert.Equal(t, enums.OrderStatusPending, order.Status)
	assert.Equal(t, enums.PaymentStatusPending, order.PaymentStatus)
	require.Len(t, order.Items, 1)
	assert.Equal(t, product.Name, order.Items[0].ProductName)
	assert.Equal(t, int64(30000), order.Items[0].TotalPaise)

	// Cart clearing and stock decrement ride the same transaction.
	lines, err := f.carts.ListByUser(context.Background(), f.user.ID)
	require.NoError(t, err)
	assert.Empty(t, lines)

	var got models.Product
	require.NoError(t, f.db.First(&got, "id = ?", product.ID).Error)
	assert.Equal(t, 8, got.AvailableStock)

	require.Len(t, f.events.events, 1)
	assert.Equal(t, EventOrderPlaced, f.events.events[0].Type)
}

func TestServicePlaceEmptyCartCreatesZeroTotalOrder(t *testing.T) {
	f := setupOrderFixture(t)

	order, err := f.svc.Place(context.Background(), PlaceOrderInput{UserID: f.user.ID})
	require.NoError(t, err)

	assert.Equal(t, int64(0), order.TotalPaise)
	assert.Equal(t, enums.OrderStatusPending, order.Status)
	assert.Equal(t, enums.PaymentMethodNotSet, order.PaymentMethod)
	assert.Empty(t, order.Items)
}

func TestServicePlaceUnknownUserWritesNothing(t *testing.T) {
	f := setupOrderFixture(t)
	product := f.seedProduct(t, 2500, 10)
	f.seedCartLine(t, product, 1)

	_, err := f.svc.Place(context.Background(), PlaceOrderInput{UserID: uuid.New()})
	assertOrderCode(t, err, pkgerrors.CodeNotFound)

	var count int64
	require.NoError(t, f.db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestServicePlaceTwiceCreatesTwoOrders(t *testing.T) {
	f := setupOrderFixture(t)
	product := f.seedProduct(t, 2500, 10)

	f.seedCartLine(t, product, 1)
	first, err := f.svc.Place(context.Background(), PlaceOrderInput{UserID: f.user.ID})
	require.NoError(t, err)

	f.seedCartLine(t, product, 1)
	second, err := f.svc.Place(context.Background(), PlaceOrderInput{UserID: f.user.ID})
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)

	var count int64
	require.NoError(t, f.db.Model(&models.Order{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestServicePlaceCopiesCustomDesignReference(t *testing.T) {
	f := setupOrderFixture(t)
	design := &models.CustomDesign{
		ID:        uuid.New(),
		UserID:    f.user.ID,
		BrandName: "Asha Masala",
	}
	require.NoError(t, f.db.Create(design).Error)

	order, err := f.svc.Place(context.Background(), PlaceOrderInput{UserID: f.user.ID})
	require.NoError(t, err)

	require.NotNil(t, order.DesignID)
	assert.Equal(t, design.ID, *order.DesignID)
}

func TestServiceUpdateStatusAllowsAnyKnownTransition(t *testing.T) {
	f := setupOrderFixture(t)

	order, err := f.svc.Place(context.Background(), PlaceOrderInput{UserID: f.user.ID})
	require.NoError(t, err)

	// Cancel is reachable from every status, and backwards moves are
	// accepted without complaint.
	for _, status := range []enums.OrderStatus{
		enums.OrderStatusConfirmed,
		enums.OrderStatusShipped,
		enums.OrderStatusPending,
		enums.OrderStatusDelivered,
		enums.OrderStatusCancelled,
	} {
		got, err := f.svc.UpdateStatus(context.Background(), order.ID, status)
		require.NoError(t, err)
		assert.Equal(t, status, got.Status)
	}

	_, err = f.svc.UpdateStatus(context.Background(), order.ID, enums.OrderStatus("boxed"))
	assertOrderCode(t, err, pkgerrors.CodeValidation)
}

func TestServiceMarkPaidStoresPaymentIDVerbatim(t *testing.T) {
	f := setupOrderFixture(t)

	order, err := f.svc.Place(context.Background(), PlaceOrderInput{UserID: f.user.ID})
	require.NoError(t, err)

	paid, err := f.svc.MarkPaid(context.Background(), order.ID, "pay_1")
	require.NoError(t, err)

	assert.Equal(t, enums.PaymentStatusPaid, paid.PaymentStatus)
	require.NotNil(t, paid.RazorpayPaymentID)
	assert.Equal(t, "pay_1", *paid.RazorpayPaymentID)
	assert.Equal(t, enums.PaymentMethodRazorpay, paid.PaymentMethod)

	_, err = f.svc.MarkPaid(context.Background(), order.ID, "pay_2")
	assertOrderCode(t, err, pkgerrors.CodeStateConflict)
}

func TestServiceMarkPaymentFailedKeepsBuyerNotes(t *testing.T) {
	f := setupOrderFixture(t)

	notes := "Deliver before 10am"
	order, err := f.svc.Place(context.Background(), PlaceOrderInput{UserID: f.user.ID, Notes: &notes})
	require.NoError(t, err)

	failed, err := f.svc.MarkPaymentFailed(context.Background(), order.ID, "Network error. Please check your connection.")
	require.NoError(t, err)

	assert.Equal(t, enums.PaymentStatusFailed, failed.PaymentStatus)
	require.NotNil(t, failed.PaymentFailureReason)
	assert.Contains(t, *failed.PaymentFailureReason, "Network error")
	require.NotNil(t, failed.Notes)
	assert.Equal(t, notes, *failed.Notes)
	assert.Equal(t, enums.OrderStatusPending, failed.Status)
}

func TestServiceMarkPaidAfterFailureSettlesRetry(t *testing.T) {
	f := setupOrderFixture(t)

	order, err := f.svc.Place(context.Background(), PlaceOrderInput{UserID: f.user.ID})
	require.NoError(t, err)

	failed, err := f.svc.MarkPaymentFailed(context.Background(), order.ID, "Payment was cancelled.")
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusFailed, failed.PaymentStatus)

	paid, err := f.svc.MarkPaid(context.Background(), order.ID, "pay_retry_1")
	require.NoError(t, err)

	assert.Equal(t, enums.PaymentStatusPaid, paid.PaymentStatus)
	require.NotNil(t, paid.RazorpayPaymentID)
	assert.Equal(t, "pay_retry_1", *paid.RazorpayPaymentID)
	assert.Nil(t, paid.PaymentFailureReason)
}

func TestServiceDeleteRemovesOrderFromListing(t *testing.T) {
	f := setupOrderFixture(t)

	order, err := f.svc.Place(context.Background(), PlaceOrderInput{UserID: f.user.ID})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(context.Background(), order.ID))

	list, err := f.svc.ListAll(context.Background(), pagination.Params{}, AdminOrderFilters{})
	require.NoError(t, err)
	assert.Empty(t, list.Orders)

	_, err = f.svc.Get(context.Background(), order.ID)
	assertOrderCode(t, err, pkgerrors.CodeNotFound)
}

func TestServiceListAllResolvesUsersAndFiltersCancelled(t *testing.T) {
	f := setupOrderFixture(t)

	first, err := f.svc.Place(context.Background(), PlaceOrderInput{UserID: f.user.ID})
	require.NoError(t, err)
	second, err := f.svc.Place(context.Background(), PlaceOrderInput{UserID: f.user.ID})
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(context.Background(), first.ID, enums.OrderStatusCancelled)
	require.NoError(t, err)

	active, err := f.svc.ListAll(context.Background(), pagination.Params{}, AdminOrderFilters{ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, active.Orders, 1)
	assert.Equal(t, second.ID, active.Orders[0].ID)

	resolved, ok := active.Users[f.user.ID.String()]
	require.True(t, ok, "expected user lookup entry")
	assert.Equal(t, f.user.Name, resolved.Name)
}

func TestServiceListForUserPaginatesNewestFirst(t *testing.T) {
	f := setupOrderFixture(t)

	for i := 0; i < 3; i++ {
		_, err := f.svc.Place(context.Background(), PlaceOrderInput{UserID: f.user.ID})
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)
	}

	page, err := f.svc.ListForUser(context.Background(), f.user.ID, pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Orders, 2)
	require.NotEmpty(t, page.NextCursor)
	assert.False(t, page.Orders[0].CreatedAt.Before(page.Orders[1].CreatedAt))

	rest, err := f.svc.ListForUser(context.Background(), f.user.ID, pagination.Params{Limit: 2, Cursor: page.NextCursor})
	require.NoError(t, err)
	assert.Len(t, rest.Orders, 1)
}

func TestServiceUpdateDeliveryDateOverwrites(t *testing.T) {
	f := setupOrderFixture(t)

	order, err := f.svc.Place(context.Background(), PlaceOrderInput{UserID: f.user.ID})
	require.NoError(t, err)

	date := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	got, err := f.svc.UpdateDeliveryDate(context.Background(), order.ID, date)
	require.NoError(t, err)
	require.NotNil(t, got.DeliveryDate)
	assert.True(t, got.DeliveryDate.Equal(date))
}

func assertOrderCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected typed error, got %v", err)
	assert.Equal(t, code, typed.Code())
}
