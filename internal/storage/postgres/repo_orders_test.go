package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmockv3 "github.com/pashagolub/pgxmock/v3"

	domainErrors "github.com/merchsys/storefront/internal/domain/errors"
	"github.com/merchsys/storefront/internal/domain/model"
	"github.com/merchsys/storefront/internal/domain/repository"
)

func newOrderInput() (repository.NewOrder, repository.NewPayment) {
	order := repository.NewOrder{
		TenantID:   1,
		CustomerID: 3,
		CartID:     77,
		Reference:  "PS-1",
		Totals:     model.OrderTotals{Subtotal: 3700, Shipping: 250, Total: 3950},
		Address: model.ShippingAddress{
			FullName: "Ada Obi", Line1: "12 Marina Rd", City: "Lagos", Country: "NG", Phone: "+2348000000000",
		},
		Lines: []model.CartLine{
			{ProductID: 2, VariantID: 4, ProductName: "Tee / M", Quantity: 2, UnitPrice: 1850},
		},
	}
	payment := repository.NewPayment{
		Provider:  "paystack",
		Reference: "PS-1",
		Amount:    3950,
		Metadata:  map[string]string{"channel": "checkout"},
	}
	return order, payment
}

func TestOrderRepositoryCreateWithPayment(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &orderRepository{storage: storage}

	now := time.Now()
	orderInput, paymentInput := newOrderInput()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO orders").
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(9), now, now))
	mock.ExpectQuery("INSERT INTO order_items").
		WithArgs(int64(9), int64(2), int64(4), "Tee / M", 2, int64(1850)).
		WillReturnRows(pgxmockv3.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectQuery("INSERT INTO order_events").
		WithArgs(int64(9), model.OrderStatusPending, "Order created.", "system").
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "created_at"}).AddRow(int64(1), now))
	mock.ExpectQuery("INSERT INTO payments").
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(5), now, now))
	mock.ExpectCommit()

	order, payment, err := repo.CreateWithPayment(context.Background(), orderInput, paymentInput)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.ID != 9 || order.Status != model.OrderStatusPending || len(order.Lines) != 1 || len(order.Timeline) != 1 {
		t.Fatalf("unexpected order: %+v", order)
	}
	if payment.ID != 5 || payment.OrderID != 9 || payment.Status != model.PaymentStatusInitialized {
		t.Fatalf("unexpected payment: %+v", payment)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestOrderRepositoryCreateWithPaymentDuplicate(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &orderRepository{storage: storage}

	orderInput, paymentInput := newOrderInput()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO orders").WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()
	if _, _, err := repo.CreateWithPayment(context.Background(), orderInput, paymentInput); !errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Fatalf("expected already exists, got %v", err)
	}

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO orders").
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(9), now, now))
	mock.ExpectQuery("INSERT INTO order_items").
		WillReturnRows(pgxmockv3.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectQuery("INSERT INTO order_events").
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "created_at"}).AddRow(int64(1), now))
	mock.ExpectQuery("INSERT INTO payments").WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()
	if _, _, err := repo.CreateWithPayment(context.Background(), orderInput, paymentInput); !errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Fatalf("expected already exists, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestOrderRepositoryGet(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &orderRepository{storage: storage}

	mock.ExpectQuery("SELECT id, tenant_id, customer_id, cart_id, reference, status").
		WithArgs(int64(1), int64(9)).WillReturnRows(paidOrderRows())
	mock.ExpectQuery("SELECT id, product_id, variant_id, product_name, quantity, unit_price").
		WithArgs(int64(9)).WillReturnRows(orderLineRows())
	mock.ExpectQuery("SELECT id, status, note, actor, created_at").
		WithArgs(int64(9)).WillReturnRows(orderEventRows())
	order, err := repo.GetByID(context.Background(), 1, 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Reference != "PS-1" || len(order.Lines) != 1 || len(order.Timeline) != 2 {
		t.Fatalf("unexpected order: %+v", order)
	}

	mock.ExpectQuery("SELECT id, tenant_id, customer_id, cart_id, reference, status").
		WithArgs(int64(1), int64(404)).WillReturnError(pgx.ErrNoRows)
	if _, err := repo.GetByID(context.Background(), 1, 404); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	mock.ExpectQuery("SELECT id, tenant_id, customer_id, cart_id, reference, status").
		WithArgs(int64(1), "PS-1").WillReturnRows(paidOrderRows())
	mock.ExpectQuery("SELECT id, product_id, variant_id, product_name, quantity, unit_price").
		WithArgs(int64(9)).WillReturnRows(orderLineRows())
	mock.ExpectQuery("SELECT id, status, note, actor, created_at").
		WithArgs(int64(9)).WillReturnRows(orderEventRows())
	if _, err := repo.GetByReference(context.Background(), 1, "PS-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestOrderRepositoryGetRowsError(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &orderRepository{storage: storage}

	mock.ExpectQuery("SELECT id, tenant_id, customer_id, cart_id, reference, status").
		WithArgs(int64(1), int64(9)).WillReturnRows(paidOrderRows())
	mock.ExpectQuery("SELECT id, product_id, variant_id, product_name, quantity, unit_price").
		WithArgs(int64(9)).WillReturnRows(
		pgxmockv3.NewRows(itemCols).
			AddRow(int64(1), int64(2), int64(4), "Tee / M", 2, int64(1850)).
			AddRow(int64(2), int64(2), int64(5), "Tee / L", 1, int64(1850)).
			RowError(1, errors.New("row err")),
	)
	if _, err := repo.GetByID(context.Background(), 1, 9); err == nil {
		t.Fatal("expected row err")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestOrderRepositoryUpdateStatus(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &orderRepository{storage: storage}

	update := repository.StatusUpdate{
		Status:         model.OrderStatusShipped,
		TrackingNumber: "TRK99",
		Note:           "Handed to courier.",
		Actor:          "admin",
	}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE orders").
		WithArgs(model.OrderStatusShipped, "TRK99", int64(1), int64(9)).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	mock.ExpectExec("INSERT INTO order_events").
		WithArgs(int64(9), model.OrderStatusShipped, "Handed to courier.", "admin").
		WillReturnResult(pgxmockv3.NewResult("INSERT", 1))
	mock.ExpectQuery("SELECT id, tenant_id, customer_id, cart_id, reference, status").
		WithArgs(int64(1), int64(9)).WillReturnRows(paidOrderRows())
	mock.ExpectQuery("SELECT id, product_id, variant_id, product_name, quantity, unit_price").
		WithArgs(int64(9)).WillReturnRows(orderLineRows())
	mock.ExpectQuery("SELECT id, status, note, actor, created_at").
		WithArgs(int64(9)).WillReturnRows(orderEventRows())
	mock.ExpectCommit()

	if _, err := repo.UpdateStatus(context.Background(), 1, 9, update); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE orders").
		WithArgs(model.OrderStatusShipped, "TRK99", int64(1), int64(404)).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
	mock.ExpectRollback()
	if _, err := repo.UpdateStatus(context.Background(), 1, 404, update); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}
