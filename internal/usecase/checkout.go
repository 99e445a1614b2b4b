package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	domainErrors "github.com/merchsys/storefront/internal/domain/errors"
	"github.com/merchsys/storefront/internal/domain/model"
	"github.com/merchsys/storefront/internal/domain/repository"
)

// Gateway is the slice of the payment processor the pipeline consumes.
type Gateway interface {
	Initialize(ctx context.Context, email string, amount int64, reference string, metadata map[string]string) (*GatewayInit, error)
	Verify(ctx context.Context, reference string) (*GatewayVerification, error)
}

// GatewayInit is the result of opening a transaction with the processor.
type GatewayInit struct {
	AuthorizationURL string
	AccessCode       string
	Reference        string
}

// GatewayVerification is the processor's view of a transaction.
type GatewayVerification struct {
	Status          string
	PaidAt          *time.Time
	GatewayResponse string
}

// GatewayStatusSuccess is the verification status that permits finalize.
const GatewayStatusSuccess = "success"

// Dispatcher enqueues notification jobs. Enqueue never fails the caller; it
// signals failure via the returned boolean.
type Dispatcher interface {
	Enqueue(ctx context.Context, tenantID int64, kind model.JobKind, payload any) bool
}

// EventPublisher streams order lifecycle events. Best effort.
type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, tenantID int64, orderRef string, status model.OrderStatus)
}

// StatusCache caches payment status for the poll path.
type StatusCache interface {
	PaymentStatus(ctx context.Context, reference string) (model.PaymentStatus, bool)
	SetPaymentStatus(ctx context.Context, reference string, status model.PaymentStatus)
}

// CheckoutInput describes a checkout initiation request.
type CheckoutInput struct {
	TenantID   int64
	CustomerID int64
	SessionID  string
	Email      string
	AddressID  int64
	Address    *model.ShippingAddress
}

// CheckoutResult is returned to the client to complete payment.
type CheckoutResult struct {
	OrderReference   string
	PaymentReference string
	AuthorizationURL string
	Totals           model.OrderTotals
}

// CheckoutUseCase is the order/payment state machine: it opens payment
// intents and converges webhook, callback and poll confirmations on a single
// idempotent finalize operation.
type CheckoutUseCase struct {
	orders    repository.OrderRepository
	payments  repository.PaymentRepository
	carts     repository.CartRepository
	directory repository.DirectoryRepository
	gateway   Gateway
	notifier  Dispatcher
	events    EventPublisher
	cache     StatusCache
	logger    *slog.Logger

	provider    string
	shippingFee int64
}

// NewCheckoutUseCase constructs the checkout state machine.
func NewCheckoutUseCase(
	orders repository.OrderRepository,
	payments repository.PaymentRepository,
	carts repository.CartRepository,
	directory repository.DirectoryRepository,
	gateway Gateway,
	notifier Dispatcher,
	events EventPublisher,
	cache StatusCache,
	provider string,
	shippingFee int64,
	logger *slog.Logger,
) *CheckoutUseCase {
	return &CheckoutUseCase{
		orders:      orders,
		payments:    payments,
		carts:       carts,
		directory:   directory,
		gateway:     gateway,
		notifier:    notifier,
		events:      events,
		cache:       cache,
		provider:    provider,
		shippingFee: shippingFee,
		logger:      logger,
	}
}

// InitializeCheckout opens a payment intent for the caller's cart and
// atomically records the pending order with its initialized payment. A
// gateway failure aborts before anything is persisted; a persistence failure
// leaves the already-opened gateway transaction as an orphaned intent the
// processor never charges.
func (u *CheckoutUseCase) InitializeCheckout(ctx context.Context, in CheckoutInput) (*CheckoutResult, error) {
	if in.Email == "" {
		return nil, domainErrors.ErrValidation
	}

	cart, err := u.carts.Get(ctx, in.TenantID, model.CartIdentity{CustomerID: in.CustomerID, SessionID: in.SessionID})
	if err != nil {
		return nil, err
	}
	if len(cart.Lines) == 0 {
		return nil, domainErrors.ErrEmptyCart
	}

	address, err := u.resolveAddress(ctx, in)
	if err != nil {
		return nil, err
	}

	totals := ComputeTotals(cart.Lines, u.shippingFee)
	orderRef := NewReference("ORD")
	paymentRef := NewReference("PAY")

	metadata := map[string]string{
		"tenant_id":   strconv.FormatInt(in.TenantID, 10),
		"customer_id": strconv.FormatInt(in.CustomerID, 10),
		"order_ref":   orderRef,
	}

	init, err := u.gateway.Initialize(ctx, in.Email, totals.Total, paymentRef, metadata)
	if err != nil {
		return nil, err
	}

	_, _, err = u.orders.CreateWithPayment(ctx,
		repository.NewOrder{
			TenantID:   in.TenantID,
			CustomerID: in.CustomerID,
			CartID:     cart.ID,
			Reference:  orderRef,
			Totals:     totals,
			Address:    *address,
			Lines:      cart.Lines,
		},
		repository.NewPayment{
			Provider:  u.provider,
			Reference: paymentRef,
			Amount:    totals.Total,
			Metadata:  map[string]string{"access_code": init.AccessCode},
		},
	)
	if err != nil {
		return nil, err
	}

	return &CheckoutResult{
		OrderReference:   orderRef,
		PaymentReference: paymentRef,
		AuthorizationURL: init.AuthorizationURL,
		Totals:           totals,
	}, nil
}

func (u *CheckoutUseCase) resolveAddress(ctx context.Context, in CheckoutInput) (*model.ShippingAddress, error) {
	if in.Address != nil {
		if in.Address.FullName == "" || in.Address.Line1 == "" || in.Address.City == "" {
			return nil, domainErrors.ErrValidation
		}
		return in.Address, nil
	}
	if in.AddressID == 0 {
		return nil, domainErrors.ErrValidation
	}
	saved, err := u.directory.FindAddress(ctx, in.TenantID, in.CustomerID, in.AddressID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.ErrValidation
		}
		return nil, err
	}
	return &model.ShippingAddress{
		FullName: saved.FullName,
		Line1:    saved.Line1,
		Line2:    saved.Line2,
		City:     saved.City,
		Country:  saved.Country,
		Phone:    saved.Phone,
	}, nil
}

// FinalizeSuccessfulPayment converts a confirmed gateway payment into
// committed order/stock state exactly once. Webhook, callback and poll paths
// all converge here; redelivery returns Idempotent=true with zero further
// side effects.
func (u *CheckoutUseCase) FinalizeSuccessfulPayment(ctx context.Context, reference string, meta model.FinalizeMeta) (*model.FinalizeResult, error) {
	result, err := u.payments.Finalize(ctx, reference, meta)
	if err != nil {
		return nil, err
	}

	u.cache.SetPaymentStatus(ctx, reference, result.Payment.Status)

	if result.Idempotent {
		return result, nil
	}

	// Post-commit side channels. Failure here must never roll back an
	// already finalized payment.
	u.notifyOrderStatus(ctx, result.Order, "", "")
	u.events.PublishOrderEvent(ctx, result.Order.TenantID, result.Order.Reference, result.Order.Status)

	return result, nil
}

// ConfirmFromCallback handles the browser redirect trigger: the redirect is
// never trusted on its own, so the gateway is re-verified before finalize.
func (u *CheckoutUseCase) ConfirmFromCallback(ctx context.Context, reference string) (*model.FinalizeResult, error) {
	verification, err := u.gateway.Verify(ctx, reference)
	if err != nil {
		return nil, err
	}
	if verification.Status != GatewayStatusSuccess {
		return nil, domainErrors.ErrPaymentUnconfirmed
	}

	return u.FinalizeSuccessfulPayment(ctx, reference, model.FinalizeMeta{
		Source:          model.FinalizeSourceCallback,
		GatewayResponse: verification.GatewayResponse,
		PaidAt:          verification.PaidAt,
	})
}

// PaymentStatus reports the last known payment status, re-verifying with the
// gateway and opportunistically finalizing when the processor reports
// success. Gateway failures during this read are swallowed.
func (u *CheckoutUseCase) PaymentStatus(ctx context.Context, reference string) (*model.Payment, error) {
	if status, ok := u.cache.PaymentStatus(ctx, reference); ok && status == model.PaymentStatusSuccess {
		return u.payments.GetByReference(ctx, reference)
	}

	payment, err := u.payments.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if payment.Status != model.PaymentStatusInitialized {
		u.cache.SetPaymentStatus(ctx, reference, payment.Status)
		return payment, nil
	}

	verification, err := u.gateway.Verify(ctx, reference)
	if err != nil {
		u.logger.Warn("payment status re-verification failed",
			slog.String("reference", reference),
			slog.String("error", err.Error()),
		)
		return payment, nil
	}
	if verification.Status != GatewayStatusSuccess {
		return payment, nil
	}

	result, err := u.FinalizeSuccessfulPayment(ctx, reference, model.FinalizeMeta{
		Source:          model.FinalizeSourcePoll,
		GatewayResponse: verification.GatewayResponse,
		PaidAt:          verification.PaidAt,
	})
	if err != nil {
		u.logger.Warn("opportunistic finalize failed",
			slog.String("reference", reference),
			slog.String("error", err.Error()),
		)
		return payment, nil
	}
	return result.Payment, nil
}

// notifiableStatuses are the transitions worth a customer email.
var notifiableStatuses = map[model.OrderStatus]bool{
	model.OrderStatusPaid:      true,
	model.OrderStatusShipped:   true,
	model.OrderStatusDelivered: true,
}

// UpdateOrderStatus applies an admin transition against the allowed table.
// Shipping requires a tracking number unless one is already on file.
func (u *CheckoutUseCase) UpdateOrderStatus(ctx context.Context, tenantID, orderID int64, status model.OrderStatus, tracking, note string) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status == status {
		return order, nil
	}
	if !model.CanTransition(order.Status, status) {
		return nil, domainErrors.ErrInvalidTransition
	}
	if status == model.OrderStatusShipped && tracking == "" && order.TrackingNumber == "" {
		return nil, domainErrors.ErrValidation
	}

	updated, err := u.orders.UpdateStatus(ctx, tenantID, orderID, repository.StatusUpdate{
		Status:         status,
		TrackingNumber: tracking,
		Note:           note,
		Actor:          "admin",
	})
	if err != nil {
		return nil, err
	}

	if notifiableStatuses[status] {
		u.notifyOrderStatus(ctx, updated, tracking, note)
		u.events.PublishOrderEvent(ctx, updated.TenantID, updated.Reference, updated.Status)
	}

	return updated, nil
}

// Order returns one order with lines and timeline.
func (u *CheckoutUseCase) Order(ctx context.Context, tenantID, orderID int64) (*model.Order, error) {
	return u.orders.GetByID(ctx, tenantID, orderID)
}

func (u *CheckoutUseCase) notifyOrderStatus(ctx context.Context, order *model.Order, tracking, note string) {
	contact, err := u.directory.FindContact(ctx, order.TenantID, order.CustomerID)
	if err != nil {
		u.logger.Warn("contact lookup for notification failed",
			slog.String("order", order.Reference),
			slog.String("error", err.Error()),
		)
		return
	}

	if tracking == "" {
		tracking = order.TrackingNumber
	}
	enqueued := u.notifier.Enqueue(ctx, order.TenantID, model.JobKindOrderStatus, model.OrderStatusPayload{
		Email:          contact.Email,
		FirstName:      contact.FirstName,
		OrderReference: order.Reference,
		Status:         string(order.Status),
		TrackingNumber: tracking,
		Note:           note,
	})
	if !enqueued {
		u.logger.Warn("order status notification not enqueued", slog.String("order", order.Reference))
	}
}
