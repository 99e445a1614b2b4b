package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	domainErrors "github.com/merchsys/storefront/internal/domain/errors"
	"github.com/merchsys/storefront/internal/domain/model"
	"github.com/merchsys/storefront/internal/domain/repository"
)

type orderRepository struct {
	storage *Storage
}

const orderColumns = `id, tenant_id, customer_id, cart_id, reference, status,
       subtotal, shipping, total,
       ship_name, ship_line1, ship_line2, ship_city, ship_country, ship_phone,
       tracking_number, created_at, updated_at`

func scanOrder(row pgx.Row) (*model.Order, int64, error) {
	var o model.Order
	var cartID int64
	err := row.Scan(
		&o.ID, &o.TenantID, &o.CustomerID, &cartID, &o.Reference, &o.Status,
		&o.Totals.Subtotal, &o.Totals.Shipping, &o.Totals.Total,
		&o.Address.FullName, &o.Address.Line1, &o.Address.Line2,
		&o.Address.City, &o.Address.Country, &o.Address.Phone,
		&o.TrackingNumber, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, 0, domainErrors.ErrNotFound
		}
		return nil, 0, err
	}
	return &o, cartID, nil
}

func (s *Storage) loadOrderLines(ctx context.Context, q queryer, orderID int64) ([]model.OrderLine, error) {
	const query = `SELECT id, product_id, variant_id, product_name, quantity, unit_price
                   FROM order_items WHERE order_id=$1 ORDER BY id`
	rows, err := q.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []model.OrderLine
	for rows.Next() {
		var l model.OrderLine
		if err := rows.Scan(&l.ID, &l.ProductID, &l.VariantID, &l.ProductName, &l.Quantity, &l.UnitPrice); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func (s *Storage) loadOrderTimeline(ctx context.Context, q queryer, orderID int64) ([]model.TimelineEntry, error) {
	const query = `SELECT id, status, note, actor, created_at
                   FROM order_events WHERE order_id=$1 ORDER BY id`
	rows, err := q.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var timeline []model.TimelineEntry
	for rows.Next() {
		var e model.TimelineEntry
		if err := rows.Scan(&e.ID, &e.Status, &e.Note, &e.Actor, &e.CreatedAt); err != nil {
			return nil, err
		}
		timeline = append(timeline, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return timeline, nil
}

func (s *Storage) getOrder(ctx context.Context, q queryer, query string, args ...any) (*model.Order, int64, error) {
	order, cartID, err := scanOrder(q.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, 0, err
	}
	if order.Lines, err = s.loadOrderLines(ctx, q, order.ID); err != nil {
		return nil, 0, err
	}
	if order.Timeline, err = s.loadOrderTimeline(ctx, q, order.ID); err != nil {
		return nil, 0, err
	}
	return order, cartID, nil
}

func (r *orderRepository) CreateWithPayment(ctx context.Context, order repository.NewOrder, payment repository.NewPayment) (*model.Order, *model.Payment, error) {
	var created *model.Order
	var pay *model.Payment

	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const insertOrder = `INSERT INTO orders
                (tenant_id, customer_id, cart_id, reference, status, subtotal, shipping, total,
                 ship_name, ship_line1, ship_line2, ship_city, ship_country, ship_phone)
                VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
                RETURNING id, created_at, updated_at`
		var o model.Order
		err := tx.QueryRow(ctx, insertOrder,
			order.TenantID, order.CustomerID, order.CartID, order.Reference, model.OrderStatusPending,
			order.Totals.Subtotal, order.Totals.Shipping, order.Totals.Total,
			order.Address.FullName, order.Address.Line1, order.Address.Line2,
			order.Address.City, order.Address.Country, order.Address.Phone,
		).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return domainErrors.ErrAlreadyExists
			}
			return err
		}
		o.TenantID = order.TenantID
		o.CustomerID = order.CustomerID
		o.Reference = order.Reference
		o.Status = model.OrderStatusPending
		o.Totals = order.Totals
		o.Address = order.Address

		const insertItem = `INSERT INTO order_items (order_id, product_id, variant_id, product_name, quantity, unit_price)
                            VALUES ($1,$2,$3,$4,$5,$6) RETURNING id`
		for _, line := range order.Lines {
			item := model.OrderLine{
				ProductID:   line.ProductID,
				VariantID:   line.VariantID,
				ProductName: line.ProductName,
				Quantity:    line.Quantity,
				UnitPrice:   line.UnitPrice,
			}
			if err := tx.QueryRow(ctx, insertItem, o.ID, line.ProductID, line.VariantID, line.ProductName, line.Quantity, line.UnitPrice).Scan(&item.ID); err != nil {
				return err
			}
			o.Lines = append(o.Lines, item)
		}

		const insertEvent = `INSERT INTO order_events (order_id, status, note, actor)
                             VALUES ($1,$2,$3,$4) RETURNING id, created_at`
		event := model.TimelineEntry{Status: model.OrderStatusPending, Note: "Order created.", Actor: "system"}
		if err := tx.QueryRow(ctx, insertEvent, o.ID, model.OrderStatusPending, event.Note, event.Actor).Scan(&event.ID, &event.CreatedAt); err != nil {
			return err
		}
		o.Timeline = []model.TimelineEntry{event}

		metadata, err := json.Marshal(payment.Metadata)
		if err != nil {
			return err
		}
		const insertPayment = `INSERT INTO payments (tenant_id, order_id, provider, reference, status, amount, metadata)
                               VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING id, created_at, updated_at`
		p := model.Payment{
			TenantID:  order.TenantID,
			OrderID:   o.ID,
			Provider:  payment.Provider,
			Reference: payment.Reference,
			Status:    model.PaymentStatusInitialized,
			Amount:    payment.Amount,
			Metadata:  payment.Metadata,
		}
		err = tx.QueryRow(ctx, insertPayment,
			order.TenantID, o.ID, payment.Provider, payment.Reference,
			model.PaymentStatusInitialized, payment.Amount, metadata,
		).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return domainErrors.ErrAlreadyExists
			}
			return err
		}

		created = &o
		pay = &p
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return created, pay, nil
}

func (r *orderRepository) GetByID(ctx context.Context, tenantID, orderID int64) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE tenant_id=$1 AND id=$2`
	order, _, err := r.storage.getOrder(ctx, r.storage.pool, query, tenantID, orderID)
	return order, err
}

func (r *orderRepository) GetByReference(ctx context.Context, tenantID int64, reference string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE tenant_id=$1 AND reference=$2`
	order, _, err := r.storage.getOrder(ctx, r.storage.pool, query, tenantID, reference)
	return order, err
}

func (r *orderRepository) UpdateStatus(ctx context.Context, tenantID, orderID int64, update repository.StatusUpdate) (*model.Order, error) {
	var order *model.Order
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const updateQuery = `UPDATE orders
                             SET status=$1,
                                 tracking_number=CASE WHEN $2 <> '' THEN $2 ELSE tracking_number END,
                                 updated_at=NOW()
                             WHERE tenant_id=$3 AND id=$4`
		tag, err := tx.Exec(ctx, updateQuery, update.Status, update.TrackingNumber, tenantID, orderID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domainErrors.ErrNotFound
		}

		const insertEvent = `INSERT INTO order_events (order_id, status, note, actor) VALUES ($1,$2,$3,$4)`
		if _, err := tx.Exec(ctx, insertEvent, orderID, update.Status, update.Note, update.Actor); err != nil {
			return err
		}

		query := `SELECT ` + orderColumns + ` FROM orders WHERE tenant_id=$1 AND id=$2`
		order, _, err = r.storage.getOrder(ctx, tx, query, tenantID, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}
