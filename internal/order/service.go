package order

import (
	"context"
	"fmt"

	"livrerjardiner-be/internal/address"
	"livrerjardiner-be/internal/catalog"
	"livrerjardiner-be/internal/logger"
	"livrerjardiner-be/internal/metrics"
	"livrerjardiner-be/internal/notification"
	"livrerjardiner-be/internal/stock"

	"go.uber.org/zap"
)

type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*Order, error)
	UpdateStatus(ctx context.Context, orderID int64, newStatus Status, requesterID int64, isAdmin bool) (*Order, error)
	GetOrder(ctx context.Context, orderID, requesterID int64, isAdmin bool) (*Order, error)
	ListOrders(ctx context.Context, ownerID int64, limit, offset int32) ([]*Order, int64, error)
}

type service struct {
	repo       Repository
	catalog    catalog.Catalog
	ledger     stock.Ledger
	addresses  address.Validator
	gateway    notification.Gateway
	recipients Recipients
	metrics    *metrics.Registry
}

func NewService(
	repo Repository,
	cat catalog.Catalog,
	ledger stock.Ledger,
	addresses address.Validator,
	gateway notification.Gateway,
	recipients Recipients,
	reg *metrics.Registry,
) Service {
	if reg == nil {
		reg = metrics.NewRegistry()
	}
	return &service{
		repo:       repo,
		catalog:    cat,
		ledger:     ledger,
		addresses:  addresses,
		gateway:    gateway,
		recipients: recipients,
		metrics:    reg,
	}
}

func (s *service) CreateOrder(ctx context.Context, input CreateOrderInput) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateOrder"),
		zap.Int64("owner_id", input.OwnerID),
		zap.Int("line_count", len(input.Lines)),
	)

	// 1. Input validation, no side effects yet.
	if err := ValidateInput(input); err != nil {
		log.Warn("invalid order input", zap.Error(err))
		return nil, err
	}

	// 2. Both addresses must belong to the requester.
	for _, addrID := range []int64{input.DeliveryAddressID, input.BillingAddressID} {
		ok, err := s.addresses.Validate(ctx, addrID, input.OwnerID)
		if err != nil {
			log.Error("address validation failed", zap.Int64("address_id", addrID), zap.Error(err))
			return nil, err
		}
		if !ok {
			log.Warn("address rejected", zap.Int64("address_id", addrID))
			return nil, ErrAddressInvalid
		}
	}

	// 3. Resolve every variant before any stock mutation. The price is
	// captured here and never re-read.
	lines := make([]Line, 0, len(input.Lines))
	for _, lr := range input.Lines {
		v, err := s.catalog.GetByID(ctx, lr.VariantID)
		if err != nil {
			log.Error("variant lookup failed", zap.Int64("variant_id", lr.VariantID), zap.Error(err))
			return nil, err
		}
		if v == nil {
			log.Warn("variant not found", zap.Int64("variant_id", lr.VariantID))
			return nil, &VariantNotFoundError{VariantID: lr.VariantID}
		}
		lines = append(lines, Line{
			VariantID:        v.ID,
			SKU:              v.SKU,
			Name:             v.Name,
			Quantity:         lr.Quantity,
			UnitPriceAtOrder: v.Price,
		})
	}

	// 4. Reserve stock line by line, in input order. A failure at line k
	// reverses lines 1..k-1 and surfaces the original error; a deadline
	// expiring mid-loop takes the same path.
	applied := make([]Line, 0, len(lines))
	for i := range lines {
		if err := ctx.Err(); err != nil {
			s.compensate(ctx, applied)
			s.metrics.OrdersFailed.Inc()
			return nil, err
		}
		if _, err := s.ledger.AdjustQuantity(ctx, lines[i].VariantID, -lines[i].Quantity); err != nil {
			log.Warn("stock reservation failed",
				zap.Int64("variant_id", lines[i].VariantID),
				zap.Int("requested", lines[i].Quantity),
				zap.Error(err),
			)
			s.compensate(ctx, applied)
			s.metrics.OrdersFailed.Inc()
			return nil, err
		}
		applied = append(applied, lines[i])
	}

	// 5-6. Total from the locked prices, then persist as one unit.
	o := &Order{
		OwnerID:           input.OwnerID,
		Status:            StatusPending,
		DeliveryAddressID: input.DeliveryAddressID,
		BillingAddressID:  input.BillingAddressID,
		Lines:             lines,
	}
	o.TotalAmount = o.ComputeTotal()

	if err := s.repo.Add(ctx, o); err != nil {
		log.Error("order persistence failed", zap.Error(err))
		// Persistence failure shares the compensation path with
		// insufficient stock.
		s.compensate(ctx, applied)
		s.metrics.OrdersFailed.Inc()
		return nil, fmt.Errorf("%w: %v", ErrOrderCreationFailed, err)
	}

	s.metrics.OrdersCreated.Inc()
	log.Info("order created",
		zap.Int64("order_id", o.ID),
		zap.String("total_amount", o.TotalAmount.StringFixed(2)),
	)

	// 7. Best-effort confirmation.
	s.notify(ctx, o, notification.KindOrderConfirmation)

	return o, nil
}

func (s *service) UpdateStatus(ctx context.Context, orderID int64, newStatus Status, requesterID int64, isAdmin bool) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateStatus"),
		zap.Int64("order_id", orderID),
		zap.String("new_status", string(newStatus)),
		zap.Int64("requester_id", requesterID),
		zap.Bool("is_admin", isAdmin),
	)

	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		log.Error("failed to load order", zap.Error(err))
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}

	if !isAdmin && o.OwnerID != requesterID {
		log.Warn("status update refused for foreign order")
		return nil, ErrForbidden
	}

	if !ValidStatus(newStatus) {
		return nil, ErrInvalidStatus
	}
	if !CanTransition(o.Status, newStatus) {
		log.Warn("illegal transition", zap.String("from", string(o.Status)))
		return nil, ErrInvalidTransition
	}

	// Cancellation restores every line's stock. Individual restock failures
	// are logged and counted, never abort the cancellation: completing the
	// cancellation wins over perfect stock bookkeeping.
	if newStatus == StatusCancelled {
		s.restock(ctx, o)
		s.metrics.OrdersCancelled.Inc()
	}

	updated, err := s.repo.UpdateStatus(ctx, orderID, newStatus)
	if err != nil {
		log.Error("failed to persist status", zap.Error(err))
		return nil, err
	}
	if updated == nil {
		return nil, ErrOrderNotFound
	}

	log.Info("order status updated", zap.String("from", string(o.Status)))

	s.notify(ctx, updated, notification.KindOrderStatusChange)

	return updated, nil
}

func (s *service) GetOrder(ctx context.Context, orderID, requesterID int64, isAdmin bool) (*Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}
	// Not-found masking: a foreign order looks absent to non-admins.
	if !isAdmin && o.OwnerID != requesterID {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

func (s *service) ListOrders(ctx context.Context, ownerID int64, limit, offset int32) ([]*Order, int64, error) {
	if limit <= 0 {
		limit = 20
	} else if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListForOwner(ctx, ownerID, limit, offset)
}

// compensate reverses previously-applied decrements. Best-effort on purpose:
// a failed reversal is logged and counted but never overrides the error that
// triggered the rollback, so forward failures stay hard and backward
// failures stay soft. The drift this can leave behind shows up in the
// compensation_failures counter and the low-stock listing.
func (s *service) compensate(ctx context.Context, applied []Line) {
	if len(applied) == 0 {
		return
	}

	// The reversal must run even when the caller's deadline already fired.
	ctx = context.WithoutCancel(ctx)
	log := logger.FromCtx(ctx).With(zap.String("layer", "service"))

	for _, l := range applied {
		s.metrics.StockCompensations.Inc()
		if _, err := s.ledger.AdjustQuantity(ctx, l.VariantID, l.Quantity); err != nil {
			s.metrics.CompensationFailures.Inc()
			log.Error("stock compensation failed",
				zap.Int64("variant_id", l.VariantID),
				zap.Int("quantity", l.Quantity),
				zap.Error(err),
			)
		}
	}
}

// restock returns every line of a cancelled order to the ledger, continuing
// past individual failures.
func (s *service) restock(ctx context.Context, o *Order) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.Int64("order_id", o.ID),
	)

	for _, l := range o.Lines {
		if _, err := s.ledger.AdjustQuantity(ctx, l.VariantID, l.Quantity); err != nil {
			s.metrics.RestockFailures.Inc()
			log.Error("restock failed on cancellation",
				zap.Int64("variant_id", l.VariantID),
				zap.Int("quantity", l.Quantity),
				zap.Error(err),
			)
		}
	}
}

// notify is fire-and-forget: lookup or delivery failures are logged and
// counted, never surfaced.
func (s *service) notify(ctx context.Context, o *Order, kind notification.Kind) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.Int64("order_id", o.ID),
		zap.String("kind", string(kind)),
	)

	email, err := s.recipients.EmailFor(ctx, o.OwnerID)
	if err != nil {
		s.metrics.NotifyFailures.Inc()
		log.Error("failed to resolve recipient", zap.Error(err))
		return
	}
	if email == "" {
		log.Warn("no recipient email, skipping notification")
		return
	}

	msg := notification.Message{
		Kind:        kind,
		Recipient:   email,
		OrderID:     o.ID,
		Status:      string(o.Status),
		TotalAmount: o.TotalAmount,
	}
	for _, l := range o.Lines {
		msg.Lines = append(msg.Lines, notification.LineSummary{
			SKU:       l.SKU,
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPriceAtOrder,
		})
	}

	if err := s.gateway.Send(ctx, msg); err != nil {
		s.metrics.NotifyFailures.Inc()
		log.Error("notification failed", zap.Error(err))
	}
}
