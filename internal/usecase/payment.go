package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/collinsmw/boutique/internal/adapter/notify"
	"github.com/collinsmw/boutique/internal/adapter/paystack"
	domainErrors "github.com/collinsmw/boutique/internal/domain/errors"
	"github.com/collinsmw/boutique/internal/domain/model"
	"github.com/collinsmw/boutique/internal/domain/repository"
	"github.com/collinsmw/boutique/internal/pkg/signature"
)

// Gateway is the subset of the payment processor client the engine needs.
type Gateway interface {
	Initialize(ctx context.Context, email string, amount decimal.Decimal, reference, orderID string) (*model.PaymentInit, error)
	Verify(ctx context.Context, reference string) (*model.PaymentConfirmation, error)
}

// PaymentUseCase drives payment initialization and webhook reconciliation.
// An order moves unpaid -> initialized -> paid; the paid transition happens
// at most once no matter how many confirmations arrive.
type PaymentUseCase struct {
	orders   repository.OrderRepository
	users    repository.UserRepository
	gateway  Gateway
	verifier *signature.Verifier
	notifier notify.Notifier
	logger   *slog.Logger
}

// NewPaymentUseCase constructs PaymentUseCase.
func NewPaymentUseCase(
	orders repository.OrderRepository,
	users repository.UserRepository,
	gateway Gateway,
	verifier *signature.Verifier,
	notifier notify.Notifier,
	logger *slog.Logger,
) *PaymentUseCase {
	return &PaymentUseCase{
		orders:   orders,
		users:    users,
		gateway:  gateway,
		verifier: verifier,
		notifier: notifier,
		logger:   logger,
	}
}

// Initialize starts a gateway transaction for an unpaid order owned by the
// user. The order's own identifier serves as the transaction reference, so
// order and transaction map one to one.
func (u *PaymentUseCase) Initialize(ctx context.Context, orderID string, userID int64) (*model.PaymentInit, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, domainErrors.ErrForbidden
	}
	if order.IsPaid {
		return nil, domainErrors.ErrAlreadyPaid
	}

	usr, err := u.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	init, err := u.gateway.Initialize(ctx, usr.Email, order.TotalPrice, order.ID, order.ID)
	if err != nil {
		return nil, err
	}

	if err := u.orders.AttachPaymentReference(ctx, order.ID, init.Reference); err != nil {
		return nil, err
	}

	u.logger.Info("payment initialized",
		slog.String("order", order.ID),
		slog.String("reference", init.Reference),
	)
	return init, nil
}

// HandleWebhook processes one inbound processor event. Only a literally
// malformed body yields an error; every other outcome, including a bad
// signature, is swallowed so the caller can acknowledge and stop the
// processor's retry loop.
func (u *PaymentUseCase) HandleWebhook(ctx context.Context, rawBody []byte, providedSignature string) error {
	if !u.verifier.Verify(rawBody, providedSignature) {
		u.logger.Warn("webhook signature mismatch, payload discarded",
			slog.Int("body_size", len(rawBody)),
		)
		return nil
	}

	event, txn, err := paystack.ParseEvent(rawBody)
	if err != nil {
		return fmt.Errorf("%w: %v", domainErrors.ErrValidation, err)
	}

	if event != paystack.EventChargeSuccess || txn.Status != model.PaymentStatusSuccess {
		u.logger.Info("webhook event ignored",
			slog.String("event", event),
			slog.String("status", txn.Status),
		)
		return nil
	}

	if txn.OrderID == "" {
		u.logger.Error("webhook carries no order correlation metadata",
			slog.String("reference", txn.Reference),
		)
		return nil
	}

	u.reconcile(ctx, txn.OrderID, txn.Reference, "webhook")
	return nil
}

// ReconcileOrder re-runs the verify-and-mark-paid path for an initialized
// order, covering webhooks that never arrived.
func (u *PaymentUseCase) ReconcileOrder(ctx context.Context, orderID string) {
	u.reconcile(ctx, orderID, "", "sweep")
}

// UnreconciledOrders lists initialized, unpaid orders untouched since the cutoff.
func (u *PaymentUseCase) UnreconciledOrders(ctx context.Context, cutoff time.Time, limit int) ([]model.Order, error) {
	return u.orders.SelectUnreconciled(ctx, cutoff, limit)
}

// reconcile confirms a payment against the gateway and performs the paid
// transition. Every early return acknowledges the event without state change;
// the processor's retries or the sweeper pick it up again if warranted.
func (u *PaymentUseCase) reconcile(ctx context.Context, orderID, eventReference, source string) {
	log := u.logger.With(slog.String("order", orderID), slog.String("source", source))

	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		log.Error("reconcile: order lookup failed", slog.String("error", err.Error()))
		return
	}
	if order.IsPaid {
		log.Info("reconcile: order already paid, skipping")
		return
	}

	reference := order.ID
	if order.PaymentReference != nil {
		reference = *order.PaymentReference
	}
	if eventReference != "" && eventReference != reference {
		log.Warn("reconcile: event reference disagrees with stored reference",
			slog.String("event_reference", eventReference),
			slog.String("stored_reference", reference),
		)
		return
	}

	// The webhook's own success claim is never trusted alone: confirm
	// against the gateway before touching the ledger.
	confirmation, err := u.gateway.Verify(ctx, reference)
	if err != nil {
		log.Error("reconcile: gateway verify failed", slog.String("error", err.Error()))
		return
	}
	if confirmation.Status != model.PaymentStatusSuccess {
		log.Info("reconcile: gateway does not confirm success",
			slog.String("status", confirmation.Status),
		)
		return
	}

	result := model.PaymentResult{
		ExternalID: confirmation.ExternalID,
		Status:     confirmation.Status,
		UpdateTime: confirmation.PaidAt,
		PayerEmail: confirmation.PayerEmail,
	}

	transitioned, err := u.orders.MarkPaid(ctx, order.ID, result, paidAtTime(confirmation.PaidAt))
	if err != nil {
		log.Error("reconcile: mark paid failed", slog.String("error", err.Error()))
		return
	}
	if !transitioned {
		log.Info("reconcile: concurrent confirmation won, skipping")
		return
	}

	u.notifier.PaymentConfirmed(ctx, order, result)
	log.Info("order marked paid", slog.String("transaction", result.ExternalID))
}

func paidAtTime(raw string) time.Time {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t
	}
	return time.Now()
}
