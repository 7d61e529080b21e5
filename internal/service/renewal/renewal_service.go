// internal/service/renewal/renewal_service.go
package renewal

import (
	"context"
	"fmt"
	"time"

	"idea-billing-service/internal/domain/payment"
	"idea-billing-service/internal/domain/subscription"
	"idea-billing-service/internal/integration/tosspayments"
	xerrors "idea-billing-service/internal/pkg/errors"
	"idea-billing-service/internal/pkg/lock"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// Store is the persistence the job needs. Implemented by postgres.RenewalLedger.
type Store interface {
	FindDue(ctx context.Context, today time.Time) ([]*subscription.Subscription, error)
	FindByID(ctx context.Context, id string) (*subscription.Subscription, error)
	ExpireCancelled(ctx context.Context, today time.Time) ([]string, error)
	RecordRenewal(ctx context.Context, attempt *payment.Attempt, renewal subscription.Renewal) error
	RecordFailure(ctx context.Context, attempt *payment.Attempt) error
}

// Gateway charges a stored billing key.
type Gateway interface {
	ChargeBillingKey(ctx context.Context, billingKey string, req *tosspayments.ChargeRequest) (*tosspayments.ChargeResult, error)
}

type Locker interface {
	Acquire(ctx context.Context, key string) (lock.Release, error)
}

const orderNameSuffix = " 정기결제"

type Service struct {
	store   Store
	gateway Gateway
	locker  Locker
	loc     *time.Location
	now     func() time.Time
	logger  *zap.Logger
}

func NewService(store Store, gateway Gateway, locker Locker, loc *time.Location, logger *zap.Logger) *Service {
	if locker == nil {
		locker = lock.NoopLocker{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		store:   store,
		gateway: gateway,
		locker:  locker,
		loc:     loc,
		now:     time.Now,
		logger:  logger,
	}
}

// Run executes one renewal pass: select due subscriptions, charge and reconcile
// them one at a time, then expire cancelled subscriptions whose period has ended.
// Per-subscription problems end up in the report; only selector and sweeper
// failures are returned as errors.
func (s *Service) Run(ctx context.Context) (*Report, error) {
	now := s.now()
	today := subscription.CalendarDate(now.In(s.loc))

	report := &Report{
		RunID:      ulid.Make().String(),
		Date:       today.Format(time.DateOnly),
		ExpiredIDs: []string{},
		Results:    []Result{},
	}
	logger := s.logger.With(zap.String("run_id", report.RunID), zap.String("date", report.Date))

	due, err := s.store.FindDue(ctx, today)
	if err != nil {
		logger.Error("failed to select due subscriptions", zap.Error(err))
		return nil, fmt.Errorf("failed to select due subscriptions: %w", err)
	}

	logger.Info("renewal run started", zap.Int("due", len(due)))

	for _, sub := range due {
		if err := ctx.Err(); err != nil {
			// No new charges once the run is cancelled; these stay due for the next run.
			report.Results = append(report.Results, Result{
				ID:     sub.ID,
				Status: ResultSkipped,
				Error:  &ResultError{Message: err.Error()},
			})
			continue
		}
		report.Results = append(report.Results, s.process(ctx, logger, sub, now, today))
	}
	report.Processed = len(due)

	expired, err := s.store.ExpireCancelled(ctx, today)
	if err != nil {
		logger.Error("failed to expire cancelled subscriptions", zap.Error(err))
		return nil, fmt.Errorf("failed to expire cancelled subscriptions: %w", err)
	}
	if expired != nil {
		report.ExpiredIDs = expired
	}
	report.Expired = len(report.ExpiredIDs)

	logger.Info("renewal run finished",
		zap.Int("processed", report.Processed),
		zap.Int("success", report.Count(ResultSuccess)),
		zap.Int("extended_free", report.Count(ResultExtendedFree)),
		zap.Int("failed", report.Count(ResultFailed)),
		zap.Int("error", report.Count(ResultErrored)),
		zap.Int("skipped", report.Count(ResultSkipped)),
		zap.Int("expired", report.Expired),
	)

	return report, nil
}

// PreviewDue runs the selector without side effects. An empty date means today
// in the billing timezone.
func (s *Service) PreviewDue(ctx context.Context, date string) (*subscription.DuePreviewResponse, error) {
	day := subscription.CalendarDate(s.now().In(s.loc))
	if date != "" {
		parsed, err := time.Parse(time.DateOnly, date)
		if err != nil {
			return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", xerrors.ErrInvalidInput)
		}
		day = parsed
	}

	due, err := s.store.FindDue(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("failed to select due subscriptions: %w", err)
	}

	views := make([]subscription.DueSubscriptionView, 0, len(due))
	for _, sub := range due {
		views = append(views, subscription.NewDueSubscriptionView(sub))
	}

	return &subscription.DuePreviewResponse{
		Date:          day.Format(time.DateOnly),
		Subscriptions: views,
		Total:         len(views),
	}, nil
}

// process handles a single subscription. A panic is contained to this
// subscription and reported as an error result.
func (s *Service) process(ctx context.Context, logger *zap.Logger, sub *subscription.Subscription, now, today time.Time) (result Result) {
	logger = logger.With(zap.String("subscription_id", sub.ID))

	defer func() {
		if r := recover(); r != nil {
			logger.Error("panic while renewing subscription", zap.Any("panic", r), zap.Stack("stack"))
			result = errorResult(sub.ID, fmt.Errorf("panic: %v", r))
		}
	}()

	release, err := s.locker.Acquire(ctx, LockKey(sub.ID))
	if err != nil {
		if xerrors.Is(err, xerrors.ErrLockNotAcquired) {
			logger.Warn("subscription locked by another run", zap.Error(err))
			return Result{ID: sub.ID, Status: ResultSkipped}
		}
		logger.Error("failed to lock subscription", zap.Error(err))
		return errorResult(sub.ID, err)
	}
	defer release()

	// The selector ran before the lock; a concurrent run may have renewed or
	// the user may have cancelled since.
	current, err := s.store.FindByID(ctx, sub.ID)
	if err != nil {
		logger.Error("failed to reload subscription", zap.Error(err))
		return errorResult(sub.ID, err)
	}
	if !current.DueOn(today) {
		logger.Info("subscription no longer due, skipping",
			zap.String("status", string(current.Status)),
			zap.Bool("cancel_at_period_end", current.CancelAtPeriodEnd),
			zap.Time("next_billing_date", current.NextBillingDate),
		)
		return Result{ID: sub.ID, Status: ResultSkipped}
	}

	if current.Plan.IsFree() {
		return s.extendFree(ctx, logger, current, now)
	}

	return s.charge(ctx, logger, current, now)
}

func (s *Service) extendFree(ctx context.Context, logger *zap.Logger, sub *subscription.Subscription, now time.Time) Result {
	renewal := nextRenewal(sub.ID, now, s.loc, sub.Plan.BillingCycle)

	if err := s.store.RecordRenewal(ctx, nil, renewal); err != nil {
		logger.Error("failed to extend free subscription", zap.Error(err))
		return errorResult(sub.ID, err)
	}

	logger.Info("free subscription extended",
		zap.String("next_billing_date", renewal.NextBillingDate.Format(time.DateOnly)),
	)

	return Result{
		ID:              sub.ID,
		Status:          ResultExtendedFree,
		NextBillingDate: renewal.NextBillingDate.Format(time.DateOnly),
	}
}

func (s *Service) charge(ctx context.Context, logger *zap.Logger, sub *subscription.Subscription, now time.Time) Result {
	if sub.BillingKey == nil || sub.BillingKey.BillingKey == "" {
		logger.Error("paid subscription has no billing key", zap.Int64("amount", sub.Plan.Price))
		return errorResult(sub.ID, xerrors.ErrBillingKeyMissing)
	}

	req := &tosspayments.ChargeRequest{
		Amount:        sub.Plan.Price,
		CustomerKey:   sub.BillingKey.CustomerKey,
		OrderID:       fmt.Sprintf("%s_%d", sub.ID, s.now().UnixMilli()),
		OrderName:     sub.Plan.Name + orderNameSuffix,
		TaxFreeAmount: 0,
	}
	if sub.BillingKey.CustomerEmail != nil {
		req.CustomerEmail = *sub.BillingKey.CustomerEmail
	}

	res, err := s.gateway.ChargeBillingKey(ctx, sub.BillingKey.BillingKey, req)
	if err != nil {
		logger.Error("failed to dispatch charge", zap.String("order_id", req.OrderID), zap.Error(err))
		return errorResult(sub.ID, err)
	}

	if res.OK() {
		return s.reconcileSuccess(ctx, logger, sub, req, res, now)
	}
	return s.reconcileFailure(ctx, logger, sub, req, res)
}

func (s *Service) reconcileSuccess(
	ctx context.Context,
	logger *zap.Logger,
	sub *subscription.Subscription,
	req *tosspayments.ChargeRequest,
	res *tosspayments.ChargeResult,
	now time.Time,
) Result {
	attempt := &payment.Attempt{
		SubscriptionID: sub.ID,
		Amount:         req.Amount,
		Status:         payment.AttemptSuccess,
		OrderID:        &req.OrderID,
		Metadata:       res.Raw,
	}
	var paymentKey string
	if res.Payment != nil && res.Payment.PaymentKey != "" {
		paymentKey = res.Payment.PaymentKey
		attempt.PaymentKey = &paymentKey
	}

	renewal := nextRenewal(sub.ID, now, s.loc, sub.Plan.BillingCycle)

	// The charge went through, so the write must not be cut short by cancellation.
	if err := s.store.RecordRenewal(context.WithoutCancel(ctx), attempt, renewal); err != nil {
		// Money has moved; the row needs manual attention.
		logger.Error("charge approved but renewal could not be recorded",
			zap.String("order_id", req.OrderID),
			zap.String("payment_key", paymentKey),
			zap.Int64("amount", req.Amount),
			zap.Error(err),
		)
		return errorResult(sub.ID, err)
	}

	logger.Info("subscription renewed",
		zap.String("payment_key", paymentKey),
		zap.Int64("amount", req.Amount),
		zap.String("next_billing_date", renewal.NextBillingDate.Format(time.DateOnly)),
	)

	return Result{
		ID:              sub.ID,
		Status:          ResultSuccess,
		PaymentKey:      paymentKey,
		NextBillingDate: renewal.NextBillingDate.Format(time.DateOnly),
	}
}

func (s *Service) reconcileFailure(
	ctx context.Context,
	logger *zap.Logger,
	sub *subscription.Subscription,
	req *tosspayments.ChargeRequest,
	res *tosspayments.ChargeResult,
) Result {
	code, message := payment.DefaultErrorCode, payment.DefaultErrorMessage
	if res.Failure != nil {
		if res.Failure.Code != "" {
			code = res.Failure.Code
		}
		if res.Failure.Message != "" {
			message = res.Failure.Message
		}
	}

	attempt := &payment.Attempt{
		SubscriptionID: sub.ID,
		Amount:         req.Amount,
		Status:         payment.AttemptFailed,
		OrderID:        &req.OrderID,
		ErrorCode:      &code,
		ErrorMessage:   &message,
		Metadata:       res.Raw,
	}

	if err := s.store.RecordFailure(context.WithoutCancel(ctx), attempt); err != nil {
		logger.Error("failed to record failed payment attempt",
			zap.String("order_id", req.OrderID),
			zap.String("code", code),
			zap.Error(err),
		)
		return errorResult(sub.ID, err)
	}

	logger.Warn("subscription charge failed",
		zap.String("order_id", req.OrderID),
		zap.Int("status", res.StatusCode),
		zap.String("code", code),
		zap.String("message", message),
	)

	return Result{
		ID:     sub.ID,
		Status: ResultFailed,
		Error:  &ResultError{Code: code, Message: message},
	}
}

// LockKey is the distributed lock name guarding one subscription's renewal.
func LockKey(subscriptionID string) string {
	return "renewal:subscription:" + subscriptionID
}

func errorResult(id string, err error) Result {
	return Result{
		ID:     id,
		Status: ResultErrored,
		Error:  &ResultError{Message: xerrors.MessageOrDefault(err, "unknown error")},
	}
}
