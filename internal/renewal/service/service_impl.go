package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/oklog/ulid/v2"
	"github.com/railzwaylabs/subcommerce/internal/clock"
	invoicedomain "github.com/railzwaylabs/subcommerce/internal/invoice/domain"
	productdomain "github.com/railzwaylabs/subcommerce/internal/product/domain"
	"github.com/railzwaylabs/subcommerce/internal/renewal/domain"
	subscriptiondomain "github.com/railzwaylabs/subcommerce/internal/subscription/domain"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	tracerName      = "github.com/railzwaylabs/subcommerce/internal/renewal"
	maxHistoryLimit = 100
)

type Params struct {
	fx.In

	DB            *gorm.DB
	Log           *zap.Logger
	Clock         clock.Clock
	GenID         *snowflake.Node
	Subscriptions subscriptiondomain.Repository
	Invoices      invoicedomain.Repository
	Products      productdomain.Repository
	RunLog        domain.RunLog
	Locker        domain.Locker
	Metrics       *Metrics `optional:"true"`
}

type Service struct {
	db            *gorm.DB
	log           *zap.Logger
	clock         clock.Clock
	genID         *snowflake.Node
	subscriptions subscriptiondomain.Repository
	invoices      invoicedomain.Repository
	products      productdomain.Repository
	runLog        domain.RunLog
	locker        domain.Locker
	metrics       *Metrics
	tracer        trace.Tracer
}

func New(p Params) domain.Service {
	return &Service{
		db:            p.DB,
		log:           p.Log.Named("renewal.service"),
		clock:         p.Clock,
		genID:         p.GenID,
		subscriptions: p.Subscriptions,
		invoices:      p.Invoices,
		products:      p.Products,
		runLog:        p.RunLog,
		locker:        p.Locker,
		metrics:       p.Metrics,
		tracer:        otel.Tracer(tracerName),
	}
}

func (s *Service) Run(ctx context.Context, trigger domain.Trigger) (domain.Run, error) {
	release, acquired, err := s.locker.TryAcquire(ctx)
	if err != nil {
		return domain.Run{}, fmt.Errorf("acquire renewal lock: %w", err)
	}
	if !acquired {
		s.metrics.observeRun(outcomeInProgress, 0, 0, 0, 0)
		s.log.Info("renewal run rejected, another run is in progress", zap.String("trigger", string(trigger)))
		return domain.Run{}, domain.ErrRunInProgress
	}
	defer release()

	ctx, span := s.tracer.Start(ctx, "renewal.run", trace.WithAttributes(
		attribute.String("renewal.trigger", string(trigger)),
	))
	defer span.End()

	started := time.Now()
	now := s.clock.Now(ctx)
	run := domain.Run{
		RunID:     ulid.Make().String(),
		Timestamp: now,
		Trigger:   trigger,
		Renewals:  []domain.Renewed{},
		Skipped:   []domain.Skipped{},
		Failed:    []domain.Failed{},
	}

	s.log.Info("renewal run started",
		zap.String("run_id", run.RunID),
		zap.String("trigger", string(trigger)),
		zap.Time("now", now),
	)

	candidates, lines, err := s.loadCandidates(ctx, now)
	if err != nil {
		run.Error = err.Error()
		span.RecordError(err)
		span.SetStatus(codes.Error, "candidate scan failed")
		s.finish(ctx, &run, started, outcomeAborted)
		return run, err
	}
	run.Scanned = len(candidates)

	for _, sub := range candidates {
		id := sub.ID.String()

		eval, err := s.evaluate(ctx, sub, len(lines[sub.ID]), now, false)
		if err != nil {
			s.recordFailure(&run, sub, err)
			continue
		}
		if !eval.Due {
			run.Skipped = append(run.Skipped, domain.Skipped{ID: id, Reasons: eval.Reasons})
			continue
		}

		inv, err := s.renew(ctx, sub, lines[sub.ID], now)
		if err != nil {
			s.recordFailure(&run, sub, err)
			continue
		}
		run.Renewals = append(run.Renewals, domain.Renewed{
			ID:          id,
			InvoiceID:   inv.ID.String(),
			InvoiceNo:   inv.InvoiceNo,
			TotalAmount: inv.TotalAmount,
		})
	}
	run.Renewed = len(run.Renewals)

	outcome := outcomeCompleted
	if len(run.Failed) > 0 {
		outcome = outcomeWithFailures
	}
	span.SetAttributes(
		attribute.Int("renewal.scanned", run.Scanned),
		attribute.Int("renewal.renewed", run.Renewed),
		attribute.Int("renewal.failed", len(run.Failed)),
	)
	s.finish(ctx, &run, started, outcome)
	return run, nil
}

func (s *Service) Inspect(ctx context.Context) (domain.Inspection, error) {
	ctx, span := s.tracer.Start(ctx, "renewal.inspect")
	defer span.End()

	now := s.clock.Now(ctx)
	// Ended subscriptions are listed too, so the report explains why they stop renewing.
	candidates, err := s.subscriptions.ListActiveByPeriod(ctx, s.db, subscriptiondomain.BillingPeriodMonthly)
	if err != nil {
		err = fmt.Errorf("%w: %v", domain.ErrCandidateScan, err)
		span.RecordError(err)
		return domain.Inspection{}, err
	}
	lines, err := s.linesFor(ctx, candidates)
	if err != nil {
		span.RecordError(err)
		return domain.Inspection{}, err
	}

	out := domain.Inspection{
		AsOf:       now,
		Scanned:    len(candidates),
		Candidates: make([]domain.Evaluation, 0, len(candidates)),
	}
	for _, sub := range candidates {
		ended := sub.EndDate != nil && !sub.EndDate.After(now)
		eval, err := s.evaluate(ctx, sub, len(lines[sub.ID]), now, ended)
		if err != nil {
			return domain.Inspection{}, err
		}
		if eval.Due {
			out.Due++
		}
		out.Candidates = append(out.Candidates, eval)
	}
	return out, nil
}

func (s *Service) History(ctx context.Context, limit int) (domain.History, error) {
	if limit <= 0 || limit > maxHistoryLimit {
		return domain.History{}, domain.ErrInvalidLimit
	}

	history, err := s.runLog.Recent(ctx, limit)
	if err != nil {
		s.log.Warn("renewal run log unavailable", zap.Error(err))
		return domain.History{Runs: []domain.Run{}, Unavailable: true}, nil
	}
	if history.Runs == nil {
		history.Runs = []domain.Run{}
	}
	return history, nil
}

// loadCandidates reads the renewal candidates and their lines. Any error here
// is a selection error and aborts the caller.
func (s *Service) loadCandidates(ctx context.Context, now time.Time) ([]subscriptiondomain.Subscription, map[snowflake.ID][]subscriptiondomain.SubscriptionLine, error) {
	candidates, err := s.subscriptions.ListRenewalCandidates(ctx, s.db, subscriptiondomain.BillingPeriodMonthly, now)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrCandidateScan, err)
	}

	lines, err := s.linesFor(ctx, candidates)
	if err != nil {
		return nil, nil, err
	}
	return candidates, lines, nil
}

func (s *Service) linesFor(ctx context.Context, subs []subscriptiondomain.Subscription) (map[snowflake.ID][]subscriptiondomain.SubscriptionLine, error) {
	ids := lo.Map(subs, func(sub subscriptiondomain.Subscription, _ int) snowflake.ID { return sub.ID })
	lines, err := s.subscriptions.ListLines(ctx, s.db, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCandidateScan, err)
	}
	return lo.GroupBy(lines, func(l subscriptiondomain.SubscriptionLine) snowflake.ID { return l.SubscriptionID }), nil
}

func (s *Service) evaluate(ctx context.Context, sub subscriptiondomain.Subscription, lineCount int, now time.Time, ended bool) (domain.Evaluation, error) {
	last, err := s.invoices.FindLatestBySubscriptionID(ctx, s.db, sub.ID)
	if err != nil {
		return domain.Evaluation{}, fmt.Errorf("load latest invoice: %w", err)
	}

	in := PolicyInput{
		Now:       now,
		CreatedAt: sub.CreatedAt,
		EndDate:   sub.EndDate,
		LineCount: lineCount,
		Ended:     ended,
	}
	if last != nil {
		issued := last.IssueDate
		in.LastIssueDate = &issued
	}

	eval := Evaluate(in)
	eval.SubscriptionID = sub.ID.String()
	eval.SubscriptionNo = sub.SubscriptionNo
	return eval, nil
}

// renew writes one DRAFT invoice and its lines in a single transaction.
func (s *Service) renew(ctx context.Context, sub subscriptiondomain.Subscription, lines []subscriptiondomain.SubscriptionLine, now time.Time) (*invoicedomain.Invoice, error) {
	invoiceID := s.genID.Generate()
	invoiceLines := buildInvoiceLines(s.genID, invoiceID, lines, now)

	totals := sumTotals(invoiceLines)
	if err := totals.check(); err != nil {
		return nil, err
	}

	inv := &invoicedomain.Invoice{
		ID:             invoiceID,
		InvoiceNo:      invoiceNumber(now, invoiceID),
		SubscriptionID: sub.ID,
		UserID:         sub.UserID,
		BillingPeriod:  now.Format(invoicedomain.BillingPeriodLayout),
		Status:         invoicedomain.InvoiceStatusDraft,
		Currency:       sub.Currency,
		IssueDate:      now,
		DueDate:        dueDate(now, sub.PaymentTermDays),
		SubtotalAmount: totals.Subtotal,
		TaxAmount:      totals.Tax,
		TotalAmount:    totals.Total,
		Metadata: datatypes.JSONMap{
			"source":          "renewal",
			"subscription_no": sub.SubscriptionNo,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	productIDs := lo.Uniq(lo.Map(lines, func(l subscriptiondomain.SubscriptionLine, _ int) snowflake.ID { return l.ProductID }))

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := s.products.CountByIDs(ctx, tx, productIDs)
		if err != nil {
			return err
		}
		if found != int64(len(productIDs)) {
			return domain.ErrUnknownProduct
		}
		if err := s.invoices.Insert(ctx, tx, inv); err != nil {
			return err
		}
		return s.invoices.InsertLines(ctx, tx, invoiceLines)
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *Service) recordFailure(run *domain.Run, sub subscriptiondomain.Subscription, err error) {
	run.Failed = append(run.Failed, domain.Failed{ID: sub.ID.String(), Error: err.Error()})
	s.log.Warn("subscription renewal failed",
		zap.String("run_id", run.RunID),
		zap.String("subscription_id", sub.ID.String()),
		zap.String("subscription_no", sub.SubscriptionNo),
		zap.Error(err),
	)
}

// finish stamps the duration, appends the run log entry and reports metrics.
// A run log write failure is logged and otherwise ignored.
func (s *Service) finish(ctx context.Context, run *domain.Run, started time.Time, outcome string) {
	elapsed := time.Since(started)
	run.DurationMs = elapsed.Milliseconds()

	if err := s.runLog.Append(ctx, *run); err != nil {
		s.log.Warn("renewal run log write failed", zap.String("run_id", run.RunID), zap.Error(err))
	}

	s.metrics.observeRun(outcome, elapsed, run.Renewed, len(run.Skipped), len(run.Failed))
	s.log.Info("renewal run finished",
		zap.String("run_id", run.RunID),
		zap.String("outcome", outcome),
		zap.Int("scanned", run.Scanned),
		zap.Int("renewed", run.Renewed),
		zap.Int("skipped", len(run.Skipped)),
		zap.Int("failed", len(run.Failed)),
		zap.Int64("duration_ms", run.DurationMs),
	)
}
