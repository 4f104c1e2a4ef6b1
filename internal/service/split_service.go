package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/splitticket/internal/calculator"
	"github.com/mmynk/splitticket/internal/cart"
	"github.com/mmynk/splitticket/internal/export"
	"github.com/mmynk/splitticket/internal/metrics"
	"github.com/mmynk/splitticket/internal/middleware"
	"github.com/mmynk/splitticket/internal/models"
	"github.com/mmynk/splitticket/internal/storage"
	"github.com/mmynk/splitticket/pkg/api"
	"github.com/mmynk/splitticket/pkg/api/apiconnect"
)

// maxCartUnits caps the number of unit items a single cart may expand to.
const maxCartUnits = 500

// SplitService implements the Connect SplitService
type SplitService struct {
	store    storage.Store
	defaults models.Settings
	opts     calculator.Options
	metrics  *metrics.Metrics
	now      func() time.Time
}

var _ apiconnect.SplitServiceHandler = (*SplitService)(nil)

// NewSplitService creates a SplitService. defaults supply the voucher terms
// for anonymous callers and for households that never saved settings. m may
// be nil.
func NewSplitService(store storage.Store, defaults models.Settings, opts calculator.Options, m *metrics.Metrics) *SplitService {
	return &SplitService{
		store:    store,
		defaults: defaults,
		opts:     opts,
		metrics:  m,
		now:      time.Now,
	}
}

// Optimize finds the voucher split that minimizes the household's cash
// payment. Non-voucher lines are shared equally on top of it.
func (s *SplitService) Optimize(ctx context.Context, req *connect.Request[api.OptimizeRequest]) (*connect.Response[api.OptimizeResponse], error) {
	if err := validateMsg(req.Msg); err != nil {
		return nil, err
	}

	settings, err := s.resolveSettings(ctx, req.Msg)
	if err != nil {
		return nil, err
	}

	units := 0
	for _, l := range req.Msg.Lines {
		if l.Quantity > 0 {
			units += l.Quantity
		}
		if units > maxCartUnits {
			return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("cart exceeds %d items", maxCartUnits))
		}
	}

	voucher, nonVoucher, err := cart.Expand(cart.Consolidate(req.Msg.Lines), settings.NonVoucherCategories)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	slog.Debug("Optimizing cart",
		"voucher_items", len(voucher),
		"non_voucher_items", len(nonVoucher),
		"party_a", settings.PartyA.UnitValue.String(),
		"party_b", settings.PartyB.UnitValue.String(),
	)

	start := s.now()
	result, err := calculator.Optimize(ctx, voucher, settings.PartyA, settings.PartyB, s.opts)
	if err != nil {
		s.metrics.ObserveOptimization("", outcome(err), len(voucher), 0, time.Since(start))
		slog.Warn("Optimize failed", "items", len(voucher), "error", err)
		return nil, optimizeError(err)
	}

	outcomeLabel := metrics.ResultOK
	if result.Algorithm == calculator.AlgorithmGreedy {
		outcomeLabel = metrics.ResultFallback
	}
	s.metrics.ObserveOptimization(result.Algorithm, outcomeLabel, len(voucher), result.Leaves, result.Elapsed)

	receipt := cart.Checkout(result.FormattedResult, nonVoucher)
	slog.Info("Optimized cart",
		"algorithm", result.Algorithm,
		"items", len(voucher),
		"leaves", result.Leaves,
		"total_cash", receipt.TotalCash.StringFixed(2),
	)

	return connect.NewResponse(&api.OptimizeResponse{
		Receipt:           receipt,
		Algorithm:         result.Algorithm,
		ComputationMillis: result.Elapsed.Milliseconds(),
		Leaves:            result.Leaves,
	}), nil
}

// resolveSettings layers request overrides over the caller's saved settings,
// which in turn replace the server defaults.
func (s *SplitService) resolveSettings(ctx context.Context, msg *api.OptimizeRequest) (models.Settings, error) {
	settings := s.defaults
	if userID := middleware.GetUserID(ctx); userID != "" {
		saved, err := s.settingsFor(ctx, userID)
		if err != nil {
			return models.Settings{}, err
		}
		settings = saved
	}

	if msg.PartyA != nil {
		if err := checkVoucher("partyA", *msg.PartyA); err != nil {
			return models.Settings{}, err
		}
		settings.PartyA = calculator.VoucherSpec(*msg.PartyA)
	}
	if msg.PartyB != nil {
		if err := checkVoucher("partyB", *msg.PartyB); err != nil {
			return models.Settings{}, err
		}
		settings.PartyB = calculator.VoucherSpec(*msg.PartyB)
	}
	if msg.NonVoucherCategories != nil {
		settings.NonVoucherCategories = msg.NonVoucherCategories
	}
	return settings, nil
}

// settingsFor returns the household's saved settings or the defaults.
func (s *SplitService) settingsFor(ctx context.Context, userID string) (models.Settings, error) {
	saved, err := s.store.GetSettings(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		settings := s.defaults
		settings.UserID = userID
		return settings, nil
	}
	if err != nil {
		slog.Error("GetSettings failed", "user_id", userID, "error", err)
		return models.Settings{}, connect.NewError(connect.CodeInternal, err)
	}
	return *saved, nil
}

// checkVoucher rejects negative terms. A zero unit value or count disables
// the partner's vouchers.
func checkVoucher(field string, v api.VoucherSpec) error {
	if v.UnitValue.IsNegative() {
		return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("%s.unitValue must not be negative", field))
	}
	if v.MaxUnits < 0 {
		return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("%s.maxUnits must not be negative", field))
	}
	return nil
}

func outcome(err error) string {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return metrics.ResultCancelled
	}
	return metrics.ResultError
}

func optimizeError(err error) error {
	switch {
	case errors.Is(err, calculator.ErrInvalidItem):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, calculator.ErrTooManyItems):
		return connect.NewError(connect.CodeResourceExhausted, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// SaveExpense appends a checkout to the caller's history.
func (s *SplitService) SaveExpense(ctx context.Context, req *connect.Request[api.SaveExpenseRequest]) (*connect.Response[api.SaveExpenseResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateMsg(req.Msg); err != nil {
		return nil, err
	}

	expense := &models.Expense{
		UserID:            userID,
		Algorithm:         req.Msg.Algorithm,
		ComputationMillis: req.Msg.ComputationMillis,
		Receipt:           req.Msg.Receipt,
	}
	if err := s.store.SaveExpense(ctx, expense); err != nil {
		slog.Error("SaveExpense failed", "user_id", userID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	return connect.NewResponse(&api.SaveExpenseResponse{Expense: *expense}), nil
}

// ListExpenses returns the caller's history, newest first.
func (s *SplitService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	expenses, err := s.store.ListExpenses(ctx, userID)
	if err != nil {
		slog.Error("ListExpenses failed", "user_id", userID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	if expenses == nil {
		expenses = []*models.Expense{}
	}

	return connect.NewResponse(&api.ListExpensesResponse{Expenses: expenses}), nil
}

// ClearHistory deletes every saved expense of the caller.
func (s *SplitService) ClearHistory(ctx context.Context, req *connect.Request[api.ClearHistoryRequest]) (*connect.Response[api.ClearHistoryResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	deleted, err := s.store.ClearExpenses(ctx, userID)
	if err != nil {
		slog.Error("ClearHistory failed", "user_id", userID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	slog.Info("History cleared", "user_id", userID, "deleted", deleted)

	return connect.NewResponse(&api.ClearHistoryResponse{Deleted: deleted}), nil
}

// ExportHistory renders the caller's history as CSV or JSON.
func (s *SplitService) ExportHistory(ctx context.Context, req *connect.Request[api.ExportHistoryRequest]) (*connect.Response[api.ExportHistoryResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateMsg(req.Msg); err != nil {
		return nil, err
	}

	expenses, err := s.store.ListExpenses(ctx, userID)
	if err != nil {
		slog.Error("ExportHistory failed", "user_id", userID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	doc, err := export.Render(req.Msg.Format, expenses, s.now())
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	return connect.NewResponse(&api.ExportHistoryResponse{
		Filename:    doc.Filename,
		ContentType: doc.ContentType,
		Content:     string(doc.Content),
	}), nil
}

// GetSettings returns the caller's voucher settings, or the server defaults
// when none were saved.
func (s *SplitService) GetSettings(ctx context.Context, req *connect.Request[api.GetSettingsRequest]) (*connect.Response[api.GetSettingsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	settings, err := s.settingsFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	return connect.NewResponse(&api.GetSettingsResponse{Settings: toAPISettings(settings)}), nil
}

// UpdateSettings replaces the caller's voucher settings.
func (s *SplitService) UpdateSettings(ctx context.Context, req *connect.Request[api.UpdateSettingsRequest]) (*connect.Response[api.UpdateSettingsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateMsg(req.Msg); err != nil {
		return nil, err
	}
	in := req.Msg.Settings
	if err := checkVoucher("settings.partyA", in.PartyA); err != nil {
		return nil, err
	}
	if err := checkVoucher("settings.partyB", in.PartyB); err != nil {
		return nil, err
	}

	settings := &models.Settings{
		UserID:               userID,
		PartyA:               calculator.VoucherSpec(in.PartyA),
		PartyB:               calculator.VoucherSpec(in.PartyB),
		NonVoucherCategories: in.NonVoucherCategories,
	}
	if settings.NonVoucherCategories == nil {
		settings.NonVoucherCategories = []string{}
	}
	if err := s.store.SaveSettings(ctx, settings); err != nil {
		slog.Error("UpdateSettings failed", "user_id", userID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	return connect.NewResponse(&api.UpdateSettingsResponse{Settings: toAPISettings(*settings)}), nil
}

func toAPISettings(s models.Settings) api.Settings {
	categories := s.NonVoucherCategories
	if categories == nil {
		categories = []string{}
	}
	return api.Settings{
		PartyA:               api.VoucherSpec(s.PartyA),
		PartyB:               api.VoucherSpec(s.PartyB),
		NonVoucherCategories: categories,
	}
}
