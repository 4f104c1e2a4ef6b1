package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitticket/pkg/api"
)

const SplitServiceName = "splitticket.v1.SplitService"

const (
	SplitServiceOptimizeProcedure       = "/" + SplitServiceName + "/Optimize"
	SplitServiceSaveExpenseProcedure    = "/" + SplitServiceName + "/SaveExpense"
	SplitServiceListExpensesProcedure   = "/" + SplitServiceName + "/ListExpenses"
	SplitServiceClearHistoryProcedure   = "/" + SplitServiceName + "/ClearHistory"
	SplitServiceExportHistoryProcedure  = "/" + SplitServiceName + "/ExportHistory"
	SplitServiceGetSettingsProcedure    = "/" + SplitServiceName + "/GetSettings"
	SplitServiceUpdateSettingsProcedure = "/" + SplitServiceName + "/UpdateSettings"
)

// SplitServiceHandler is implemented by the server side of SplitService.
type SplitServiceHandler interface {
	Optimize(context.Context, *connect.Request[api.OptimizeRequest]) (*connect.Response[api.OptimizeResponse], error)
	SaveExpense(context.Context, *connect.Request[api.SaveExpenseRequest]) (*connect.Response[api.SaveExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
	ClearHistory(context.Context, *connect.Request[api.ClearHistoryRequest]) (*connect.Response[api.ClearHistoryResponse], error)
	ExportHistory(context.Context, *connect.Request[api.ExportHistoryRequest]) (*connect.Response[api.ExportHistoryResponse], error)
	GetSettings(context.Context, *connect.Request[api.GetSettingsRequest]) (*connect.Response[api.GetSettingsResponse], error)
	UpdateSettings(context.Context, *connect.Request[api.UpdateSettingsRequest]) (*connect.Response[api.UpdateSettingsResponse], error)
}

// NewSplitServiceHandler returns the mount path and handler for svc.
func NewSplitServiceHandler(svc SplitServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + SplitServiceName + "/", route(map[string]*connect.Handler{
		SplitServiceOptimizeProcedure:       connect.NewUnaryHandler(SplitServiceOptimizeProcedure, svc.Optimize, opts...),
		SplitServiceSaveExpenseProcedure:    connect.NewUnaryHandler(SplitServiceSaveExpenseProcedure, svc.SaveExpense, opts...),
		SplitServiceListExpensesProcedure:   connect.NewUnaryHandler(SplitServiceListExpensesProcedure, svc.ListExpenses, opts...),
		SplitServiceClearHistoryProcedure:   connect.NewUnaryHandler(SplitServiceClearHistoryProcedure, svc.ClearHistory, opts...),
		SplitServiceExportHistoryProcedure:  connect.NewUnaryHandler(SplitServiceExportHistoryProcedure, svc.ExportHistory, opts...),
		SplitServiceGetSettingsProcedure:    connect.NewUnaryHandler(SplitServiceGetSettingsProcedure, svc.GetSettings, opts...),
		SplitServiceUpdateSettingsProcedure: connect.NewUnaryHandler(SplitServiceUpdateSettingsProcedure, svc.UpdateSettings, opts...),
	})
}

// SplitServiceClient calls SplitService.
type SplitServiceClient struct {
	optimize       *connect.Client[api.OptimizeRequest, api.OptimizeResponse]
	saveExpense    *connect.Client[api.SaveExpenseRequest, api.SaveExpenseResponse]
	listExpenses   *connect.Client[api.ListExpensesRequest, api.ListExpensesResponse]
	clearHistory   *connect.Client[api.ClearHistoryRequest, api.ClearHistoryResponse]
	exportHistory  *connect.Client[api.ExportHistoryRequest, api.ExportHistoryResponse]
	getSettings    *connect.Client[api.GetSettingsRequest, api.GetSettingsResponse]
	updateSettings *connect.Client[api.UpdateSettingsRequest, api.UpdateSettingsResponse]
}

// NewSplitServiceClient builds a client for the server at baseURL.
func NewSplitServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *SplitServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &SplitServiceClient{
		optimize:       connect.NewClient[api.OptimizeRequest, api.OptimizeResponse](httpClient, baseURL+SplitServiceOptimizeProcedure, opts...),
		saveExpense:    connect.NewClient[api.SaveExpenseRequest, api.SaveExpenseResponse](httpClient, baseURL+SplitServiceSaveExpenseProcedure, opts...),
		listExpenses:   connect.NewClient[api.ListExpensesRequest, api.ListExpensesResponse](httpClient, baseURL+SplitServiceListExpensesProcedure, opts...),
		clearHistory:   connect.NewClient[api.ClearHistoryRequest, api.ClearHistoryResponse](httpClient, baseURL+SplitServiceClearHistoryProcedure, opts...),
		exportHistory:  connect.NewClient[api.ExportHistoryRequest, api.ExportHistoryResponse](httpClient, baseURL+SplitServiceExportHistoryProcedure, opts...),
		getSettings:    connect.NewClient[api.GetSettingsRequest, api.GetSettingsResponse](httpClient, baseURL+SplitServiceGetSettingsProcedure, opts...),
		updateSettings: connect.NewClient[api.UpdateSettingsRequest, api.UpdateSettingsResponse](httpClient, baseURL+SplitServiceUpdateSettingsProcedure, opts...),
	}
}

func (c *SplitServiceClient) Optimize(ctx context.Context, req *connect.Request[api.OptimizeRequest]) (*connect.Response[api.OptimizeResponse], error) {
	return c.optimize.CallUnary(ctx, req)
}

func (c *SplitServiceClient) SaveExpense(ctx context.Context, req *connect.Request[api.SaveExpenseRequest]) (*connect.Response[api.SaveExpenseResponse], error) {
	return c.saveExpense.CallUnary(ctx, req)
}

func (c *SplitServiceClient) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

func (c *SplitServiceClient) ClearHistory(ctx context.Context, req *connect.Request[api.ClearHistoryRequest]) (*connect.Response[api.ClearHistoryResponse], error) {
	return c.clearHistory.CallUnary(ctx, req)
}

func (c *SplitServiceClient) ExportHistory(ctx context.Context, req *connect.Request[api.ExportHistoryRequest]) (*connect.Response[api.ExportHistoryResponse], error) {
	return c.exportHistory.CallUnary(ctx, req)
}

func (c *SplitServiceClient) GetSettings(ctx context.Context, req *connect.Request[api.GetSettingsRequest]) (*connect.Response[api.GetSettingsResponse], error) {
	return c.getSettings.CallUnary(ctx, req)
}

func (c *SplitServiceClient) UpdateSettings(ctx context.Context, req *connect.Request[api.UpdateSettingsRequest]) (*connect.Response[api.UpdateSettingsResponse], error) {
	return c.updateSettings.CallUnary(ctx, req)
}
