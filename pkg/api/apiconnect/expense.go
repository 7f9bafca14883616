package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"
	"github.com/mmynk/splitgroups/pkg/api"
)

// ExpenseServiceName is the fully-qualified name of the ExpenseService service.
const ExpenseServiceName = "splitgroups.v1.ExpenseService"

// These constants are the fully-qualified names of the RPCs defined in ExpenseService. They're
// exposed at runtime as Spec.Procedure and as the final two segments of the HTTP route.
const (
	ExpenseServicePreviewSplitProcedure        = "/splitgroups.v1.ExpenseService/PreviewSplit"
	ExpenseServiceCreateExpenseProcedure       = "/splitgroups.v1.ExpenseService/CreateExpense"
	ExpenseServiceGetExpenseProcedure          = "/splitgroups.v1.ExpenseService/GetExpense"
	ExpenseServiceListExpensesByGroupProcedure = "/splitgroups.v1.ExpenseService/ListExpensesByGroup"
	ExpenseServiceListRecentExpensesProcedure  = "/splitgroups.v1.ExpenseService/ListRecentExpenses"
	ExpenseServiceDeleteExpenseProcedure       = "/splitgroups.v1.ExpenseService/DeleteExpense"
	ExpenseServiceRecordSettlementProcedure    = "/splitgroups.v1.ExpenseService/RecordSettlement"
	ExpenseServiceListSettlementsProcedure     = "/splitgroups.v1.ExpenseService/ListSettlements"
)

// ExpenseServiceClient is a client for the splitgroups.v1.ExpenseService service.
type ExpenseServiceClient interface {
	PreviewSplit(context.Context, *connect.Request[api.PreviewSplitRequest]) (*connect.Response[api.PreviewSplitResponse], error)
	CreateExpense(context.Context, *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error)
	GetExpense(context.Context, *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error)
	ListExpensesByGroup(context.Context, *connect.Request[api.ListExpensesByGroupRequest]) (*connect.Response[api.ListExpensesByGroupResponse], error)
	ListRecentExpenses(context.Context, *connect.Request[api.ListRecentExpensesRequest]) (*connect.Response[api.ListRecentExpensesResponse], error)
	DeleteExpense(context.Context, *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error)
	RecordSettlement(context.Context, *connect.Request[api.RecordSettlementRequest]) (*connect.Response[api.RecordSettlementResponse], error)
	ListSettlements(context.Context, *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error)
}

// NewExpenseServiceClient constructs a client for the splitgroups.v1.ExpenseService service.
// The JSON codec is always installed; opts may add interceptors or other options.
func NewExpenseServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ExpenseServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &expenseServiceClient{
		previewSplit:        connect.NewClient[api.PreviewSplitRequest, api.PreviewSplitResponse](httpClient, baseURL+ExpenseServicePreviewSplitProcedure, opts...),
		createExpense:       connect.NewClient[api.CreateExpenseRequest, api.CreateExpenseResponse](httpClient, baseURL+ExpenseServiceCreateExpenseProcedure, opts...),
		getExpense:          connect.NewClient[api.GetExpenseRequest, api.GetExpenseResponse](httpClient, baseURL+ExpenseServiceGetExpenseProcedure, opts...),
		listExpensesByGroup: connect.NewClient[api.ListExpensesByGroupRequest, api.ListExpensesByGroupResponse](httpClient, baseURL+ExpenseServiceListExpensesByGroupProcedure, opts...),
		listRecentExpenses:  connect.NewClient[api.ListRecentExpensesRequest, api.ListRecentExpensesResponse](httpClient, baseURL+ExpenseServiceListRecentExpensesProcedure, opts...),
		deleteExpense:       connect.NewClient[api.DeleteExpenseRequest, api.DeleteExpenseResponse](httpClient, baseURL+ExpenseServiceDeleteExpenseProcedure, opts...),
		recordSettlement:    connect.NewClient[api.RecordSettlementRequest, api.RecordSettlementResponse](httpClient, baseURL+ExpenseServiceRecordSettlementProcedure, opts...),
		listSettlements:     connect.NewClient[api.ListSettlementsRequest, api.ListSettlementsResponse](httpClient, baseURL+ExpenseServiceListSettlementsProcedure, opts...),
	}
}

type expenseServiceClient struct {
	previewSplit        *connect.Client[api.PreviewSplitRequest, api.PreviewSplitResponse]
	createExpense       *connect.Client[api.CreateExpenseRequest, api.CreateExpenseResponse]
	getExpense          *connect.Client[api.GetExpenseRequest, api.GetExpenseResponse]
	listExpensesByGroup *connect.Client[api.ListExpensesByGroupRequest, api.ListExpensesByGroupResponse]
	listRecentExpenses  *connect.Client[api.ListRecentExpensesRequest, api.ListRecentExpensesResponse]
	deleteExpense       *connect.Client[api.DeleteExpenseRequest, api.DeleteExpenseResponse]
	recordSettlement    *connect.Client[api.RecordSettlementRequest, api.RecordSettlementResponse]
	listSettlements     *connect.Client[api.ListSettlementsRequest, api.ListSettlementsResponse]
}

func (c *expenseServiceClient) PreviewSplit(ctx context.Context, req *connect.Request[api.PreviewSplitRequest]) (*connect.Response[api.PreviewSplitResponse], error) {
	return c.previewSplit.CallUnary(ctx, req)
}

func (c *expenseServiceClient) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	return c.createExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) GetExpense(ctx context.Context, req *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error) {
	return c.getExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) ListExpensesByGroup(ctx context.Context, req *connect.Request[api.ListExpensesByGroupRequest]) (*connect.Response[api.ListExpensesByGroupResponse], error) {
	return c.listExpensesByGroup.CallUnary(ctx, req)
}

func (c *expenseServiceClient) ListRecentExpenses(ctx context.Context, req *connect.Request[api.ListRecentExpensesRequest]) (*connect.Response[api.ListRecentExpensesResponse], error) {
	return c.listRecentExpenses.CallUnary(ctx, req)
}

func (c *expenseServiceClient) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	return c.deleteExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) RecordSettlement(ctx context.Context, req *connect.Request[api.RecordSettlementRequest]) (*connect.Response[api.RecordSettlementResponse], error) {
	return c.recordSettlement.CallUnary(ctx, req)
}

func (c *expenseServiceClient) ListSettlements(ctx context.Context, req *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error) {
	return c.listSettlements.CallUnary(ctx, req)
}

// ExpenseServiceHandler is an implementation of the splitgroups.v1.ExpenseService service.
type ExpenseServiceHandler interface {
	PreviewSplit(context.Context, *connect.Request[api.PreviewSplitRequest]) (*connect.Response[api.PreviewSplitResponse], error)
	CreateExpense(context.Context, *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error)
	GetExpense(context.Context, *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error)
	ListExpensesByGroup(context.Context, *connect.Request[api.ListExpensesByGroupRequest]) (*connect.Response[api.ListExpensesByGroupResponse], error)
	ListRecentExpenses(context.Context, *connect.Request[api.ListRecentExpensesRequest]) (*connect.Response[api.ListRecentExpensesResponse], error)
	DeleteExpense(context.Context, *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error)
	RecordSettlement(context.Context, *connect.Request[api.RecordSettlementRequest]) (*connect.Response[api.RecordSettlementResponse], error)
	ListSettlements(context.Context, *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error)
}

// NewExpenseServiceHandler builds an HTTP handler from the service implementation. It returns
// the path on which to mount the handler and the handler itself.
func NewExpenseServiceHandler(svc ExpenseServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	previewSplit := connect.NewUnaryHandler(ExpenseServicePreviewSplitProcedure, svc.PreviewSplit, opts...)
	createExpense := connect.NewUnaryHandler(ExpenseServiceCreateExpenseProcedure, svc.CreateExpense, opts...)
	getExpense := connect.NewUnaryHandler(ExpenseServiceGetExpenseProcedure, svc.GetExpense, opts...)
	listExpensesByGroup := connect.NewUnaryHandler(ExpenseServiceListExpensesByGroupProcedure, svc.ListExpensesByGroup, opts...)
	listRecentExpenses := connect.NewUnaryHandler(ExpenseServiceListRecentExpensesProcedure, svc.ListRecentExpenses, opts...)
	deleteExpense := connect.NewUnaryHandler(ExpenseServiceDeleteExpenseProcedure, svc.DeleteExpense, opts...)
	recordSettlement := connect.NewUnaryHandler(ExpenseServiceRecordSettlementProcedure, svc.RecordSettlement, opts...)
	listSettlements := connect.NewUnaryHandler(ExpenseServiceListSettlementsProcedure, svc.ListSettlements, opts...)
	return "/" + ExpenseServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case ExpenseServicePreviewSplitProcedure:
			previewSplit.ServeHTTP(w, r)
		case ExpenseServiceCreateExpenseProcedure:
			createExpense.ServeHTTP(w, r)
		case ExpenseServiceGetExpenseProcedure:
			getExpense.ServeHTTP(w, r)
		case ExpenseServiceListExpensesByGroupProcedure:
			listExpensesByGroup.ServeHTTP(w, r)
		case ExpenseServiceListRecentExpensesProcedure:
			listRecentExpenses.ServeHTTP(w, r)
		case ExpenseServiceDeleteExpenseProcedure:
			deleteExpense.ServeHTTP(w, r)
		case ExpenseServiceRecordSettlementProcedure:
			recordSettlement.ServeHTTP(w, r)
		case ExpenseServiceListSettlementsProcedure:
			listSettlements.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedExpenseServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedExpenseServiceHandler struct{}

func (UnimplementedExpenseServiceHandler) PreviewSplit(context.Context, *connect.Request[api.PreviewSplitRequest]) (*connect.Response[api.PreviewSplitResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("splitgroups.v1.ExpenseService.PreviewSplit is not implemented"))
}

func (UnimplementedExpenseServiceHandler) CreateExpense(context.Context, *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("splitgroups.v1.ExpenseService.CreateExpense is not implemented"))
}

func (UnimplementedExpenseServiceHandler) GetExpense(context.Context, *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("splitgroups.v1.ExpenseService.GetExpense is not implemented"))
}

func (UnimplementedExpenseServiceHandler) ListExpensesByGroup(context.Context, *connect.Request[api.ListExpensesByGroupRequest]) (*connect.Response[api.ListExpensesByGroupResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("splitgroups.v1.ExpenseService.ListExpensesByGroup is not implemented"))
}

func (UnimplementedExpenseServiceHandler) ListRecentExpenses(context.Context, *connect.Request[api.ListRecentExpensesRequest]) (*connect.Response[api.ListRecentExpensesResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("splitgroups.v1.ExpenseService.ListRecentExpenses is not implemented"))
}

func (UnimplementedExpenseServiceHandler) DeleteExpense(context.Context, *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("splitgroups.v1.ExpenseService.DeleteExpense is not implemented"))
}

func (UnimplementedExpenseServiceHandler) RecordSettlement(context.Context, *connect.Request[api.RecordSettlementRequest]) (*connect.Response[api.RecordSettlementResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("splitgroups.v1.ExpenseService.RecordSettlement is not implemented"))
}

func (UnimplementedExpenseServiceHandler) ListSettlements(context.Context, *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("splitgroups.v1.ExpenseService.ListSettlements is not implemented"))
}
