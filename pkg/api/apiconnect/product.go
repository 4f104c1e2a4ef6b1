package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitticket/pkg/api"
)

const ProductServiceName = "splitticket.v1.ProductService"

const (
	ProductServiceLookupProductProcedure  = "/" + ProductServiceName + "/LookupProduct"
	ProductServiceArchiveProductProcedure = "/" + ProductServiceName + "/ArchiveProduct"
	ProductServiceListProductsProcedure   = "/" + ProductServiceName + "/ListProducts"
	ProductServiceDeleteProductProcedure  = "/" + ProductServiceName + "/DeleteProduct"
)

// ProductServiceHandler is implemented by the server side of ProductService.
type ProductServiceHandler interface {
	LookupProduct(context.Context, *connect.Request[api.LookupProductRequest]) (*connect.Response[api.LookupProductResponse], error)
	ArchiveProduct(context.Context, *connect.Request[api.ArchiveProductRequest]) (*connect.Response[api.ArchiveProductResponse], error)
	ListProducts(context.Context, *connect.Request[api.ListProductsRequest]) (*connect.Response[api.ListProductsResponse], error)
	DeleteProduct(context.Context, *connect.Request[api.DeleteProductRequest]) (*connect.Response[api.DeleteProductResponse], error)
}

// NewProductServiceHandler returns the mount path and handler for svc.
func NewProductServiceHandler(svc ProductServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + ProductServiceName + "/", route(map[string]*connect.Handler{
		ProductServiceLookupProductProcedure:  connect.NewUnaryHandler(ProductServiceLookupProductProcedure, svc.LookupProduct, opts...),
		ProductServiceArchiveProductProcedure: connect.NewUnaryHandler(ProductServiceArchiveProductProcedure, svc.ArchiveProduct, opts...),
		ProductServiceListProductsProcedure:   connect.NewUnaryHandler(ProductServiceListProductsProcedure, svc.ListProducts, opts...),
		ProductServiceDeleteProductProcedure:  connect.NewUnaryHandler(ProductServiceDeleteProductProcedure, svc.DeleteProduct, opts...),
	})
}

// ProductServiceClient calls ProductService.
type ProductServiceClient struct {
	lookupProduct  *connect.Client[api.LookupProductRequest, api.LookupProductResponse]
	archiveProduct *connect.Client[api.ArchiveProductRequest, api.ArchiveProductResponse]
	listProducts   *connect.Client[api.ListProductsRequest, api.ListProductsResponse]
	deleteProduct  *connect.Client[api.DeleteProductRequest, api.DeleteProductResponse]
}

// NewProductServiceClient builds a client for the server at baseURL.
func NewProductServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *ProductServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &ProductServiceClient{
		lookupProduct:  connect.NewClient[api.LookupProductRequest, api.LookupProductResponse](httpClient, baseURL+ProductServiceLookupProductProcedure, opts...),
		archiveProduct: connect.NewClient[api.ArchiveProductRequest, api.ArchiveProductResponse](httpClient, baseURL+ProductServiceArchiveProductProcedure, opts...),
		listProducts:   connect.NewClient[api.ListProductsRequest, api.ListProductsResponse](httpClient, baseURL+ProductServiceListProductsProcedure, opts...),
		deleteProduct:  connect.NewClient[api.DeleteProductRequest, api.DeleteProductResponse](httpClient, baseURL+ProductServiceDeleteProductProcedure, opts...),
	}
}

func (c *ProductServiceClient) LookupProduct(ctx context.Context, req *connect.Request[api.LookupProductRequest]) (*connect.Response[api.LookupProductResponse], error) {
	return c.lookupProduct.CallUnary(ctx, req)
}

func (c *ProductServiceClient) ArchiveProduct(ctx context.Context, req *connect.Request[api.ArchiveProductRequest]) (*connect.Response[api.ArchiveProductResponse], error) {
	return c.archiveProduct.CallUnary(ctx, req)
}

func (c *ProductServiceClient) ListProducts(ctx context.Context, req *connect.Request[api.ListProductsRequest]) (*connect.Response[api.ListProductsResponse], error) {
	return c.listProducts.CallUnary(ctx, req)
}

func (c *ProductServiceClient) DeleteProduct(ctx context.Context, req *connect.Request[api.DeleteProductRequest]) (*connect.Response[api.DeleteProductResponse], error) {
	return c.deleteProduct.CallUnary(ctx, req)
}
