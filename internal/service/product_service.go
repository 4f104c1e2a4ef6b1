package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitticket/internal/metrics"
	"github.com/mmynk/splitticket/internal/models"
	"github.com/mmynk/splitticket/internal/productlookup"
	"github.com/mmynk/splitticket/internal/storage"
	"github.com/mmynk/splitticket/pkg/api"
	"github.com/mmynk/splitticket/pkg/api/apiconnect"
)

// ProductLookup resolves a barcode to a catalogue entry.
type ProductLookup interface {
	Lookup(ctx context.Context, barcode string) (*productlookup.Product, error)
}

// ProductService implements barcode lookup and the household product archive.
type ProductService struct {
	store   storage.Store
	lookup  ProductLookup
	metrics *metrics.Metrics
}

var _ apiconnect.ProductServiceHandler = (*ProductService)(nil)

func NewProductService(store storage.Store, lookup ProductLookup, m *metrics.Metrics) *ProductService {
	return &ProductService{store: store, lookup: lookup, metrics: m}
}

// LookupProduct queries the catalogue. It does not require an account.
func (s *ProductService) LookupProduct(ctx context.Context, req *connect.Request[api.LookupProductRequest]) (*connect.Response[api.LookupProductResponse], error) {
	if err := validateMsg(req.Msg); err != nil {
		return nil, err
	}

	p, err := s.find(ctx, req.Msg.Barcode)
	if err != nil {
		return nil, err
	}

	return connect.NewResponse(&api.LookupProductResponse{Product: api.Product{
		Barcode:  p.Barcode,
		Name:     p.Name,
		Brands:   p.Brands,
		ImageURL: p.ImageURL,
	}}), nil
}

// ArchiveProduct looks up a barcode and saves it to the caller's archive.
func (s *ProductService) ArchiveProduct(ctx context.Context, req *connect.Request[api.ArchiveProductRequest]) (*connect.Response[api.ArchiveProductResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateMsg(req.Msg); err != nil {
		return nil, err
	}

	p, err := s.find(ctx, req.Msg.Barcode)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		UserID:   userID,
		Barcode:  p.Barcode,
		Name:     p.Name,
		Brands:   p.Brands,
		ImageURL: p.ImageURL,
	}
	if err := s.store.SaveProduct(ctx, product); err != nil {
		slog.Error("ArchiveProduct failed", "user_id", userID, "barcode", p.Barcode, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	return connect.NewResponse(&api.ArchiveProductResponse{Product: *product}), nil
}

// ListProducts returns the caller's archive ordered by name.
func (s *ProductService) ListProducts(ctx context.Context, req *connect.Request[api.ListProductsRequest]) (*connect.Response[api.ListProductsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	products, err := s.store.ListProducts(ctx, userID)
	if err != nil {
		slog.Error("ListProducts failed", "user_id", userID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	if products == nil {
		products = []*models.Product{}
	}

	return connect.NewResponse(&api.ListProductsResponse{Products: products}), nil
}

// DeleteProduct removes a barcode from the caller's archive.
func (s *ProductService) DeleteProduct(ctx context.Context, req *connect.Request[api.DeleteProductRequest]) (*connect.Response[api.DeleteProductResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateMsg(req.Msg); err != nil {
		return nil, err
	}

	err = s.store.DeleteProduct(ctx, userID, req.Msg.Barcode)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, connect.NewError(connect.CodeNotFound, err)
	}
	if err != nil {
		slog.Error("DeleteProduct failed", "user_id", userID, "barcode", req.Msg.Barcode, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	return connect.NewResponse(&api.DeleteProductResponse{}), nil
}

func (s *ProductService) find(ctx context.Context, barcode string) (*productlookup.Product, error) {
	p, err := s.lookup.Lookup(ctx, barcode)
	switch {
	case err == nil:
		s.metrics.ObserveLookup("found")
		return p, nil
	case errors.Is(err, productlookup.ErrProductNotFound):
		s.metrics.ObserveLookup("not_found")
		return nil, connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, productlookup.ErrInvalidBarcode):
		s.metrics.ObserveLookup("invalid")
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	default:
		s.metrics.ObserveLookup("error")
		slog.Warn("Product lookup failed", "barcode", barcode, "error", err)
		return nil, connect.NewError(connect.CodeUnavailable, err)
	}
}
