package api

import "github.com/mmynk/splitticket/internal/models"

// Product is the result of a barcode lookup.
type Product struct {
	Barcode  string `json:"barcode"`
	Name     string `json:"name"`
	Brands   string `json:"brands,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
}

type LookupProductRequest struct {
	Barcode string `json:"barcode" validate:"required,numeric,min=8,max=14"`
}

type LookupProductResponse struct {
	Product Product `json:"product"`
}

type ArchiveProductRequest struct {
	Barcode string `json:"barcode" validate:"required,numeric,min=8,max=14"`
}

type ArchiveProductResponse struct {
	Product models.Product `json:"product"`
}

type ListProductsRequest struct{}

type ListProductsResponse struct {
	Products []*models.Product `json:"products"`
}

type DeleteProductRequest struct {
	Barcode string `json:"barcode" validate:"required"`
}

type DeleteProductResponse struct{}
