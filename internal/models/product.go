package models

// Product is an archived barcode lookup.
type Product struct {
	UserID   string `json:"userId"`
	Barcode  string `json:"barcode"`
	Name     string `json:"name"`
	Brands   string `json:"brands,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
	// SavedAt is the Unix timestamp of the last save.
	SavedAt int64 `json:"savedAt"`
}
