package api

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitticket/internal/cart"
	"github.com/mmynk/splitticket/internal/models"
)

// VoucherSpec is one partner's voucher terms.
type VoucherSpec struct {
	UnitValue decimal.Decimal `json:"unitValue"`
	MaxUnits  int64           `json:"maxUnits" validate:"gte=0,lte=1000"`
}

// Settings are a household's saved preferences.
type Settings struct {
	PartyA               VoucherSpec `json:"partyA"`
	PartyB               VoucherSpec `json:"partyB"`
	NonVoucherCategories []string    `json:"nonVoucherCategories" validate:"dive,required,max=50"`
}

type OptimizeRequest struct {
	Lines []cart.Line `json:"lines"`
	// PartyA and PartyB override the household's saved voucher terms.
	PartyA *VoucherSpec `json:"partyA,omitempty"`
	PartyB *VoucherSpec `json:"partyB,omitempty"`
	// NonVoucherCategories overrides the saved category list when non-nil.
	NonVoucherCategories []string `json:"nonVoucherCategories,omitempty"`
}

type OptimizeResponse struct {
	Receipt           cart.Receipt `json:"receipt"`
	Algorithm         string       `json:"algorithm"`
	ComputationMillis int64        `json:"computationMillis"`
	Leaves            int64        `json:"leaves"`
}

type SaveExpenseRequest struct {
	Receipt           cart.Receipt `json:"receipt"`
	Algorithm         string       `json:"algorithm" validate:"required,oneof=partition-backtracking greedy"`
	ComputationMillis int64        `json:"computationMillis" validate:"gte=0"`
}

type SaveExpenseResponse struct {
	Expense models.Expense `json:"expense"`
}

type ListExpensesRequest struct{}

type ListExpensesResponse struct {
	Expenses []*models.Expense `json:"expenses"`
}

type ClearHistoryRequest struct{}

type ClearHistoryResponse struct {
	Deleted int64 `json:"deleted"`
}

type ExportHistoryRequest struct {
	Format string `json:"format" validate:"required,oneof=csv json"`
}

type ExportHistoryResponse struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

type GetSettingsRequest struct{}

type GetSettingsResponse struct {
	Settings Settings `json:"settings"`
}

type UpdateSettingsRequest struct {
	Settings Settings `json:"settings"`
}

type UpdateSettingsResponse struct {
	Settings Settings `json:"settings"`
}
