package dto

import "github.com/skpatro/tallystock/internal/store"

// UpdateOverrideRequest carries user corrections for one stock item.
// Absent fields leave the stored override untouched.
type UpdateOverrideRequest struct {
	BaseUnit  *string  `json:"baseUnit" binding:"omitempty,min=1"`
	PkgFactor *float64 `json:"pkgFactor" binding:"omitempty,gt=0"`
	Group     *string  `json:"group"`
	HSNCode   *string  `json:"hsnCode"`
	GSTRate   *float64 `json:"gstRate" binding:"omitempty,gte=0,lte=100"`
	Notes     *string  `json:"notes"`
}

// ToMasterOverride converts the request into the stored representation.
func (r UpdateOverrideRequest) ToMasterOverride() store.MasterOverride {
	return store.MasterOverride{
		BaseUnit:  r.BaseUnit,
		PkgFactor: r.PkgFactor,
		Group:     r.Group,
		HSNCode:   r.HSNCode,
		GSTRate:   r.GSTRate,
		Notes:     r.Notes,
	}
}

// OverrideResponse pairs an item name with its stored override.
type OverrideResponse struct {
	ItemName string               `json:"itemName"`
	Override store.MasterOverride `json:"override"`
}
