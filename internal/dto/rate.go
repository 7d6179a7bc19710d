package dto

import "github.com/skpatro/tallystock/internal/store"

// UpdateRateRequest carries user-corrected prices for one item. Absent
// fields leave the stored rate untouched; zero is a valid rate.
type UpdateRateRequest struct {
	PkgRate  *float64 `json:"pkgRate" binding:"omitempty,gte=0"`
	UnitRate *float64 `json:"unitRate" binding:"omitempty,gte=0"`
}

// ToRateOverride converts the request into the stored representation.
func (r UpdateRateRequest) ToRateOverride() store.RateOverride {
	return store.RateOverride{
		PkgRate:  r.PkgRate,
		UnitRate: r.UnitRate,
	}
}

// RateOverrideResponse pairs an item name with its stored rates and any
// advisory warnings from the save.
type RateOverrideResponse struct {
	ItemName string             `json:"itemName"`
	Override store.RateOverride `json:"override"`
	Warnings []string           `json:"warnings,omitempty"`
}

// RateChangesQuery bounds the rate audit log listing.
type RateChangesQuery struct {
	Limit int `form:"limit" binding:"omitempty,gte=1,lte=1000"`
}
