package domain

import (
	"fmt"
	"strings"
	"time"
)

// PlaceholderOwner is the literal owner value meaning "no real owner".
// Placeholder units created with a project carry it until a unit is sold.
const PlaceholderOwner = "Disponible"

// ProjectStatus is the lifecycle state of a project. All enums in this
// package are stored canonical lowercase; the Parse functions are the only
// normalization path, and comparisons are always enum-to-enum.
type ProjectStatus string

const (
	ProjectActive   ProjectStatus = "active"
	ProjectInactive ProjectStatus = "inactive"
	ProjectArchived ProjectStatus = "archived"
)

// ParseProjectStatus normalizes a status string to its canonical form.
func ParseProjectStatus(s string) (ProjectStatus, error) {
	switch ProjectStatus(strings.ToLower(strings.TrimSpace(s))) {
	case ProjectActive:
		return ProjectActive, nil
	case ProjectInactive:
		return ProjectInactive, nil
	case ProjectArchived:
		return ProjectArchived, nil
	default:
		return "", fmt.Errorf("unknown project status %q", s)
	}
}

// CondoType classifies a unit.
type CondoType string

const (
	TypeResidential CondoType = "residential"
	TypeCommercial  CondoType = "commercial"
	TypeParking     CondoType = "parking"
	TypeStorage     CondoType = "storage"
)

// ParseCondoType normalizes a condo type string to its canonical form.
func ParseCondoType(s string) (CondoType, error) {
	switch CondoType(strings.ToLower(strings.TrimSpace(s))) {
	case TypeResidential:
		return TypeResidential, nil
	case TypeCommercial:
		return TypeCommercial, nil
	case TypeParking:
		return TypeParking, nil
	case TypeStorage:
		return TypeStorage, nil
	default:
		return "", fmt.Errorf("unknown condo type %q", s)
	}
}

// UnitStatus is the sales state of a unit.
type UnitStatus string

const (
	UnitAvailable   UnitStatus = "available"
	UnitReserved    UnitStatus = "reserved"
	UnitSold        UnitStatus = "sold"
	UnitMaintenance UnitStatus = "maintenance"
)

// ParseUnitStatus normalizes a unit status string to its canonical form.
func ParseUnitStatus(s string) (UnitStatus, error) {
	switch UnitStatus(strings.ToLower(strings.TrimSpace(s))) {
	case UnitAvailable:
		return UnitAvailable, nil
	case UnitReserved:
		return UnitReserved, nil
	case UnitSold:
		return UnitSold, nil
	case UnitMaintenance:
		return UnitMaintenance, nil
	default:
		return "", fmt.Errorf("unknown unit status %q", s)
	}
}

// Project is a building or development grouping units. A project and its
// units form one consistency boundary: unit_count equals the number of unit
// rows at every commit.
type Project struct {
	ID               int64         `json:"-" db:"id"`
	ProjectID        string        `json:"project_id" db:"project_id"`
	Name             string        `json:"name" db:"name"`
	Address          string        `json:"address" db:"address"`
	BuildingArea     float64       `json:"building_area" db:"building_area"`
	LandArea         float64       `json:"land_area" db:"land_area"`
	ConstructionYear int           `json:"construction_year" db:"construction_year"`
	UnitCount        int           `json:"unit_count" db:"unit_count"`
	Constructor      string        `json:"constructor" db:"constructor"`
	CreationDate     string        `json:"creation_date" db:"creation_date"`
	Status           ProjectStatus `json:"status" db:"status"`
	CreatedAt        time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at" db:"updated_at"`
	Units            []*Unit       `json:"units" db:"-"`
}

// Unit is a sellable or leasable space inside a project. Its surrogate id
// is assigned at insert and stable across updates.
type Unit struct {
	ID                    int64      `json:"id" db:"id"`
	UnitNumber            string     `json:"unit_number" db:"unit_number"`
	ProjectID             string     `json:"project_id" db:"project_id"`
	Area                  float64    `json:"area" db:"area"`
	CondoType             CondoType  `json:"condo_type" db:"condo_type"`
	Status                UnitStatus `json:"status" db:"status"`
	EstimatedPrice        *float64   `json:"estimated_price,omitempty" db:"estimated_price"`
	OwnerName             string     `json:"owner_name" db:"owner_name"`
	CalculatedMonthlyFees string     `json:"calculated_monthly_fees" db:"calculated_monthly_fees"`
}

// IsRemovablePlaceholder reports whether the unit can be dropped by a
// unit-count reduction: still available and never assigned a real owner.
func (u *Unit) IsRemovablePlaceholder() bool {
	return u.Status == UnitAvailable && u.OwnerName == PlaceholderOwner
}

// UnitPatch carries a partial unit update; nil fields are left unchanged.
// Enum fields are raw strings normalized at repository ingress.
type UnitPatch struct {
	UnitNumber            *string  `json:"unit_number"`
	Area                  *float64 `json:"area"`
	CondoType             *string  `json:"condo_type"`
	Status                *string  `json:"status"`
	EstimatedPrice        *float64 `json:"estimated_price"`
	OwnerName             *string  `json:"owner_name"`
	CalculatedMonthlyFees *string  `json:"calculated_monthly_fees"`
}

// IsEmpty reports whether the patch changes nothing.
func (p *UnitPatch) IsEmpty() bool {
	return p.UnitNumber == nil && p.Area == nil && p.CondoType == nil &&
		p.Status == nil && p.EstimatedPrice == nil && p.OwnerName == nil &&
		p.CalculatedMonthlyFees == nil
}

// CountAvailable returns the number of units whose status is available.
// Comparison is enum against enum; string literals against normalized enums
// are how the old availability counter broke.
func CountAvailable(units []*Unit) int {
	count := 0
	for _, u := range units {
		if u.Status == UnitAvailable {
			count++
		}
	}
	return count
}
