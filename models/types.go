// ABOUTME: Data models for asset management entities
// ABOUTME: Defines Asset, Employee, AssetHistory and their enumerations
package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Entity is implemented by every record the API serves. The id is assigned
// by the server and is nil until the record has been persisted.
type Entity interface {
	EntityID() *int64
	Label() string
}

type Status string

const (
	StatusInUse      Status = "IN_USE"
	StatusSold       Status = "SOLD"
	StatusNotWorking Status = "NOT_WORKING"
	StatusNew        Status = "NEW"
)

var Statuses = []Status{StatusInUse, StatusSold, StatusNotWorking, StatusNew}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

type Language string

const (
	LanguageFrench  Language = "FRENCH"
	LanguageDutch   Language = "DUTCH"
	LanguageEnglish Language = "ENGLISH"
)

var Languages = []Language{LanguageFrench, LanguageDutch, LanguageEnglish}

func (l Language) Valid() bool {
	for _, v := range Languages {
		if v == l {
			return true
		}
	}
	return false
}

type Asset struct {
	ID           *int64     `json:"id,omitempty"`
	Number       *string    `json:"number,omitempty" validate:"omitempty,max=255"`
	Brand        *string    `json:"brand,omitempty" validate:"omitempty,max=255"`
	Model        *string    `json:"model,omitempty" validate:"omitempty,max=255"`
	SerialNumber *string    `json:"serialNumber,omitempty" validate:"omitempty,max=255"`
	PurchaseDate *time.Time `json:"purchaseDate,omitempty"`
	WarantDate   *time.Time `json:"warantDate,omitempty"`
	Comments     *string    `json:"comments,omitempty" validate:"omitempty,max=255"`
	Status       *Status    `json:"status,omitempty" validate:"omitempty,oneof=IN_USE SOLD NOT_WORKING NEW"`
	Employee     *Employee  `json:"employee,omitempty"`
}

func (a Asset) EntityID() *int64 { return a.ID }

// Label is the short human name used in pickers and graphs.
func (a Asset) Label() string {
	var parts []string
	if a.Number != nil && *a.Number != "" {
		parts = append(parts, *a.Number)
	}
	if a.Brand != nil && *a.Brand != "" {
		parts = append(parts, *a.Brand)
	}
	if a.Model != nil && *a.Model != "" {
		parts = append(parts, *a.Model)
	}
	if len(parts) == 0 {
		return idLabel("asset", a.ID)
	}
	return strings.Join(parts, " ")
}

type Employee struct {
	ID             *int64     `json:"id,omitempty"`
	FirstName      *string    `json:"firstName,omitempty" validate:"omitempty,max=255"`
	LastName       *string    `json:"lastName,omitempty" validate:"omitempty,max=255"`
	Email          *string    `json:"email,omitempty" validate:"omitempty,max=255"`
	EmployeeNumber *string    `json:"employeeNumber,omitempty" validate:"omitempty,max=255"`
	PhoneNumber    *string    `json:"phoneNumber,omitempty" validate:"omitempty,max=255"`
	HireDate       *time.Time `json:"hireDate,omitempty"`
	Language       *Language  `json:"language,omitempty" validate:"omitempty,oneof=FRENCH DUTCH ENGLISH"`
}

func (e Employee) EntityID() *int64 { return e.ID }

func (e Employee) Label() string {
	var parts []string
	if e.FirstName != nil && *e.FirstName != "" {
		parts = append(parts, *e.FirstName)
	}
	if e.LastName != nil && *e.LastName != "" {
		parts = append(parts, *e.LastName)
	}
	if len(parts) == 0 {
		return idLabel("employee", e.ID)
	}
	return strings.Join(parts, " ")
}

type AssetHistory struct {
	ID        *int64     `json:"id,omitempty"`
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	Asset     *Asset     `json:"asset,omitempty"`
	Employee  *Employee  `json:"employee,omitempty"`
}

func (h AssetHistory) EntityID() *int64 { return h.ID }

func (h AssetHistory) Label() string {
	return idLabel("history", h.ID)
}

func idLabel(prefix string, id *int64) string {
	if id == nil {
		return fmt.Sprintf("new %s", prefix)
	}
	return prefix + " #" + strconv.FormatInt(*id, 10)
}

// Ptr returns a pointer to v. Handy for the many optional fields above.
func Ptr[T any](v T) *T {
	return &v
}
