// ABOUTME: Descriptor instances for Asset, Employee and AssetHistory
// ABOUTME: One generic description per entity drives storage, API, sorting and forms
package models

import "time"

const (
	EntityAsset        = "asset"
	EntityEmployee     = "employee"
	EntityAssetHistory = "assetHistory"
)

var AssetDescriptor = &Descriptor[Asset]{
	Name:   EntityAsset,
	Plural: "assets",
	Title:  "Assets",
	Path:   "/api/assets",
	Table:  "asset",
	Fields: []Field[Asset]{
		idField(func(a *Asset) **int64 { return &a.ID }),
		textField("number", "Number", "number", func(a *Asset) **string { return &a.Number }),
		textField("brand", "Brand", "brand", func(a *Asset) **string { return &a.Brand }),
		textField("model", "Model", "model", func(a *Asset) **string { return &a.Model }),
		textField("serialNumber", "Serial Number", "serial_number", func(a *Asset) **string { return &a.SerialNumber }),
		timeField("purchaseDate", "Purchase Date", "purchase_date", func(a *Asset) **time.Time { return &a.PurchaseDate }),
		timeField("warantDate", "Warant Date", "warant_date", func(a *Asset) **time.Time { return &a.WarantDate }),
		textField("comments", "Comments", "comments", func(a *Asset) **string { return &a.Comments }),
		enumField("status", "Status", "status", Statuses, StatusInUse, func(a *Asset) **Status { return &a.Status }),
		refField("employee", "Employee", "employee_id", EntityEmployee, func(a *Asset) **Employee { return &a.Employee }),
	},
}

var EmployeeDescriptor = &Descriptor[Employee]{
	Name:   EntityEmployee,
	Plural: "employees",
	Title:  "Employees",
	Path:   "/api/employees",
	Table:  "employee",
	Fields: []Field[Employee]{
		idField(func(e *Employee) **int64 { return &e.ID }),
		textField("firstName", "First Name", "first_name", func(e *Employee) **string { return &e.FirstName }),
		textField("lastName", "Last Name", "last_name", func(e *Employee) **string { return &e.LastName }),
		textField("email", "Email", "email", func(e *Employee) **string { return &e.Email }),
		textField("employeeNumber", "Employee Number", "employee_number", func(e *Employee) **string { return &e.EmployeeNumber }),
		textField("phoneNumber", "Phone Number", "phone_number", func(e *Employee) **string { return &e.PhoneNumber }),
		timeField("hireDate", "Hire Date", "hire_date", func(e *Employee) **time.Time { return &e.HireDate }),
		enumField("language", "Language", "language", Languages, LanguageFrench, func(e *Employee) **Language { return &e.Language }),
	},
}

var AssetHistoryDescriptor = &Descriptor[AssetHistory]{
	Name:   EntityAssetHistory,
	Plural: "asset-histories",
	Title:  "Asset Histories",
	Path:   "/api/asset-histories",
	Table:  "asset_history",
	Fields: []Field[AssetHistory]{
		idField(func(h *AssetHistory) **int64 { return &h.ID }),
		timeField("startDate", "Start Date", "start_date", func(h *AssetHistory) **time.Time { return &h.StartDate }),
		timeField("endDate", "End Date", "end_date", func(h *AssetHistory) **time.Time { return &h.EndDate }),
		refField("asset", "Asset", "asset_id", EntityAsset, func(h *AssetHistory) **Asset { return &h.Asset }),
		refField("employee", "Employee", "employee_id", EntityEmployee, func(h *AssetHistory) **Employee { return &h.Employee }),
	},
}

// NewRef returns a record of the named entity type carrying only its id, as
// sent in reference fields.
func NewRef(entity string, id int64) (Entity, bool) {
	switch entity {
	case EntityAsset:
		return Asset{ID: &id}, true
	case EntityEmployee:
		return Employee{ID: &id}, true
	case EntityAssetHistory:
		return AssetHistory{ID: &id}, true
	}
	return nil, false
}
