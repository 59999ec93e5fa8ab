// ABOUTME: Asset repository
// ABOUTME: CRUD and listing for assets, loading the assigned employee by join
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/johanaerens/assetmanagement/models"
)

type assetRow struct {
	id           sql.NullInt64
	number       sql.NullString
	brand        sql.NullString
	model        sql.NullString
	serialNumber sql.NullString
	purchaseDate sql.NullString
	warantDate   sql.NullString
	comments     sql.NullString
	status       sql.NullString
	employee     employeeRow
}

func assetColumns(alias, employeeAlias string) string {
	return fmt.Sprintf("%[1]s.id, %[1]s.number, %[1]s.brand, %[1]s.model, %[1]s.serial_number, "+
		"%[1]s.purchase_date, %[1]s.warant_date, %[1]s.comments, %[1]s.status, ", alias) +
		employeeColumns(employeeAlias)
}

func (r *assetRow) dest() []any {
	return append([]any{&r.id, &r.number, &r.brand, &r.model, &r.serialNumber,
		&r.purchaseDate, &r.warantDate, &r.comments, &r.status}, r.employee.dest()...)
}

func (r *assetRow) asset() (*models.Asset, error) {
	if !r.id.Valid {
		return nil, nil
	}
	purchaseDate, err := parseTime(r.purchaseDate)
	if err != nil {
		return nil, err
	}
	warantDate, err := parseTime(r.warantDate)
	if err != nil {
		return nil, err
	}
	employee, err := r.employee.employee()
	if err != nil {
		return nil, err
	}
	a := &models.Asset{
		ID:           nullInt(r.id),
		Number:       nullString(r.number),
		Brand:        nullString(r.brand),
		Model:        nullString(r.model),
		SerialNumber: nullString(r.serialNumber),
		PurchaseDate: purchaseDate,
		WarantDate:   warantDate,
		Comments:     nullString(r.comments),
		Employee:     employee,
	}
	if r.status.Valid {
		a.Status = models.Ptr(models.Status(r.status.String))
	}
	return a, nil
}

const assetFrom = " FROM asset a LEFT JOIN employee e ON e.id = a.employee_id"

// AssetRepository provides CRUD operations for assets.
type AssetRepository struct {
	db *sql.DB
}

func NewAssetRepository(db *sql.DB) *AssetRepository {
	return &AssetRepository{db: db}
}

func (r *AssetRepository) List(ctx context.Context, opts ListOptions) ([]models.Asset, error) {
	order, err := orderBy(models.AssetDescriptor, "a", opts.Sort)
	if err != nil {
		return nil, err
	}

	query := "SELECT " + assetColumns("a", "e") + assetFrom
	if opts.Filter == FilterAssetHistoryIsNull {
		query += " WHERE NOT EXISTS (SELECT 1 FROM asset_history h WHERE h.asset_id = a.id)"
	}
	query += order

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assets := []models.Asset{}
	for rows.Next() {
		var row assetRow
		if err := rows.Scan(row.dest()...); err != nil {
			return nil, err
		}
		a, err := row.asset()
		if err != nil {
			return nil, err
		}
		assets = append(assets, *a)
	}
	return assets, rows.Err()
}

func (r *AssetRepository) Get(ctx context.Context, id int64) (*models.Asset, error) {
	query := "SELECT " + assetColumns("a", "e") + assetFrom + " WHERE a.id = ?"

	var row assetRow
	err := r.db.QueryRowContext(ctx, query, id).Scan(row.dest()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.asset()
}

// Create inserts a and sets its id. Only the employee id is stored.
func (r *AssetRepository) Create(ctx context.Context, a *models.Asset) error {
	query := `
		INSERT INTO asset (number, brand, model, serial_number, purchase_date, warant_date, comments, status, employee_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	res, err := r.db.ExecContext(ctx, query,
		a.Number,
		a.Brand,
		a.Model,
		a.SerialNumber,
		formatTime(a.PurchaseDate),
		formatTime(a.WarantDate),
		a.Comments,
		enumText(a.Status),
		refID(a.Employee),
	)
	if err != nil {
		return mapWriteError(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = &id
	return nil
}

func (r *AssetRepository) Update(ctx context.Context, a *models.Asset) error {
	if a.ID == nil {
		return ErrNotFound
	}

	query := `
		UPDATE asset
		SET number = ?, brand = ?, model = ?, serial_number = ?, purchase_date = ?, warant_date = ?,
		    comments = ?, status = ?, employee_id = ?
		WHERE id = ?
	`

	res, err := r.db.ExecContext(ctx, query,
		a.Number,
		a.Brand,
		a.Model,
		a.SerialNumber,
		formatTime(a.PurchaseDate),
		formatTime(a.WarantDate),
		a.Comments,
		enumText(a.Status),
		refID(a.Employee),
		*a.ID,
	)
	if err != nil {
		return mapWriteError(err)
	}
	return checkAffected(res)
}

func (r *AssetRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM asset WHERE id = ?", id)
	return err
}

func (r *AssetRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM asset WHERE id = ?", id).Scan(&n)
	return n > 0, err
}
