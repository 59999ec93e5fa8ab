// ABOUTME: AssetHistory repository
// ABOUTME: Assignment periods linking assets to employees, with nested records loaded by join
package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/johanaerens/assetmanagement/models"
)

type assetHistoryRow struct {
	id        sql.NullInt64
	startDate sql.NullString
	endDate   sql.NullString
	asset     assetRow
	employee  employeeRow
}

func (r *assetHistoryRow) dest() []any {
	d := []any{&r.id, &r.startDate, &r.endDate}
	d = append(d, r.asset.dest()...)
	return append(d, r.employee.dest()...)
}

func (r *assetHistoryRow) history() (*models.AssetHistory, error) {
	start, err := parseTime(r.startDate)
	if err != nil {
		return nil, err
	}
	end, err := parseTime(r.endDate)
	if err != nil {
		return nil, err
	}
	asset, err := r.asset.asset()
	if err != nil {
		return nil, err
	}
	employee, err := r.employee.employee()
	if err != nil {
		return nil, err
	}
	return &models.AssetHistory{
		ID:        nullInt(r.id),
		StartDate: start,
		EndDate:   end,
		Asset:     asset,
		Employee:  employee,
	}, nil
}

const assetHistorySelect = "SELECT h.id, h.start_date, h.end_date, " +
	"a.id, a.number, a.brand, a.model, a.serial_number, a.purchase_date, a.warant_date, a.comments, a.status, " +
	"ae.id, ae.first_name, ae.last_name, ae.email, ae.employee_number, ae.phone_number, ae.hire_date, ae.language, " +
	"e.id, e.first_name, e.last_name, e.email, e.employee_number, e.phone_number, e.hire_date, e.language" +
	" FROM asset_history h" +
	" LEFT JOIN asset a ON a.id = h.asset_id" +
	" LEFT JOIN employee ae ON ae.id = a.employee_id" +
	" LEFT JOIN employee e ON e.id = h.employee_id"

// AssetHistoryRepository provides CRUD operations for asset histories.
type AssetHistoryRepository struct {
	db *sql.DB
}

func NewAssetHistoryRepository(db *sql.DB) *AssetHistoryRepository {
	return &AssetHistoryRepository{db: db}
}

func (r *AssetHistoryRepository) List(ctx context.Context, opts ListOptions) ([]models.AssetHistory, error) {
	order, err := orderBy(models.AssetHistoryDescriptor, "h", opts.Sort)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, assetHistorySelect+order)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	histories := []models.AssetHistory{}
	for rows.Next() {
		var row assetHistoryRow
		if err := rows.Scan(row.dest()...); err != nil {
			return nil, err
		}
		h, err := row.history()
		if err != nil {
			return nil, err
		}
		histories = append(histories, *h)
	}
	return histories, rows.Err()
}

func (r *AssetHistoryRepository) Get(ctx context.Context, id int64) (*models.AssetHistory, error) {
	var row assetHistoryRow
	err := r.db.QueryRowContext(ctx, assetHistorySelect+" WHERE h.id = ?", id).Scan(row.dest()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.history()
}

func (r *AssetHistoryRepository) Create(ctx context.Context, h *models.AssetHistory) error {
	query := `
		INSERT INTO asset_history (start_date, end_date, asset_id, employee_id)
		VALUES (?, ?, ?, ?)
	`

	res, err := r.db.ExecContext(ctx, query,
		formatTime(h.StartDate),
		formatTime(h.EndDate),
		refID(h.Asset),
		refID(h.Employee),
	)
	if err != nil {
		return mapWriteError(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	h.ID = &id
	return nil
}

func (r *AssetHistoryRepository) Update(ctx context.Context, h *models.AssetHistory) error {
	if h.ID == nil {
		return ErrNotFound
	}

	query := `
		UPDATE asset_history
		SET start_date = ?, end_date = ?, asset_id = ?, employee_id = ?
		WHERE id = ?
	`

	res, err := r.db.ExecContext(ctx, query,
		formatTime(h.StartDate),
		formatTime(h.EndDate),
		refID(h.Asset),
		refID(h.Employee),
		*h.ID,
	)
	if err != nil {
		return mapWriteError(err)
	}
	return checkAffected(res)
}

func (r *AssetHistoryRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM asset_history WHERE id = ?", id)
	return err
}

func (r *AssetHistoryRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM asset_history WHERE id = ?", id).Scan(&n)
	return n > 0, err
}
