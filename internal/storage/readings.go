package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"kulutus/internal/core"
)

// One raw-reading table per utility; all three share the same shape, so
// the CRUD below is parameterized by table name.
var readingTables = map[core.Utility]string{
	core.Heat:        "heat_readings",
	core.Electricity: "electricity_readings",
	core.Water:       "water_readings",
}

const dateLayout = "2006-01-02"

func readingTable(u core.Utility) (string, error) {
	t, ok := readingTables[u]
	if !ok {
		return "", core.Validationf("unknown utility %q", string(u))
	}
	return t, nil
}

// InsertReading stores a raw reading and returns the stored row with its
// assigned id. The month number is derived here, in code, from the
// Finnish month name; rows never reach the table with an unknown month.
// Referencing a property that does not exist fails the foreign key and
// is reported as core.ErrValidation.
func (r *Repository) InsertReading(ctx context.Context, u core.Utility, rd core.Reading) (core.Reading, error) {
	table, err := readingTable(u)
	if err != nil {
		return core.Reading{}, err
	}
	num, ok := core.MonthNumber(rd.Month)
	if !ok {
		return core.Reading{}, core.Validationf("unknown month name %q", rd.Month)
	}
	rd.MonthNum = num

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO `+table+` (property_id, year, month, month_num, reading_date, value, flow, note)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rd.PropertyID, rd.Year, rd.Month, rd.MonthNum,
		rd.Date.Format(dateLayout), rd.Value, rd.Flow, nullable(rd.Note))
	if err != nil {
		if isForeignKeyViolation(err) {
			return core.Reading{}, core.Validationf("unknown property %s", rd.PropertyID)
		}
		return core.Reading{}, fmt.Errorf("insert %s reading: %w", u, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Reading{}, fmt.Errorf("insert %s reading id: %w", u, err)
	}
	return r.GetReading(ctx, u, id)
}

// UpdateReading replaces all mutable fields of the reading with the given
// id. The month number is re-derived from the payload's month name.
func (r *Repository) UpdateReading(ctx context.Context, u core.Utility, id int64, rd core.Reading) (core.Reading, error) {
	table, err := readingTable(u)
	if err != nil {
		return core.Reading{}, err
	}
	num, ok := core.MonthNumber(rd.Month)
	if !ok {
		return core.Reading{}, core.Validationf("unknown month name %q", rd.Month)
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE `+table+`
		SET property_id = ?, year = ?, month = ?, month_num = ?,
		    reading_date = ?, value = ?, flow = ?, note = ?
		WHERE id = ?`,
		rd.PropertyID, rd.Year, rd.Month, num,
		rd.Date.Format(dateLayout), rd.Value, rd.Flow, nullable(rd.Note), id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return core.Reading{}, core.Validationf("unknown property %s", rd.PropertyID)
		}
		return core.Reading{}, fmt.Errorf("update %s reading: %w", u, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return core.Reading{}, fmt.Errorf("update %s reading rows affected: %w", u, err)
	}
	if n == 0 {
		return core.Reading{}, core.NotFoundf("%s reading %d not found", u, id)
	}
	return r.GetReading(ctx, u, id)
}

// DeleteReading removes the reading with the given id.
func (r *Repository) DeleteReading(ctx context.Context, u core.Utility, id int64) error {
	table, err := readingTable(u)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete %s reading: %w", u, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s reading rows affected: %w", u, err)
	}
	if n == 0 {
		return core.NotFoundf("%s reading %d not found", u, id)
	}
	return nil
}

// GetReading fetches a single raw reading by id.
func (r *Repository) GetReading(ctx context.Context, u core.Utility, id int64) (core.Reading, error) {
	table, err := readingTable(u)
	if err != nil {
		return core.Reading{}, err
	}
	row := r.db.QueryRowContext(ctx, `
		SELECT id, property_id, year, month, month_num, reading_date, value, flow, note
		FROM `+table+` WHERE id = ?`, id)
	rd, err := scanReading(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Reading{}, core.NotFoundf("%s reading %d not found", u, id)
	}
	if err != nil {
		return core.Reading{}, fmt.Errorf("get %s reading: %w", u, err)
	}
	return rd, nil
}

// ListReadings returns every raw reading of the utility. No ordering is
// promised; the consumption deriver imposes its own.
func (r *Repository) ListReadings(ctx context.Context, u core.Utility) ([]core.Reading, error) {
	table, err := readingTable(u)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, property_id, year, month, month_num, reading_date, value, flow, note
		FROM `+table)
	if err != nil {
		return nil, fmt.Errorf("list %s readings: %w", u, err)
	}
	defer rows.Close()

	var out []core.Reading
	for rows.Next() {
		rd, err := scanReading(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s reading: %w", u, err)
		}
		out = append(out, rd)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s readings: %w", u, err)
	}
	return out, nil
}

func scanReading(s rowScanner) (core.Reading, error) {
	var rd core.Reading
	var date string
	var note sql.NullString
	err := s.Scan(&rd.ID, &rd.PropertyID, &rd.Year, &rd.Month, &rd.MonthNum,
		&date, &rd.Value, &rd.Flow, &note)
	if err != nil {
		return core.Reading{}, err
	}
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return core.Reading{}, fmt.Errorf("parse reading date %q: %w", date, err)
	}
	rd.Date = t
	rd.Note = note.String
	return rd, nil
}
