package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"kulutus/internal/core"
)

const propertyColumns = `property_id, name, address, build_year, material,
	floor_area, volume, lot_area, owner_name, owner_phone, owner_email, note`

// CreateProperty inserts a new property row. A duplicate cadastral key is
// reported as core.ErrConflict.
func (r *Repository) CreateProperty(ctx context.Context, p core.Property) (core.Property, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO properties (`+propertyColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, nullable(p.Name), p.Address, nullableInt(p.BuildYear), nullable(p.Material),
		nullableFloat(p.FloorArea), nullableFloat(p.Volume), nullableFloat(p.LotArea),
		p.OwnerName, nullable(p.OwnerPhone), nullable(p.OwnerEmail), nullable(p.Note))
	if err != nil {
		if isUniqueViolation(err) {
			return core.Property{}, core.Conflictf("property %s already exists", p.ID)
		}
		return core.Property{}, fmt.Errorf("insert property: %w", err)
	}
	return r.GetProperty(ctx, p.ID)
}

// UpdateProperty replaces all mutable fields of the property stored under
// key. The payload may carry a different cadastral key, in which case the
// row is re-keyed; re-keying a property that readings still reference is
// rejected by the foreign key and reported as core.ErrConflict.
func (r *Repository) UpdateProperty(ctx context.Context, key string, p core.Property) (core.Property, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE properties
		SET property_id = ?, name = ?, address = ?, build_year = ?, material = ?,
		    floor_area = ?, volume = ?, lot_area = ?, owner_name = ?,
		    owner_phone = ?, owner_email = ?, note = ?
		WHERE property_id = ?`,
		p.ID, nullable(p.Name), p.Address, nullableInt(p.BuildYear), nullable(p.Material),
		nullableFloat(p.FloorArea), nullableFloat(p.Volume), nullableFloat(p.LotArea),
		p.OwnerName, nullable(p.OwnerPhone), nullable(p.OwnerEmail), nullable(p.Note),
		key)
	if err != nil {
		if isUniqueViolation(err) {
			return core.Property{}, core.Conflictf("property %s already exists", p.ID)
		}
		if isForeignKeyViolation(err) {
			return core.Property{}, core.Conflictf("property %s has readings and cannot be re-keyed", key)
		}
		return core.Property{}, fmt.Errorf("update property: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return core.Property{}, fmt.Errorf("update property rows affected: %w", err)
	}
	if n == 0 {
		return core.Property{}, core.NotFoundf("property %s not found", key)
	}
	return r.GetProperty(ctx, p.ID)
}

// DeleteProperty removes the property stored under key. Deleting a
// property that readings still reference is rejected: orphaned readings
// are never allowed.
func (r *Repository) DeleteProperty(ctx context.Context, key string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM properties WHERE property_id = ?`, key)
	if err != nil {
		if isForeignKeyViolation(err) {
			return core.Conflictf("property %s still has readings", key)
		}
		return fmt.Errorf("delete property: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete property rows affected: %w", err)
	}
	if n == 0 {
		return core.NotFoundf("property %s not found", key)
	}
	return nil
}

// GetProperty fetches a single property by its cadastral key.
func (r *Repository) GetProperty(ctx context.Context, key string) (core.Property, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+propertyColumns+` FROM properties WHERE property_id = ?`, key)
	p, err := scanProperty(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Property{}, core.NotFoundf("property %s not found", key)
	}
	if err != nil {
		return core.Property{}, fmt.Errorf("get property: %w", err)
	}
	return p, nil
}

// ListProperties returns every registered property ordered by key.
func (r *Repository) ListProperties(ctx context.Context) ([]core.Property, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+propertyColumns+` FROM properties ORDER BY property_id`)
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	defer rows.Close()

	var out []core.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("scan property: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate properties: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProperty(s rowScanner) (core.Property, error) {
	var p core.Property
	var name, material, ownerPhone, ownerEmail, note sql.NullString
	var buildYear sql.NullInt64
	var floorArea, volume, lotArea sql.NullFloat64
	err := s.Scan(&p.ID, &name, &p.Address, &buildYear, &material,
		&floorArea, &volume, &lotArea, &p.OwnerName, &ownerPhone, &ownerEmail, &note)
	if err != nil {
		return core.Property{}, err
	}
	p.Name = name.String
	p.BuildYear = int(buildYear.Int64)
	p.Material = material.String
	p.FloorArea = floorArea.Float64
	p.Volume = volume.Float64
	p.LotArea = lotArea.Float64
	p.OwnerPhone = ownerPhone.String
	p.OwnerEmail = ownerEmail.String
	p.Note = note.String
	return p, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableInt(n int) any {
	if n == 0 {
		return nil
	}
	return n
}

func nullableFloat(f float64) any {
	if f == 0 {
		return nil
	}
	return f
}
