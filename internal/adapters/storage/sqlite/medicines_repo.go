package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"medicine-reminder/internal/domain/medicines"
)

type MedicinesRepo struct {
	db *sql.DB
}

func NewMedicinesRepo(db *sql.DB) *MedicinesRepo {
	return &MedicinesRepo{db: db}
}

const medicineColumns = `
	id, owner_user_id,
	name, dosage, schedule_times,
	expiry_date, barcode,
	description, used_for, precautions,
	reminder_enabled,
	created_at, updated_at
`

func (r *MedicinesRepo) Create(ctx context.Context, m medicines.Medicine) error {
	times, err := encodeTimes(m.ScheduleTimes)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO medicines (`+medicineColumns+`)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)
	`,
		m.ID,
		m.OwnerUserID,
		m.Name,
		m.Dosage,
		times,
		toNullDate(m.ExpiryDate),
		m.Barcode,
		m.Description,
		m.UsedFor,
		m.Precautions,
		m.ReminderEnabled,
		formatTS(m.CreatedAt),
		formatTS(m.UpdatedAt),
	)
	return err
}

func (r *MedicinesRepo) Update(ctx context.Context, m medicines.Medicine) error {
	times, err := encodeTimes(m.ScheduleTimes)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE medicines
		SET
			name = ?,
			dosage = ?,
			schedule_times = ?,
			expiry_date = ?,
			barcode = ?,
			description = ?,
			used_for = ?,
			precautions = ?,
			reminder_enabled = ?,
			updated_at = ?
		WHERE id = ?
	`,
		m.Name,
		m.Dosage,
		times,
		toNullDate(m.ExpiryDate),
		m.Barcode,
		m.Description,
		m.UsedFor,
		m.Precautions,
		m.ReminderEnabled,
		formatTS(m.UpdatedAt),
		m.ID,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return medicines.ErrNotFound
	}
	return nil
}

func (r *MedicinesRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM medicines WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return medicines.ErrNotFound
	}
	return nil
}

func (r *MedicinesRepo) GetByID(ctx context.Context, id string) (medicines.Medicine, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return medicines.Medicine{}, medicines.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+medicineColumns+` FROM medicines WHERE id = ?`, id)
	m, err := scanMedicine(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return medicines.Medicine{}, medicines.ErrNotFound
		}
		return medicines.Medicine{}, err
	}
	return m, nil
}

func (r *MedicinesRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]medicines.Medicine, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+medicineColumns+`
		FROM medicines
		WHERE owner_user_id = ?
		ORDER BY created_at DESC, id DESC
	`, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]medicines.Medicine, 0)
	for rows.Next() {
		m, err := scanMedicine(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMedicine(s rowScanner) (medicines.Medicine, error) {
	var (
		m                medicines.Medicine
		times            string
		exp              sql.NullString
		created, updated string
	)
	if err := s.Scan(
		&m.ID,
		&m.OwnerUserID,
		&m.Name,
		&m.Dosage,
		&times,
		&exp,
		&m.Barcode,
		&m.Description,
		&m.UsedFor,
		&m.Precautions,
		&m.ReminderEnabled,
		&created,
		&updated,
	); err != nil {
		return medicines.Medicine{}, err
	}

	var err error
	if m.ScheduleTimes, err = decodeTimes(times); err != nil {
		return medicines.Medicine{}, err
	}
	if m.ExpiryDate, err = parseNullDate(exp); err != nil {
		return medicines.Medicine{}, err
	}
	if m.CreatedAt, err = parseTS(created); err != nil {
		return medicines.Medicine{}, err
	}
	if m.UpdatedAt, err = parseTS(updated); err != nil {
		return medicines.Medicine{}, err
	}
	return m, nil
}

func encodeTimes(times []string) (string, error) {
	if times == nil {
		times = []string{}
	}
	b, err := json.Marshal(times)
	if err != nil {
		return "", fmt.Errorf("encode schedule_times: %w", err)
	}
	return string(b), nil
}

func decodeTimes(raw string) ([]string, error) {
	out := []string{}
	if strings.TrimSpace(raw) == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("decode schedule_times: %w", err)
	}
	return out, nil
}
