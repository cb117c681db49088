package medicines

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("medicine not found")
)

const (
	MsgNameRequired   = "Medicine name is required"
	MsgDosageRequired = "Dosage is required"
)

// ValidationError lleva mensajes por campo; nunca llega al record store.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NullableText distingue "no enviado" de "null" en un PATCH.
type NullableText struct {
	Present bool
	Value   *string
}

// NullableDate idem para expiry_date.
type NullableDate struct {
	Present bool
	Value   *time.Time
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Name          string
	Dosage        string
	ScheduleTimes []string
	ExpiryDate    *time.Time
	Barcode       string
	Description   string
	UsedFor       string
	Precautions   string

	// nil => true (default del formulario)
	ReminderEnabled *bool
}

type UpdateInput struct {
	// Punteros para PATCH real: nil = no tocar.
	Name            *string
	Dosage          *string
	ScheduleTimes   *[]string
	ReminderEnabled *bool

	ExpiryDate  NullableDate
	Barcode     NullableText
	Description NullableText
	UsedFor     NullableText
	Precautions NullableText
}

func (s *Service) Create(ctx context.Context, ownerUserID string, in CreateInput) (Medicine, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return Medicine{}, ErrInvalidInput
	}

	enabled := true
	if in.ReminderEnabled != nil {
		enabled = *in.ReminderEnabled
	}

	now := s.now()
	m := Medicine{
		ID:              uuid.NewString(),
		OwnerUserID:     ownerUserID,
		Name:            strings.TrimSpace(in.Name),
		Dosage:          strings.TrimSpace(in.Dosage),
		ScheduleTimes:   in.ScheduleTimes,
		ExpiryDate:      dateOnly(in.ExpiryDate),
		Barcode:         strings.TrimSpace(in.Barcode),
		Description:     strings.TrimSpace(in.Description),
		UsedFor:         strings.TrimSpace(in.UsedFor),
		Precautions:     strings.TrimSpace(in.Precautions),
		ReminderEnabled: enabled,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := validate(&m); err != nil {
		return Medicine{}, err
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return Medicine{}, fmt.Errorf("create medicine: %w", err)
	}
	return m, nil
}

// Update aplica un PATCH. Un registro de otro usuario se reporta como ErrNotFound.
func (s *Service) Update(ctx context.Context, id, ownerUserID string, in UpdateInput) (Medicine, error) {
	current, err := s.GetForOwner(ctx, id, ownerUserID)
	if err != nil {
		return Medicine{}, err
	}

	m := current.Clone()
	if in.Name != nil {
		m.Name = strings.TrimSpace(*in.Name)
	}
	if in.Dosage != nil {
		m.Dosage = strings.TrimSpace(*in.Dosage)
	}
	if in.ScheduleTimes != nil {
		m.ScheduleTimes = *in.ScheduleTimes
	}
	if in.ReminderEnabled != nil {
		m.ReminderEnabled = *in.ReminderEnabled
	}
	if in.ExpiryDate.Present {
		m.ExpiryDate = dateOnly(in.ExpiryDate.Value)
	}
	applyText(&m.Barcode, in.Barcode)
	applyText(&m.Description, in.Description)
	applyText(&m.UsedFor, in.UsedFor)
	applyText(&m.Precautions, in.Precautions)

	if err := validate(&m); err != nil {
		return Medicine{}, err
	}

	m.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, m); err != nil {
		return Medicine{}, fmt.Errorf("update medicine: %w", err)
	}
	return m, nil
}

// Delete es terminal (no hay soft-delete).
func (s *Service) Delete(ctx context.Context, id, ownerUserID string) error {
	if _, err := s.GetForOwner(ctx, id, ownerUserID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete medicine: %w", err)
	}
	return nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Medicine, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Medicine{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// GetForOwner aplica ownership a nivel de fila.
func (s *Service) GetForOwner(ctx context.Context, id, ownerUserID string) (Medicine, error) {
	m, err := s.GetByID(ctx, id)
	if err != nil {
		return Medicine{}, err
	}
	if m.OwnerUserID != ownerUserID {
		return Medicine{}, ErrNotFound
	}
	return m, nil
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]Medicine, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByOwner(ctx, ownerUserID)
}

func validate(m *Medicine) error {
	fields := map[string]string{}
	if m.Name == "" {
		fields["name"] = MsgNameRequired
	}
	if m.Dosage == "" {
		fields["dosage"] = MsgDosageRequired
	}

	times, err := NormalizeScheduleTimes(m.ScheduleTimes)
	if err != nil {
		fields["schedule_times"] = err.Error()
	} else {
		m.ScheduleTimes = times
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func applyText(dst *string, v NullableText) {
	if !v.Present {
		return
	}
	if v.Value == nil {
		*dst = ""
		return
	}
	*dst = strings.TrimSpace(*v.Value)
}

func dateOnly(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	y, m, d := t.Date()
	out := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &out
}
