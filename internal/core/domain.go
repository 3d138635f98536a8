package core

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

const (
	Expense TransactionType = "expense"
	Income  TransactionType = "income"
)

// MaxBudgetCents is the largest budget amount a user may configure.
const MaxBudgetCents int64 = 99_999_999

type (
	TransactionType string

	Money struct {
		Cents int64
	}

	// Transaction is an immutable record of a spend or income event.
	// It is only changed through the explicit update path and deleted by ID.
	Transaction struct {
		ID          int64
		Amount      Money
		Description string
		CategoryID  int64
		Type        TransactionType
		Date        time.Time
		CreatedAt   time.Time
		UpdatedAt   time.Time
	}

	// Category groups transactions. Default categories are seeded by
	// migration and can only be hidden, never deleted.
	Category struct {
		ID        int64
		Name      string
		Color     string // 6-hex-digit RGB, no leading '#'
		Icon      string
		IsDefault bool
		IsHidden  bool
	}

	// Budget caps expense spending for one category over a closed date
	// interval [PeriodStart, PeriodEnd]. Spent/remaining/percentage are
	// derived from transactions, never stored.
	Budget struct {
		ID          int64
		CategoryID  int64
		Amount      Money
		PeriodStart time.Time
		PeriodEnd   time.Time
		CreatedAt   time.Time
		UpdatedAt   time.Time
	}

	// Goal is a savings target, carried along in exports.
	Goal struct {
		ID            int64
		Name          string
		TargetAmount  Money
		CurrentAmount Money
		Deadline      time.Time // zero when open-ended
		CreatedAt     time.Time
	}
)

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrEmptyDescription   = errors.New("empty description")
	ErrDescriptionTooLong = errors.New("description too long (max 200 characters)")
	ErrInvalidCategory    = errors.New("invalid category reference")
	ErrInvalidType        = errors.New("invalid transaction type")
	ErrDateOutOfRange     = errors.New("date must be within one year of today")
	ErrInvalidName        = errors.New("invalid name")
	ErrInvalidColor       = errors.New("color must be a 6-hex-digit RGB value")
	ErrColorTooLight      = errors.New("color too light for readable contrast")
	ErrInvalidIcon        = errors.New("invalid icon identifier")
	ErrInvalidPeriod      = errors.New("period start must not be after period end")
	ErrPeriodOutOfRange   = errors.New("period must be within two years of today")
	ErrBudgetTooLarge     = errors.New("budget amount above maximum")
)

var colorPattern = regexp.MustCompile(`^[0-9a-fA-F]{6}$`)

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (tt TransactionType) Valid() bool {
	return tt == Expense || tt == Income
}

func (t Transaction) Validate() error {
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return ErrDescriptionTooLong
	}
	if t.CategoryID <= 0 {
		return ErrInvalidCategory
	}
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if t.Date.IsZero() {
		return ErrDateOutOfRange
	}
	now := time.Now()
	if t.Date.Before(now.AddDate(-1, 0, 0)) || t.Date.After(now.AddDate(1, 0, 0)) {
		return ErrDateOutOfRange
	}
	return nil
}

func (c Category) Validate() error {
	name := strings.TrimSpace(c.Name)
	if len(name) == 0 || len(c.Name) > 50 {
		return ErrInvalidName
	}
	color := strings.TrimPrefix(c.Color, "#")
	if !colorPattern.MatchString(color) {
		return ErrInvalidColor
	}
	if Luminance(color) > 0.8 {
		return ErrColorTooLight
	}
	if c.Icon == "" || len(c.Icon) > 30 {
		return ErrInvalidIcon
	}
	return nil
}

// Luminance computes the relative luminance (0..1) of a 6-hex-digit RGB
// color. The caller passes a validated hex string without '#'.
func Luminance(hexColor string) float64 {
	if len(hexColor) != 6 {
		return 0
	}
	r := float64(hexByte(hexColor[0:2]))
	g := float64(hexByte(hexColor[2:4]))
	b := float64(hexByte(hexColor[4:6]))
	return (0.2126*r + 0.7152*g + 0.0722*b) / 255.0
}

func hexByte(s string) int {
	v := 0
	for i := 0; i < len(s); i++ {
		v *= 16
		switch c := s[i]; {
		case c >= '0' && c <= '9':
			v += int(c - '0')
		case c >= 'a' && c <= 'f':
			v += int(c-'a') + 10
		case c >= 'A' && c <= 'F':
			v += int(c-'A') + 10
		}
	}
	return v
}

func (b Budget) Validate() error {
	if err := b.Amount.Validate(); err != nil {
		return err
	}
	if b.Amount.Cents > MaxBudgetCents {
		return ErrBudgetTooLarge
	}
	if b.PeriodStart.IsZero() || b.PeriodEnd.IsZero() {
		return ErrInvalidPeriod
	}
	if b.PeriodStart.After(b.PeriodEnd) {
		return ErrInvalidPeriod
	}
	now := time.Now()
	if b.PeriodStart.Before(now.AddDate(-2, 0, 0)) || b.PeriodEnd.After(now.AddDate(2, 0, 0)) {
		return ErrPeriodOutOfRange
	}
	if b.CategoryID <= 0 {
		return ErrInvalidCategory
	}
	return nil
}

func (g Goal) Validate() error {
	name := strings.TrimSpace(g.Name)
	if len(name) == 0 || len(g.Name) > 100 {
		return ErrInvalidName
	}
	return g.TargetAmount.Validate()
}

// WithinDateRange reports whether t falls inside the inclusive calendar
// interval [start, end]. Zero bounds are open.
func WithinDateRange(t, start, end time.Time) bool {
	ty, tm, td := t.Date()
	day := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	if !start.IsZero() {
		sy, sm, sd := start.Date()
		if day.Before(time.Date(sy, sm, sd, 0, 0, 0, 0, time.UTC)) {
			return false
		}
	}
	if !end.IsZero() {
		ey, em, ed := end.Date()
		if day.After(time.Date(ey, em, ed, 0, 0, 0, 0, time.UTC)) {
			return false
		}
	}
	return true
}
