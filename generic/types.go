/*
Package generic provides the domain-agnostic primitives of the leave engine.

PURPOSE:
  Amounts, units, calendar days, clock times and validity windows. The
  attendance and leave packages build on these without knowing about each
  other's storage or transport.

KEY CONCEPTS IN THIS FILE (types.go):
  - Amount: A quantity with a unit (e.g., 2 days, 30 minutes)
  - Unit: minutes or days; one working day is 480 minutes
  - Lenient parsing: malformed numbers coerce to zero, never error

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal so 10/480 of a day is not truncated
     before aggregation
  2. Units travel with values: arithmetic happens in one unit, conversion
     is explicit via Amount.In

USAGE:
  used := generic.NewAmountFromInt(20, generic.UnitMinutes)
  inDays := used.In(generic.UnitDays) // 20/480 days

SEE ALSO:
  - time.go: Calendar days and clock times
  - period.go: Inclusive validity windows
*/
package generic

import (
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// UNIT - Currency of leave accounting
// =============================================================================

type Unit string

const (
	UnitDays    Unit = "days"
	UnitMinutes Unit = "minutes"
)

// MinutesPerDay is the length of one working day (an 8-hour shift).
const MinutesPerDay = 480

var minutesPerDay = decimal.NewFromInt(MinutesPerDay)

// ParseUnit maps a stored unit string to a Unit. Anything that is not
// recognisably minutes is treated as days.
func ParseUnit(s string) Unit {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "minutes", "minute", "mins", "min":
		return UnitMinutes
	default:
		return UnitDays
	}
}

// Valid reports whether u is one of the supported units.
func (u Unit) Valid() bool { return u == UnitDays || u == UnitMinutes }

// =============================================================================
// AMOUNT - Quantity with unit
// =============================================================================

type Amount struct {
	Value decimal.Decimal
	Unit  Unit
}

func NewAmount(value float64, unit Unit) Amount {
	return Amount{Value: decimal.NewFromFloat(value), Unit: unit}
}

func NewAmountFromInt(value int, unit Unit) Amount {
	return Amount{Value: decimal.NewFromInt(int64(value)), Unit: unit}
}

func ZeroAmount(unit Unit) Amount { return Amount{Value: decimal.Zero, Unit: unit} }

// MustParseDecimal parses s, returning zero for empty or non-numeric input.
func MustParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func (a Amount) Zero() Amount                 { return Amount{Value: decimal.Zero, Unit: a.Unit} }
func (a Amount) Sub(b Amount) Amount          { return Amount{Value: a.Value.Sub(b.In(a.Unit).Value), Unit: a.Unit} }
func (a Amount) Mul(s decimal.Decimal) Amount { return Amount{Value: a.Value.Mul(s), Unit: a.Unit} }
func (a Amount) Div(s decimal.Decimal) Amount { return Amount{Value: a.Value.Div(s), Unit: a.Unit} }
func (a Amount) Neg() Amount                  { return Amount{Value: a.Value.Neg(), Unit: a.Unit} }
func (a Amount) IsNegative() bool             { return a.Value.IsNegative() }
func (a Amount) IsZero() bool                 { return a.Value.IsZero() }
func (a Amount) IsPositive() bool             { return a.Value.IsPositive() }
func (a Amount) GreaterThan(b Amount) bool    { return a.Value.GreaterThan(b.In(a.Unit).Value) }
func (a Amount) LessThan(b Amount) bool       { return a.Value.LessThan(b.In(a.Unit).Value) }

// Add returns a+b in a's unit.
func (a Amount) Add(b Amount) Amount {
	return Amount{Value: a.Value.Add(b.In(a.Unit).Value), Unit: a.Unit}
}

// ClampZero returns a, or zero if a is negative.
func (a Amount) ClampZero() Amount {
	if a.IsNegative() {
		return a.Zero()
	}
	return a
}

// In converts a to the target unit. An empty unit on either side is treated
// as days.
func (a Amount) In(unit Unit) Amount {
	from, to := a.Unit, unit
	if from == "" {
		from = UnitDays
	}
	if to == "" {
		to = UnitDays
	}
	switch {
	case from == to:
		return Amount{Value: a.Value, Unit: to}
	case from == UnitMinutes && to == UnitDays:
		return Amount{Value: a.Value.Div(minutesPerDay), Unit: to}
	default:
		return Amount{Value: a.Value.Mul(minutesPerDay), Unit: to}
	}
}

// Float64 is for presentation only.
func (a Amount) Float64() float64 { return a.Value.InexactFloat64() }

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EmployeeID string
