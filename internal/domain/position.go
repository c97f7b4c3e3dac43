package domain

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type PositionType string

const (
	PositionTypeSpot          PositionType = "spot"
	PositionTypeFuturesLong   PositionType = "futures_long"
	PositionTypeFuturesShort  PositionType = "futures_short"
	PositionTypeLendingSupply PositionType = "lending_supply"
	PositionTypeLendingBorrow PositionType = "lending_borrow"
)

func (t PositionType) IsFutures() bool {
	return t == PositionTypeFuturesLong || t == PositionTypeFuturesShort
}

func (t PositionType) IsLending() bool {
	return t == PositionTypeLendingSupply || t == PositionTypeLendingBorrow
}

type BorrowType string

const (
	BorrowTypeVariable BorrowType = "variable"
	BorrowTypeStable   BorrowType = "stable"
)

const (
	MaxPositions = 20
	MaxLeverage  = 125
)

type Position struct {
	Asset          string       `json:"asset" validate:"required"`
	Quantity       float64      `json:"quantity"`
	PositionType   PositionType `json:"position_type" validate:"required,oneof=spot futures_long futures_short lending_supply lending_borrow"`
	EntryPrice     float64      `json:"entry_price" validate:"gte=0"`
	Leverage       float64      `json:"leverage" validate:"gte=1,lte=125"`
	EntryTimestamp *time.Time   `json:"entry_timestamp,omitempty"`
	BorrowType     *BorrowType  `json:"borrow_type,omitempty" validate:"omitempty,oneof=variable stable"`
}

// Normalized fills defaults: upper-cased asset, leverage 1 when omitted
func (p Position) Normalized() Position {
	out := p
	out.Asset = strings.ToUpper(strings.TrimSpace(p.Asset))
	if out.Leverage == 0 {
		out.Leverage = 1
	}
	return out
}

var positionValidator = newPositionValidator()

func newPositionValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks a normalized position. index is used to build the field
// path reported in the ValidationError
func (p Position) Validate(index int) error {
	prefix := fmt.Sprintf("positions[%d]", index)
	fieldErr := func(field, reason string) error {
		return ValidationError{Field: prefix + "." + field, Reason: reason}
	}

	if err := positionValidator.Struct(p); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			fe := validationErrors[0]
			return fieldErr(fe.Field(), describeTag(fe))
		}
		return ValidationError{Field: prefix, Reason: err.Error()}
	}

	if math.IsNaN(p.Quantity) || math.IsInf(p.Quantity, 0) {
		return fieldErr("quantity", "must be a finite number")
	}
	if math.IsInf(p.EntryPrice, 0) {
		return fieldErr("entry_price", "must be a finite number")
	}

	switch {
	case p.PositionType.IsFutures():
		if p.EntryPrice <= 0 {
			return fieldErr("entry_price", "futures positions need an entry price > 0")
		}
	case p.Leverage != 1:
		return fieldErr("leverage", fmt.Sprintf("must be 1 for %s positions", p.PositionType))
	}

	if p.PositionType.IsLending() {
		if p.Quantity < 0 {
			return fieldErr("quantity", "lending quantities must be non-negative, direction comes from position_type")
		}
		if p.EntryTimestamp == nil || p.EntryTimestamp.IsZero() {
			return fieldErr("entry_timestamp", fmt.Sprintf("required for %s positions", p.PositionType))
		}
	}

	if p.PositionType == PositionTypeLendingBorrow && p.BorrowType == nil {
		return fieldErr("borrow_type", "required for lending_borrow positions")
	}
	if p.PositionType != PositionTypeLendingBorrow && p.BorrowType != nil {
		return fieldErr("borrow_type", "only allowed on lending_borrow positions")
	}

	return nil
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %v", fe.Param(), fe.Value())
	case "gte":
		return fmt.Sprintf("must be >= %s, got %v", fe.Param(), fe.Value())
	case "lte":
		return fmt.Sprintf("must be <= %s, got %v", fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("failed %s check", fe.Tag())
	}
}

// Assets returns the distinct asset set in first-seen order
func Assets(positions []Position) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, p := range positions {
		if !seen[p.Asset] {
			seen[p.Asset] = true
			out = append(out, p.Asset)
		}
	}
	return out
}
