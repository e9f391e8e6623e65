// Package items turns heterogeneous line-item records into the canonical
// model.Item shape and computes their totals.
package items

import (
	"encoding/json"
	"invoicer/internal/apperr"
	"invoicer/internal/model"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Candidate field names per canonical field, in priority order.
var (
	TitleFields  = []string{"feature_title", "title"}
	DescFields   = []string{"feature_desc", "desc"}
	DetailFields = []string{"detail", "description", "work_detail"}
)

// Raw is a line item as received from a client or read from legacy storage.
type Raw = map[string]any

// Normalize maps raw records to canonical items and returns the sum of their
// prices. An empty or absent sequence is a validation error.
func Normalize(raw []Raw) ([]model.Item, decimal.Decimal, error) {
	if len(raw) == 0 {
		return nil, decimal.Zero, apperr.NewValidationError("items", "must be a non-empty array")
	}
	normalized := lo.Map(raw, func(r Raw, _ int) model.Item {
		return NormalizeOne(r)
	})
	return normalized, Total(normalized), nil
}

// NormalizeOne resolves a single record. It never fails: unknown or
// unparsable values fall back to their zero defaults.
func NormalizeOne(r Raw) model.Item {
	free := Truthy(r["is_free"])
	price := decimal.Zero
	if !free {
		price = ParsePrice(r["price"])
	}
	return model.Item{
		FeatureTitle: String(r, TitleFields...),
		FeatureDesc:  String(r, DescFields...),
		Detail:       String(r, DetailFields...),
		Price:        price,
		IsFree:       free,
	}
}

// Total sums item prices.
func Total(list []model.Item) decimal.Decimal {
	return lo.Reduce(list, func(acc decimal.Decimal, it model.Item, _ int) decimal.Decimal {
		return acc.Add(it.Price)
	}, decimal.Zero)
}

// String returns the first non-empty string value among names.
func String(r Raw, names ...string) string {
	for _, name := range names {
		v, ok := r[name]
		if !ok || v == nil {
			continue
		}
		var s string
		switch t := v.(type) {
		case string:
			s = t
		case json.Number:
			s = t.String()
		case float64:
			s = strconv.FormatFloat(t, 'f', -1, 64)
		case bool:
			if !t {
				continue
			}
			s = "true"
		default:
			continue
		}
		if s != "" {
			return s
		}
	}
	return ""
}

// ParsePrice reads a JSON number or numeric string. Anything else is zero.
// Negative values pass through unchanged.
func ParsePrice(v any) decimal.Decimal {
	switch t := v.(type) {
	case decimal.Decimal:
		return t
	case float64:
		return decimal.NewFromFloat(t)
	case float32:
		return decimal.NewFromFloat32(t)
	case int:
		return decimal.NewFromInt(int64(t))
	case int64:
		return decimal.NewFromInt(t)
	case json.Number:
		if d, err := decimal.NewFromString(t.String()); err == nil {
			return d
		}
	case string:
		if d, err := decimal.NewFromString(strings.TrimSpace(t)); err == nil {
			return d
		}
	}
	return decimal.Zero
}

// Truthy reports whether an is_free style flag is set.
func Truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	case json.Number:
		f, err := t.Float64()
		return err == nil && f != 0
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		return err == nil && b
	}
	return false
}
