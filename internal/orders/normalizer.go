package orders

import (
	"strconv"
	"strings"
	"time"
)

// dateLayouts are tried in order when parsing order dates. Superstore exports
// mix US-style slashes with ISO dates depending on the tool that produced them.
var dateLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	"01/02/2006",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
}

// Normalize validates and types raw rows against a resolved column mapping.
// It is a pure transform: the output preserves input row order and the input
// is never modified. A SchemaError aborts on the first untypeable value; a
// ValueError aborts on the first out-of-domain value.
func Normalize(mapping *ColumnMapping, rows [][]string) ([]OrderRecord, error) {
	out := make([]OrderRecord, 0, len(rows))
	for i, row := range rows {
		rec, err := normalizeRow(mapping, row, i+1)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func normalizeRow(mapping *ColumnMapping, row []string, rowNum int) (OrderRecord, error) {
	get := func(f CanonicalField) (string, bool) {
		idx := mapping.FieldMap[f]
		if idx >= len(row) {
			return "", false
		}
		return strings.TrimSpace(row[idx]), true
	}

	var rec OrderRecord
	for _, f := range requiredFields {
		raw, ok := get(f)
		if !ok || raw == "" {
			return rec, &SchemaError{Field: string(f), Row: rowNum, Reason: "value absent"}
		}

		switch f {
		case FieldOrderID:
			rec.OrderID = raw
		case FieldCustomerID:
			rec.CustomerID = raw
		case FieldRegion:
			rec.Region = raw
		case FieldCategory:
			rec.Category = raw
		case FieldSubCategory:
			rec.SubCategory = raw
		case FieldOrderDate:
			d, err := parseDate(raw)
			if err != nil {
				return rec, &SchemaError{Field: string(f), Row: rowNum, Reason: "unparseable date " + strconv.Quote(raw)}
			}
			rec.OrderDate = d
		case FieldSales, FieldDiscount, FieldProfit:
			v, err := parseDecimal(raw)
			if err != nil {
				return rec, &SchemaError{Field: string(f), Row: rowNum, Reason: "unparseable number " + strconv.Quote(raw)}
			}
			switch f {
			case FieldSales:
				if v < 0 {
					return rec, &ValueError{Field: string(f), Row: rowNum, Value: raw}
				}
				rec.Sales = v
			case FieldDiscount:
				if v < 0 || v > 1 {
					return rec, &ValueError{Field: string(f), Row: rowNum, Value: raw}
				}
				rec.Discount = v
			case FieldProfit:
				rec.Profit = v
			}
		case FieldQuantity:
			q, err := strconv.Atoi(raw)
			if err != nil {
				return rec, &SchemaError{Field: string(f), Row: rowNum, Reason: "unparseable integer " + strconv.Quote(raw)}
			}
			if q <= 0 {
				return rec, &ValueError{Field: string(f), Row: rowNum, Value: raw}
			}
			rec.Quantity = q
		}
	}
	return rec, nil
}

func parseDate(raw string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		d, err := time.Parse(layout, raw)
		if err == nil {
			return d, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// parseDecimal accepts plain floats plus the currency-formatted values some
// exports carry ("$1,234.50").
func parseDecimal(raw string) (float64, error) {
	cleaned := strings.ReplaceAll(raw, ",", "")
	cleaned = strings.TrimPrefix(cleaned, "$")
	return strconv.ParseFloat(cleaned, 64)
}
