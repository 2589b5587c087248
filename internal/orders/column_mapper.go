package orders

import "strings"

// CanonicalField is a normalized field name used across all import sources.
type CanonicalField string

const (
	FieldOrderID     CanonicalField = "order_id"
	FieldCustomerID  CanonicalField = "customer_id"
	FieldOrderDate   CanonicalField = "order_date"
	FieldRegion      CanonicalField = "region"
	FieldCategory    CanonicalField = "category"
	FieldSubCategory CanonicalField = "sub_category"
	FieldSales       CanonicalField = "sales"
	FieldQuantity    CanonicalField = "quantity"
	FieldDiscount    CanonicalField = "discount"
	FieldProfit      CanonicalField = "profit"
)

// requiredFields must all resolve from the header for normalization to start.
var requiredFields = []CanonicalField{
	FieldOrderID, FieldCustomerID, FieldOrderDate, FieldRegion,
	FieldCategory, FieldSubCategory, FieldSales, FieldQuantity,
	FieldDiscount, FieldProfit,
}

// columnAliases maps normalized header names to canonical fields.
// Headers are lowercased and have spaces/dashes collapsed to underscores
// before lookup, so "Order Date", "order-date" and "Order_Date" all match.
var columnAliases = map[string]CanonicalField{
	"order_id": FieldOrderID,
	"orderid":  FieldOrderID,

	"customer_id": FieldCustomerID,
	"customerid":  FieldCustomerID,
	"cust_id":     FieldCustomerID,

	"order_date":    FieldOrderDate,
	"orderdate":     FieldOrderDate,
	"date":          FieldOrderDate,
	"purchase_date": FieldOrderDate,

	"region": FieldRegion,

	"category":         FieldCategory,
	"product_category": FieldCategory,

	"sub_category":        FieldSubCategory,
	"subcategory":         FieldSubCategory,
	"product_subcategory": FieldSubCategory,

	"sales":   FieldSales,
	"revenue": FieldSales,
	"amount":  FieldSales,

	"quantity": FieldQuantity,
	"qty":      FieldQuantity,
	"units":    FieldQuantity,

	"discount":      FieldDiscount,
	"discount_rate": FieldDiscount,

	"profit": FieldProfit,
	"margin": FieldProfit,
}

// ColumnMapping holds the resolved mapping from column indices to canonical fields.
type ColumnMapping struct {
	FieldMap map[CanonicalField]int // canonical field -> column index
	RawNames []string               // original header names
}

// normalizeHeader collapses the header-name variations seen across Superstore
// exports: case, surrounding quotes, and space/dash separators.
func normalizeHeader(h string) string {
	n := strings.ToLower(strings.TrimSpace(h))
	n = strings.Trim(n, "\"'")
	n = strings.ReplaceAll(n, " ", "_")
	n = strings.ReplaceAll(n, "-", "_")
	return n
}

// MapColumns resolves a raw header row into a column mapping. It returns a
// SchemaError naming the first required field that could not be resolved.
func MapColumns(header []string) (*ColumnMapping, error) {
	m := &ColumnMapping{
		FieldMap: make(map[CanonicalField]int, len(header)),
		RawNames: header,
	}
	for i, h := range header {
		if field, ok := columnAliases[normalizeHeader(h)]; ok {
			if _, dup := m.FieldMap[field]; !dup {
				m.FieldMap[field] = i
			}
		}
	}
	for _, f := range requiredFields {
		if _, ok := m.FieldMap[f]; !ok {
			return nil, &SchemaError{Field: string(f), Reason: "required column not found in header"}
		}
	}
	return m, nil
}
