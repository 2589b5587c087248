package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Maheswara192/Maheswara192-Revenue-Optimization-Predictive-Analytics/internal/orders"
)

const sampleCSV = `Order ID,Customer ID,Order Date,Region,Category,Sub-Category,Sales,Quantity,Discount,Profit
O-1,C-1,2023-01-15,West,Furniture,Tables,250.50,2,0.2,-30.10
O-2,C-2,2023-02-03,East,Technology,Phones,899.99,1,0,180.00
`

func TestReadOrders(t *testing.T) {
	recs, err := ReadOrders(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, "O-1", recs[0].OrderID)
	assert.Equal(t, "Tables", recs[0].SubCategory)
	assert.Equal(t, 250.50, recs[0].Sales)
	assert.Equal(t, "C-2", recs[1].CustomerID)
	assert.Equal(t, 180.00, recs[1].Profit)
}

func TestReadOrdersQuotedFields(t *testing.T) {
	csv := "Order ID,Customer ID,Order Date,Region,Category,Sub-Category,Sales,Quantity,Discount,Profit\n" +
		`"O-1","C-1","2023-01-15","West","Furniture","Tables","1,250.50",2,0.2,-30.10` + "\n"

	recs, err := ReadOrders(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, 1250.50, recs[0].Sales)
}

func TestReadOrdersEmptyFile(t *testing.T) {
	_, err := ReadOrders(strings.NewReader(""))
	var se *orders.SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "header", se.Field)
}

func TestReadOrdersHeaderOnly(t *testing.T) {
	recs, err := ReadOrders(strings.NewReader(
		"Order ID,Customer ID,Order Date,Region,Category,Sub-Category,Sales,Quantity,Discount,Profit\n"))
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestReadOrdersBadHeader(t *testing.T) {
	_, err := ReadOrders(strings.NewReader("foo,bar\n1,2\n"))
	var se *orders.SchemaError
	assert.True(t, errors.As(err, &se))
}

func TestReadOrdersFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0644))

	recs, err := ReadOrdersFile(path)
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestReadOrdersFileMissing(t *testing.T) {
	_, err := ReadOrdersFile("/nonexistent/orders.csv")
	assert.Error(t, err)
}
