package orders

import "fmt"

// SchemaError indicates a required field is missing from the input header or
// a value could not be parsed into its declared type. Fatal to the run.
type SchemaError struct {
	Field  string
	Row    int // 1-based data row, 0 when the header itself is at fault
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("schema error: field %q row %d: %s", e.Field, e.Row, e.Reason)
	}
	return fmt.Sprintf("schema error: field %q: %s", e.Field, e.Reason)
}

// ValueError indicates a well-typed value outside its allowed domain
// (negative sales, discount outside [0,1], non-positive quantity).
type ValueError struct {
	Field string
	Row   int
	Value string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("value error: field %q row %d: %q out of range", e.Field, e.Row, e.Value)
}

// InvalidParameterError indicates out-of-range configuration handed to a
// component (discount cap, elasticity coefficient, cluster count).
type InvalidParameterError struct {
	Param string
	Value float64
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s=%v", e.Param, e.Value)
}

// InsufficientDataError indicates the customer population is too small for
// the requested statistical method. Callers degrade rather than abort.
type InsufficientDataError struct {
	Component string
	Need      int
	Have      int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: insufficient data: need %d, have %d", e.Component, e.Need, e.Have)
}

// InsufficientHistoryError indicates too little time-series history for the
// primary forecasting method; the engine falls back to a moving average.
type InsufficientHistoryError struct {
	Need int
	Have int
}

func (e *InsufficientHistoryError) Error() string {
	return fmt.Sprintf("forecast: insufficient history: need %d periods, have %d", e.Need, e.Have)
}
