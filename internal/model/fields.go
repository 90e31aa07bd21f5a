package model

import "strconv"

// Number extracts a numeric field value. JSON decoding yields float64 for
// numbers, but older sheet rows stored numbers as strings, so both are read.
func (f CustomField) Number() (float64, bool) {
	switch v := f.Value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// Text returns the field value rendered as a string for display and prompts.
func (f CustomField) Text() string {
	switch v := f.Value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return ""
	}
	return ""
}
