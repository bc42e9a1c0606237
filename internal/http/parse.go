package http

import (
	"encoding/json"
	"fmt"
	"time"
)

// flexibleDate accepts YYYY-MM-DD or RFC3339 on input and normalizes to
// a time.Time. The zero value means the field was absent.
type flexibleDate struct {
	time.Time
}

func (d *flexibleDate) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		return nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		d.Time = t.UTC()
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return fmt.Errorf("date must be YYYY-MM-DD or RFC3339")
	}
	d.Time = t.UTC()
	return nil
}

// jsonAmount accepts either a JSON number or a numeric string and keeps
// the raw decimal text so the cent parser controls rounding.
type jsonAmount string

func (a *jsonAmount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = jsonAmount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("amount must be a number")
	}
	*a = jsonAmount(n.String())
	return nil
}

func (a jsonAmount) String() string {
	return string(a)
}
