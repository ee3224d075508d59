package schemas

import (
	"fmt"
	"time"

	"dividendtracker/src/utils"
)

// Date represents a date in YYYY-MM-DD format
type Date struct {
	time.Time
}

func NewDate(t time.Time) Date {
	return Date{Time: t}
}

// ToTime returns the underlying time.Time value
func (d Date) ToTime() time.Time {
	return d.Time
}

// UnmarshalJSON accepts YYYY-MM-DD or YYYY/MM/DD. An empty string or null
// leaves the zero date.
func (d *Date) UnmarshalJSON(data []byte) error {
	str := string(data)
	if str == "null" {
		d.Time = time.Time{}
		return nil
	}
	if len(str) >= 2 && str[0] == '"' && str[len(str)-1] == '"' {
		str = str[1 : len(str)-1]
	}
	if str == "" {
		d.Time = time.Time{}
		return nil
	}

	parsed, err := utils.ParseDate(str)
	if err != nil {
		return err
	}
	d.Time = parsed
	return nil
}

// MarshalJSON implements json.Marshaler interface
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`null`), nil
	}
	return []byte(fmt.Sprintf(`"%s"`, d.Format(utils.ShortDashDateLayout))), nil
}
