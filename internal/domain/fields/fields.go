package fields

import (
	"fmt"
	"strconv"
)

// Rating is the mean review score of a title. A title without reviews has no
// rating at all, so the zero value marshals to null rather than 0.
type Rating struct {
	Mean  float64
	Valid bool
}

func (r Rating) MarshalJSON() ([]byte, error) {
	if !r.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(r.Mean, 'f', -1, 64)), nil
}

// Scan accepts the result of AVG(score), which is NULL when a title has no reviews.
func (r *Rating) Scan(src any) error {
	if src == nil {
		*r = Rating{}
		return nil
	}
	switch v := src.(type) {
	case float64:
		*r = Rating{Mean: v, Valid: true}
	case int64:
		*r = Rating{Mean: float64(v), Valid: true}
	case string:
		mean, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		*r = Rating{Mean: mean, Valid: true}
	default:
		return fmt.Errorf("cannot scan %T into Rating", src)
	}
	return nil
}
