package engagement

import (
	"encoding/json"
	"strconv"
)

// flexString decodes a JSON string, number, or boolean into a string and
// treats anything else (objects, arrays, null) as empty. It never returns an
// error: request-shape problems are tolerated via defaulting, not rejection.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = flexString(str)
		return nil
	}
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*s = flexString(strconv.FormatFloat(num, 'f', -1, 64))
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*s = flexString(strconv.FormatBool(b))
		return nil
	}
	*s = ""
	return nil
}
