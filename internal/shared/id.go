package shared

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID identifies a stored record. Documents written by earlier versions carry
// numeric millisecond identifiers, so decoding accepts strings and numbers.
type ID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*id = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	default:
		if _, err := strconv.ParseFloat(string(data), 64); err != nil {
			return fmt.Errorf("shared: id %s is neither string nor number", data)
		}
		*id = ID(data)
		return nil
	}
}

func (id ID) String() string { return string(id) }
