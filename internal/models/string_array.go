package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringArray stores a list of strings as a JSON-encoded text column so the
// same model works against postgres and the sqlite test database.
type StringArray []string

func (a *StringArray) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	case nil:
		*a = nil
		return nil
	default:
		return fmt.Errorf("cannot scan %T into StringArray", value)
	}
}

func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return json.Marshal(StringArray{})
	}
	return json.Marshal(a)
}

func (a StringArray) Contains(s string) bool {
	for _, v := range a {
		if v == s {
			return true
		}
	}
	return false
}
