package discoverydomain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// FlexString aceita valores enviados como texto ou como número
type FlexString string

func (s *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*s = ""
		return nil
	}

	if b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = FlexString(strings.TrimSpace(v))
		return nil
	}

	*s = FlexString(string(b))
	return nil
}

func (s FlexString) String() string {
	return string(s)
}

// FlexInt aceita contadores como número, número decimal ou texto
type FlexInt int64

func (n *FlexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*n = 0
		return nil
	}

	raw := strings.Trim(string(b), `"`)
	if raw == "" {
		*n = 0
		return nil
	}

	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		*n = FlexInt(v)
		return nil
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return err
	}
	*n = FlexInt(int64(f))
	return nil
}
