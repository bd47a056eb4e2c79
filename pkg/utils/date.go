package utils

import (
	"fmt"
	"time"
)

// ParseDate interpreta YYYY-MM-DD, devolvendo nil para valor vazio
func ParseDate(dateStr string) (*time.Time, error) {
	if dateStr == "" {
		return nil, nil
	}

	date, err := time.Parse(time.DateOnly, dateStr)
	if err != nil {
		return nil, fmt.Errorf("data inválida %q, use o formato AAAA-MM-DD", dateStr)
	}

	return &date, nil
}
