package main

import (
	"math"
	"strconv"

	"github.com/pkg/errors"
)

// parseAmount parses a non-negative integer with an optional K, M or G
// suffix denoting powers of 1024. Lowercase suffixes are accepted.
func parseAmount(s string) (int64, error) {
	if s == "" {
		return 0, errors.New("empty amount")
	}

	mult := int64(1)
	switch s[len(s)-1] {
	case 'K', 'k':
		mult = 1 << 10
	case 'M', 'm':
		mult = 1 << 20
	case 'G', 'g':
		mult = 1 << 30
	}
	if mult != 1 {
		s = s[:len(s)-1]
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "bad amount %q", s)
	}
	if n < 0 {
		return 0, errors.Errorf("negative amount %d", n)
	}
	if n > math.MaxInt64/mult {
		return 0, errors.Errorf("amount %q overflows", s)
	}
	return n * mult, nil
}
