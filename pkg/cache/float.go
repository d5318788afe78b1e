package cache

import (
	"context"
	"strconv"
	"time"
)

// GetFloat64 reads a numeric value, treating parse failures as misses.
func GetFloat64(ctx context.Context, c Cache, key string) (float64, error) {
	raw, err := c.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, ErrMiss
	}
	return v, nil
}

// SetFloat64 stores a numeric value.
func SetFloat64(ctx context.Context, c Cache, key string, v float64, ttl time.Duration) error {
	return c.Set(ctx, key, strconv.FormatFloat(v, 'f', -1, 64), ttl)
}
