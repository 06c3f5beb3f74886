// Package cache stores computed analytics per company. Every key carries the
// company id, so an entry computed for one tenant is never served to another.
package cache

import (
	"context"
	"time"
)

// AnalyticsCache is a per-company key/value store for computed dashboards.
type AnalyticsCache interface {
	// Get decodes the entry into dst and reports whether it was found.
	Get(ctx context.Context, companyID uint64, key string, dst interface{}) (bool, error)
	Set(ctx context.Context, companyID uint64, key string, value interface{}, ttl time.Duration) error
	// InvalidateCompany drops every entry of companyID and nothing else.
	InvalidateCompany(ctx context.Context, companyID uint64) error
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, uint64, string, interface{}) (bool, error) { return false, nil }

func (Noop) Set(context.Context, uint64, string, interface{}, time.Duration) error { return nil }

func (Noop) InvalidateCompany(context.Context, uint64) error { return nil }
