package service

import "context"

// ResultCache stores serialized results by (user, test). Implementations
// report a miss as (nil, nil).
type ResultCache interface {
	Get(ctx context.Context, userID uint, testUUID string) ([]byte, error)
	Set(ctx context.Context, userID uint, testUUID string, data []byte) error
	Delete(ctx context.Context, userID uint, testUUID string) error
}

// NoopResultCache is used when Redis is disabled.
type NoopResultCache struct{}

func (NoopResultCache) Get(context.Context, uint, string) ([]byte, error) { return nil, nil }
func (NoopResultCache) Set(context.Context, uint, string, []byte) error   { return nil }
func (NoopResultCache) Delete(context.Context, uint, string) error        { return nil }
