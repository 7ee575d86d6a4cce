package store

import (
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-translations/internal/record"
)

// NewRepository builds the bun-backed repository for a translatable model.
func NewRepository[T record.Record](db *bun.DB, handlers repository.ModelHandlers[T]) repository.Repository[T] {
	return repository.MustNewRepository(db, handlers)
}

// NewRepositoryWithCache builds the repository and wraps it with the caching
// layer when both a cache service and key serializer are provided.
func NewRepositoryWithCache[T record.Record](db *bun.DB, handlers repository.ModelHandlers[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	base := NewRepository(db, handlers)
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}
