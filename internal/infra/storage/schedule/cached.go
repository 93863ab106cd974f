package schedule

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
)

// ActiveReader чтение активного шаблона
type ActiveReader interface {
	GetActiveByProfessional(ctx context.Context, professionalID int64) (*domain.ScheduleTemplate, error)
}

// CacheObserver учет попаданий в кэш (pkg/metrics)
type CacheObserver interface {
	ObserveCache(hit bool)
}

// CachedReader кэширует активные шаблоны на короткий TTL для запросов доступности.
// Внутри транзакции кэш не используется. Промахи (ErrScheduleNotFound) не кэшируются
type CachedReader struct {
	next     ActiveReader
	cache    *gocache.Cache
	observer CacheObserver
	disabled bool
}

// NewCachedReader ttl <= 0 отключает кэш
func NewCachedReader(next ActiveReader, ttl, cleanupInterval time.Duration, observer CacheObserver) *CachedReader {
	return &CachedReader{
		next:     next,
		cache:    gocache.New(ttl, cleanupInterval),
		observer: observer,
		disabled: ttl <= 0,
	}
}

func cacheKey(professionalID int64) string {
	return fmt.Sprintf("active:%d", professionalID)
}

// GetActiveByProfessional возвращает копию шаблона, чтобы вызывающий код не мог изменить закэшированное значение
func (c *CachedReader) GetActiveByProfessional(ctx context.Context, professionalID int64) (*domain.ScheduleTemplate, error) {
	if c.disabled || dbmetrics.IsInTransaction(ctx) {
		return c.next.GetActiveByProfessional(ctx, professionalID)
	}

	key := cacheKey(professionalID)
	if v, ok := c.cache.Get(key); ok {
		c.observe(true)
		return v.(*domain.ScheduleTemplate).Clone(), nil
	}
	c.observe(false)

	t, err := c.next.GetActiveByProfessional(ctx, professionalID)
	if err != nil {
		return nil, err
	}

	c.cache.SetDefault(key, t.Clone())
	return t, nil
}

// Invalidate удаляет шаблон специалиста из кэша
func (c *CachedReader) Invalidate(professionalID int64) {
	c.cache.Delete(cacheKey(professionalID))
}

func (c *CachedReader) observe(hit bool) {
	if c.observer != nil {
		c.observer.ObserveCache(hit)
	}
}
