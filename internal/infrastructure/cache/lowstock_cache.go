package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/velocityfibre/fibreflow-stock/internal/application/stock"
	"github.com/velocityfibre/fibreflow-stock/internal/domain/entity"
)

var _ stock.LowStockCache = (*RedisLowStockCache)(nil)

const lowStockKey = "stock:low_stock"

// RedisLowStockCache cachea el listado de items bajo nivel de reorden. Un
// fallo de Redis nunca rompe la consulta: Get devuelve miss y Set es best
// effort; la fuente de verdad sigue siendo la base.
type RedisLowStockCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisLowStockCache construye la caché. ttl <= 0 usa 5 minutos.
func NewRedisLowStockCache(client *redis.Client, ttl time.Duration) *RedisLowStockCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisLowStockCache{client: client, ttl: ttl}
}

// Get devuelve el listado cacheado y true, o (nil, false) ante miss o error.
func (c *RedisLowStockCache) Get(ctx context.Context) ([]*entity.StockItem, bool) {
	data, err := c.client.Get(ctx, lowStockKey).Bytes()
	if err != nil {
		return nil, false
	}
	var items []*entity.StockItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, false
	}
	return items, true
}

// Set guarda el listado con TTL. Los errores se descartan a propósito.
func (c *RedisLowStockCache) Set(ctx context.Context, items []*entity.StockItem) {
	data, err := json.Marshal(items)
	if err != nil {
		return
	}
	c.client.Set(ctx, lowStockKey, data, c.ttl)
}

// Invalidate borra la entrada. La llama el decorador de TxRunner tras cada
// transacción confirmada; el error de Del se descarta igual que en Set.
func (c *RedisLowStockCache) Invalidate(ctx context.Context) {
	c.client.Del(ctx, lowStockKey)
}
