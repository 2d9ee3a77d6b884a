package catalogservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache кэш карточек услуг в Redis
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache создает кэш услуг
func NewRedisCache(addr, password string, db int, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db}),
		ttl:    ttl,
	}
}

// Ping проверяет доступность Redis
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// GetService возвращает услугу из кэша или nil, nil при промахе
func (c *RedisCache) GetService(ctx context.Context, serviceID int64) (*Service, error) {
	data, err := c.client.Get(ctx, serviceKey(serviceID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var service Service
	if err := json.Unmarshal(data, &service); err != nil {
		return nil, err
	}
	return &service, nil
}

// SetService кладет услугу в кэш
func (c *RedisCache) SetService(ctx context.Context, service *Service) error {
	payload, err := json.Marshal(service)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, serviceKey(service.ID), payload, c.ttl).Err()
}

// Close закрывает соединение с Redis
func (c *RedisCache) Close() error {
	return c.client.Close()
}

func serviceKey(serviceID int64) string {
	return fmt.Sprintf("cache:catalog:service:%d", serviceID)
}

// CachedClient клиент каталога с read-through кэшем услуг.
// Ошибки кэша не мешают запросу: логируются и запрос идёт в каталог.
type CachedClient struct {
	*Client
	cache ServiceCache
}

// NewCachedClient оборачивает клиент каталога кэшем
func NewCachedClient(client *Client, cache ServiceCache) *CachedClient {
	return &CachedClient{
		Client: client,
		cache:  cache,
	}
}

// GetService получает услугу из кэша, при промахе из каталога
func (c *CachedClient) GetService(ctx context.Context, serviceID int64) (*Service, error) {
	cached, err := c.cache.GetService(ctx, serviceID)
	if err != nil {
		c.log.Warn("CachedClient.GetService: cache read failed for service id=%d: %v", serviceID, err)
	}
	if cached != nil {
		return cached, nil
	}

	service, err := c.Client.GetService(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	if err := c.cache.SetService(ctx, service); err != nil {
		c.log.Warn("CachedClient.GetService: cache write failed for service id=%d: %v", serviceID, err)
	}

	return service, nil
}
