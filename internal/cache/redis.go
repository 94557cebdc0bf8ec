package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/HovVathana/shoppink-backend/internal/service"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// stockTreeTTL короткий: дерево пересобирается дёшево, а инвалидация
// по каждому пути записи остатков всё равно best-effort.
const stockTreeTTL = 5 * time.Minute

type RedisClient struct {
	client *redis.Client
	log    *zap.Logger
}

func NewRedisClient(addr, password string, db int, log *zap.Logger) (*RedisClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Info("Redis connected successfully", zap.String("addr", addr))

	return &RedisClient{
		client: rdb,
		log:    log,
	}, nil
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}

func stockTreeKey(productID uuid.UUID) string {
	return fmt.Sprintf("stocktree:%s", productID)
}

func (r *RedisClient) GetStockTree(ctx context.Context, productID uuid.UUID) (*service.ProductStockTree, bool) {
	raw, err := r.client.Get(ctx, stockTreeKey(productID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.log.Warn("Не удалось прочитать дерево остатков из кэша", zap.Error(err))
		}
		return nil, false
	}
	var tree service.ProductStockTree
	if err := json.Unmarshal(raw, &tree); err != nil {
		r.log.Warn("Испорченное дерево остатков в кэше, удаляем", zap.String("key", stockTreeKey(productID)))
		_ = r.client.Del(ctx, stockTreeKey(productID)).Err()
		return nil, false
	}
	return &tree, true
}

func (r *RedisClient) SetStockTree(ctx context.Context, productID uuid.UUID, tree *service.ProductStockTree) error {
	raw, err := json.Marshal(tree)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, stockTreeKey(productID), raw, stockTreeTTL).Err()
}

func (r *RedisClient) InvalidateProduct(ctx context.Context, productID uuid.UUID) error {
	return r.client.Del(ctx, stockTreeKey(productID)).Err()
}
