package client

import (
	"eshop-assistant/internal/config"

	"github.com/redis/go-redis/v9"
)

func InitRedisClient(cfg *config.Redis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}
