package config

import (
	"context"
	"log"
	"os"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// ConnectRedis builds the redis client and the redislock client on top of
// it. Redis is a best-effort optimization here (cross-instance
// reconciliation locks); when REDIS_ADDRESS is unset or unreachable both
// return values are nil and the service still works, serialized by the
// database advisory locks alone.
func ConnectRedis() (*redis.Client, *redislock.Client) {
	address := os.Getenv("REDIS_ADDRESS")
	if address == "" {
		log.Printf("REDIS_ADDRESS not set; running without redis locks")
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     address,
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Printf("redis unreachable (%v); running without redis locks", err)
		return nil, nil
	}
	return rdb, redislock.New(rdb)
}
