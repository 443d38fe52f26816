package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sethvargo/go-retry"
)

var errLockBusy = errors.New("scan lock ocupado")

// unlockScript libera la clave solo si sigue siendo nuestra (el TTL pudo vencer y otro tomarla).
var unlockScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// ScanGuard bloqueo distribuido por clave sobre Redis (SET NX PX + token).
// Serializa escaneos del mismo código entre varias instancias del servicio.
type ScanGuard struct {
	rdb    goredis.UniversalClient
	ttl    time.Duration
	prefix string
}

// NewScanGuard construye el guard. ttl acota cuánto vive un bloqueo huérfano.
func NewScanGuard(rdb goredis.UniversalClient, ttl time.Duration) *ScanGuard {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &ScanGuard{rdb: rdb, ttl: ttl, prefix: "fabrica:lock:"}
}

// NewClient crea el cliente Redis y verifica la conexión.
func NewClient(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

// Lock espera hasta obtener key o hasta que ctx termine. La función devuelta libera el bloqueo
// y es idempotente.
func (g *ScanGuard) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := g.prefix + key
	token := uuid.NewString()

	backoff := retry.WithCappedDuration(200*time.Millisecond, retry.NewExponential(10*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		ok, err := g.rdb.SetNX(ctx, redisKey, token, g.ttl).Result()
		if err != nil {
			return err
		}
		if !ok {
			return retry.RetryableError(errLockBusy)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", key, err)
	}

	released := false
	return func() {
		if released {
			return
		}
		released = true
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = unlockScript.Run(ctx, g.rdb, []string{redisKey}, token).Err()
	}, nil
}
