package infrastructure

import (
	"context"
	"fmt"
	"strconv"

	goredis "github.com/redis/go-redis/v9"

	"bazaar/internal/pkg/redis"
	"bazaar/internal/service/inventory/domain"
)

const (
	decrementScriptName = "inventory_decrement"
	incrementScriptName = "inventory_increment"
)

// Both scripts run atomically inside Redis, so the stock check and the
// mutation are one indivisible step.
//
// decrement: -1 no record, 0 insufficient, 1 decremented.
const decrementScript = `
local stock = tonumber(redis.call('GET', KEYS[1]))
if not stock then
    return -1
end
if stock < tonumber(ARGV[1]) then
    return 0
end
redis.call('DECRBY', KEYS[1], ARGV[1])
return 1
`

// increment: -1 no record, otherwise the new quantity.
const incrementScript = `
if redis.call('EXISTS', KEYS[1]) == 0 then
    return -1
end
return redis.call('INCRBY', KEYS[1], ARGV[1])
`

// RedisLedger keeps per-item stock in Redis counters mutated only through
// Lua scripts.
type RedisLedger struct {
	client *redis.Client
}

func NewRedisLedger(client *redis.Client) (*RedisLedger, error) {
	if err := client.LoadScriptFromContent(decrementScriptName, decrementScript); err != nil {
		return nil, fmt.Errorf("load decrement script: %w", err)
	}
	if err := client.LoadScriptFromContent(incrementScriptName, incrementScript); err != nil {
		return nil, fmt.Errorf("load increment script: %w", err)
	}
	return &RedisLedger{client: client}, nil
}

func stockKey(itemID string) string {
	return fmt.Sprintf("inventory:stock:{%s}", itemID)
}

func (l *RedisLedger) Create(ctx context.Context, itemID string, quantity int) (domain.Record, error) {
	ok, err := l.client.GetClient().SetNX(ctx, stockKey(itemID), quantity, 0).Result()
	if err != nil {
		return domain.Record{}, err
	}
	if !ok {
		return domain.Record{}, fmt.Errorf("%w: %s", domain.ErrAlreadyExists, itemID)
	}
	return domain.Record{ItemID: itemID, Quantity: quantity}, nil
}

func (l *RedisLedger) Get(ctx context.Context, itemID string) (domain.Record, error) {
	val, err := l.client.GetClient().Get(ctx, stockKey(itemID)).Result()
	if err == goredis.Nil {
		return domain.Record{}, fmt.Errorf("%w: %s", domain.ErrNotFound, itemID)
	}
	if err != nil {
		return domain.Record{}, err
	}
	qty, err := strconv.Atoi(val)
	if err != nil {
		return domain.Record{}, fmt.Errorf("corrupt stock value for %s: %w", itemID, err)
	}
	return domain.Record{ItemID: itemID, Quantity: qty}, nil
}

func (l *RedisLedger) TryDecrement(ctx context.Context, itemID string, qty int) (bool, error) {
	result, err := l.client.RunScript(ctx, decrementScriptName, []string{stockKey(itemID)}, qty)
	if err != nil {
		return false, err
	}
	code, ok := result.(int64)
	if !ok {
		return false, fmt.Errorf("unexpected result type from decrement script: %T", result)
	}
	switch code {
	case 1:
		return true, nil
	case 0:
		return false, nil
	case -1:
		return false, fmt.Errorf("%w: %s", domain.ErrNotFound, itemID)
	default:
		return false, fmt.Errorf("unknown result code from decrement script: %d", code)
	}
}

func (l *RedisLedger) Increment(ctx context.Context, itemID string, qty int) (int, error) {
	result, err := l.client.RunScript(ctx, incrementScriptName, []string{stockKey(itemID)}, qty)
	if err != nil {
		return 0, err
	}
	newQty, ok := result.(int64)
	if !ok {
		return 0, fmt.Errorf("unexpected result type from increment script: %T", result)
	}
	if newQty == -1 {
		return 0, fmt.Errorf("%w: %s", domain.ErrNotFound, itemID)
	}
	return int(newQty), nil
}
