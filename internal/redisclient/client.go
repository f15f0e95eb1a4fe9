package redisclient

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"storefront-service/internal/models"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
)

//go:embed scripts/record_sale.lua
var recordSaleScript string

type Client struct {
	rdb        *redis.Client
	saleScript *redis.Script
}

// NewClient creates a new Redis client with Lua scripts loaded
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return NewWithRedis(rdb), nil
}

// NewWithRedis wraps an existing connection
func NewWithRedis(rdb *redis.Client) *Client {
	return &Client{
		rdb:        rdb,
		saleScript: redis.NewScript(recordSaleScript),
	}
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping checks Redis connectivity
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func roleKey(email string) string {
	return fmt.Sprintf("role:%s", email)
}

// GetRole reads a cached role as "role|accountID"
func (c *Client) GetRole(ctx context.Context, email string) (string, int64, bool, error) {
	val, err := c.rdb.Get(ctx, roleKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return "", 0, false, nil
	}
	if err != nil {
		return "", 0, false, err
	}

	role, rawID, ok := strings.Cut(val, "|")
	if !ok {
		return "", 0, false, nil
	}
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return "", 0, false, nil
	}
	return role, id, true, nil
}

// SetRole caches a resolved role
func (c *Client) SetRole(ctx context.Context, email, role string, accountID int64, ttl time.Duration) error {
	return c.rdb.Set(ctx, roleKey(email), fmt.Sprintf("%s|%d", role, accountID), ttl).Err()
}

// InvalidateRole drops a cached role
func (c *Client) InvalidateRole(ctx context.Context, email string) error {
	return c.rdb.Del(ctx, roleKey(email)).Err()
}

// SetIdempotencyKey remembers a client request key, usually with the
// payment intent id it produced
func (c *Client) SetIdempotencyKey(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return c.rdb.Set(ctx, idempotencyKey(key), value, ttl).Err()
}

// CheckIdempotencyKey reports whether a client request key was already used
func (c *Client) CheckIdempotencyKey(ctx context.Context, key string) (bool, error) {
	result, err := c.rdb.Exists(ctx, idempotencyKey(key)).Result()
	if err != nil {
		return false, err
	}
	return result > 0, nil
}

// MarkOnce claims scope/id. first is false if it was already claimed.
func (c *Client) MarkOnce(ctx context.Context, scope, id string, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, fmt.Sprintf("idempotency:%s:%s", scope, id), "1", ttl).Result()
}

// ReleaseMark drops a claim so the work can be retried
func (c *Client) ReleaseMark(ctx context.Context, scope, id string) error {
	return c.rdb.Del(ctx, fmt.Sprintf("idempotency:%s:%s", scope, id)).Err()
}

func idempotencyKey(key string) string {
	return "idempotency:" + key
}

func salesKey(sellerEmail string) string {
	if sellerEmail == "" {
		return "sales:all"
	}
	return fmt.Sprintf("sales:seller:%s", sellerEmail)
}

// RecordSale adds a confirmed order to the live counters once per order.
// Returns false when the order was already counted.
func (c *Client) RecordSale(ctx context.Context, orderID int64, sellerEmail string, quantity int, income decimal.Decimal, markerTTL time.Duration) (bool, error) {
	keys := []string{
		fmt.Sprintf("sale:%d", orderID),
		salesKey(""),
		salesKey(sellerEmail),
	}

	result, err := c.saleScript.Run(ctx, c.rdb, keys, quantity, income.StringFixed(2), int64(markerTTL.Seconds())).Result()
	if err != nil {
		return false, fmt.Errorf("record sale script failed: %w", err)
	}

	counted, ok := result.(int64)
	if !ok {
		return false, fmt.Errorf("unexpected script result type")
	}

	return counted == 1, nil
}

// GetSalesTotals reads the live counters. An empty sellerEmail reads the
// storefront-wide totals.
func (c *Client) GetSalesTotals(ctx context.Context, sellerEmail string) (*models.SalesSummary, error) {
	result, err := c.rdb.HGetAll(ctx, salesKey(sellerEmail)).Result()
	if err != nil {
		return nil, err
	}

	summary := &models.SalesSummary{Income: decimal.Zero}
	if len(result) == 0 {
		return summary, nil
	}

	summary.Orders, _ = strconv.ParseInt(result["orders"], 10, 64)
	summary.Quantity, _ = strconv.ParseInt(result["quantity"], 10, 64)
	if income, err := decimal.NewFromString(result["income"]); err == nil {
		summary.Income = income.Round(2)
	}

	return summary, nil
}
