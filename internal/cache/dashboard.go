package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"github.com/imobflow/imob-crm-api/internal/metrics"
)

// Dashboard guarda os agregados do dashboard no redis. Com client nulo o
// cache fica desligado e as consultas vão direto ao banco.
type Dashboard struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

func NewClient(addr, password string, db int, logger zerolog.Logger) *redis.Client {
	if addr == "" {
		logger.Info().Msg("cache: redis desabilitado (REDIS_ADDR vazio)")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn().Err(err).Msg("cache: redis inacessível, cache desligado")
		return nil
	}

	return client
}

func NewDashboard(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *Dashboard {
	return &Dashboard{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func (d *Dashboard) Enabled() bool {
	return d != nil && d.client != nil
}

// SummaryKey monta a chave do resumo: dashboard:{escopo}:{período}
func SummaryKey(userID uint, period, from, to string) string {
	scope := "all"
	if userID != 0 {
		scope = fmt.Sprintf("user:%d", userID)
	}
	if period == "custom" {
		return fmt.Sprintf("dashboard:%s:custom:%s:%s", scope, from, to)
	}
	return fmt.Sprintf("dashboard:%s:%s", scope, period)
}

func (d *Dashboard) Get(ctx context.Context, key string, dest any) bool {
	if !d.Enabled() {
		return false
	}

	raw, err := d.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			d.logger.Warn().Err(err).Str("key", key).Msg("cache: falha no GET")
		}
		metrics.CacheMissesTotal.Inc()
		return false
	}

	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		metrics.CacheMissesTotal.Inc()
		return false
	}

	metrics.CacheHitsTotal.Inc()
	return true
}

func (d *Dashboard) Set(ctx context.Context, key string, value any) {
	if !d.Enabled() {
		return
	}

	b, err := json.Marshal(value)
	if err != nil {
		return
	}

	if err := d.client.Set(ctx, key, b, d.ttl).Err(); err != nil {
		d.logger.Warn().Err(err).Str("key", key).Msg("cache: falha no SET")
	}
}

// Invalidate derruba as chaves de dashboard do escopo após uma mutação de
// cliente, compromisso, visita ou venda.
func (d *Dashboard) Invalidate(ctx context.Context, userID uint) {
	if !d.Enabled() {
		return
	}

	patterns := []string{"dashboard:all:*"}
	if userID != 0 {
		patterns = append(patterns, fmt.Sprintf("dashboard:user:%d:*", userID))
	}

	for _, pattern := range patterns {
		iter := d.client.Scan(ctx, 0, pattern, 100).Iterator()
		for iter.Next(ctx) {
			if err := d.client.Del(ctx, iter.Val()).Err(); err != nil {
				d.logger.Warn().Err(err).Str("key", iter.Val()).Msg("cache: falha no DEL")
			}
		}
		if err := iter.Err(); err != nil {
			d.logger.Warn().Err(err).Str("pattern", pattern).Msg("cache: falha no SCAN")
		}
	}
}
