// ABOUTME: Redis-backed MetricStore using one hash per entity plus ranking sorted sets
// ABOUTME: A refresh is written in a MULTI/EXEC pipeline so readers never see a partial update

package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"mai-analytics-api/core/domain"
	coreerrors "mai-analytics-api/core/errors"
	"mai-analytics-api/pkg/config"
)

const keyPrefix = "mai"

// Store implements interfaces.MetricStore using Redis
type Store struct {
	client *redis.Client
}

// NewStore connects to Redis and verifies the connection
func NewStore(cfg config.RedisConfig) (*Store, error) {
	if cfg.Address == "" {
		return nil, errors.New("redis address cannot be empty")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return &Store{client: client}, nil
}

// entityKey is the hash holding the meta fields of one entity
func entityKey(ref domain.EntityRef) string {
	return fmt.Sprintf("%s:%s:%d", keyPrefix, ref.Type, ref.ID)
}

// rankKey is the sorted set ranking entities of one type by one kind
func rankKey(entityType domain.EntityType, kind domain.MetricKind) string {
	return fmt.Sprintf("%s:rank:%s:%s", keyPrefix, entityType, kind)
}

// Load returns the metric of ref, or nil if the hash does not exist
func (s *Store) Load(ctx context.Context, ref domain.EntityRef) (*domain.ViewMetric, error) {
	fields, err := s.client.HGetAll(ctx, entityKey(ref)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load metric: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	var metric domain.ViewMetric
	for key, raw := range fields {
		value, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("corrupt %s for %s: %w", key, ref, err)
		}
		switch key {
		case domain.KeyViews:
			metric.Views, metric.HasViews = value, true
		case domain.KeyTrending:
			metric.Trending, metric.HasTrending = value, true
		case domain.KeyUpdated:
			metric.Updated = value
		}
	}
	return &metric, nil
}

// Save writes the hash fields and ranking scores in one transaction
func (s *Store) Save(ctx context.Context, ref domain.EntityRef, counts domain.RefreshResult, updated int64) error {
	if err := ref.Validate(); err != nil {
		return &coreerrors.ValidationError{Field: "entity", Message: err.Error()}
	}

	values := make([]interface{}, 0, 2*(len(counts)+1))
	for kind, count := range counts {
		values = append(values, kind.MetaKey(), count)
	}
	values = append(values, domain.KeyUpdated, updated)

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, entityKey(ref), values...)
		for kind, count := range counts {
			pipe.ZAdd(ctx, rankKey(ref.Type, kind), redis.Z{
				Score:  float64(count),
				Member: strconv.FormatUint(ref.ID, 10),
			})
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save metric: %w", err)
	}
	return nil
}

// Top reads the ranking sorted set, highest score first. Redis orders equal
// scores by member string, so every member tied with the last one is fetched
// and the ties are reordered by numeric id.
func (s *Store) Top(ctx context.Context, entityType domain.EntityType, kind domain.MetricKind, limit int) ([]domain.RankedEntity, error) {
	if limit <= 0 {
		return []domain.RankedEntity{}, nil
	}

	key := rankKey(entityType, kind)
	members, err := s.client.ZRevRangeWithScores(ctx, key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to rank entities: %w", err)
	}

	if len(members) == limit {
		cutoff := members[len(members)-1].Score
		score := strconv.FormatFloat(cutoff, 'f', -1, 64)
		tied, err := s.client.ZRangeByScoreWithScores(ctx, key, &redis.ZRangeBy{Min: score, Max: score}).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to rank entities: %w", err)
		}
		above := members[:0]
		for _, z := range members {
			if z.Score > cutoff {
				above = append(above, z)
			}
		}
		members = append(above, tied...)
	}

	return rankMembers(entityType, members, limit), nil
}

// rankMembers converts sorted set members to entities ordered by count
// descending then id ascending, truncated to limit
func rankMembers(entityType domain.EntityType, members []redis.Z, limit int) []domain.RankedEntity {
	ranked := make([]domain.RankedEntity, 0, len(members))
	for _, z := range members {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		id, err := strconv.ParseUint(member, 10, 64)
		if err != nil {
			continue
		}
		ranked = append(ranked, domain.RankedEntity{
			Ref:   domain.EntityRef{Type: entityType, ID: id},
			Count: int64(z.Score),
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Ref.ID < ranked[j].Ref.ID
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// Close closes the Redis connection
func (s *Store) Close() error {
	return s.client.Close()
}
