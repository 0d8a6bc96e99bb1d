package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/AchilleasB/school-portal/auth-service/internal/core/ports"
)

const subjectsNamespace = "subjects"

// CachedDirectory serves department subjects from Redis and delegates
// everything else to the wrapped directory. Cache failures fall through to
// the directory and are never returned to the caller.
//
// A ttl of zero or less disables the cache: every lookup reaches the
// directory, so registration sees the subjects current at that moment and
// fails when the directory does.
type CachedDirectory struct {
	ports.DirectoryService
	client RedisClient
	ttl    time.Duration
	logger *zap.Logger
}

var _ ports.DirectoryService = (*CachedDirectory)(nil)

func NewCachedDirectory(directory ports.DirectoryService, client RedisClient, ttl time.Duration, logger *zap.Logger) *CachedDirectory {
	return &CachedDirectory{
		DirectoryService: directory,
		client:           client,
		ttl:              ttl,
		logger:           logger,
	}
}

func (c *CachedDirectory) DepartmentSubjects(ctx context.Context, departmentID string) ([]ports.Subject, error) {
	if c.ttl <= 0 {
		return c.DirectoryService.DepartmentSubjects(ctx, departmentID)
	}

	cacheKey := key(subjectsNamespace, departmentID)

	cached, err := c.client.Get(ctx, cacheKey).Result()
	switch {
	case err == nil:
		var subjects []ports.Subject
		if jsonErr := json.Unmarshal([]byte(cached), &subjects); jsonErr == nil {
			return subjects, nil
		}
		c.logger.Warn("discarding corrupt subject cache entry", zap.String("department_id", departmentID))
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("subject cache read failed", zap.String("department_id", departmentID), zap.Error(err))
	}

	subjects, err := c.DirectoryService.DepartmentSubjects(ctx, departmentID)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(subjects); err == nil {
		if err := c.client.Set(ctx, cacheKey, payload, c.ttl).Err(); err != nil {
			c.logger.Warn("subject cache write failed", zap.String("department_id", departmentID), zap.Error(err))
		}
	}
	return subjects, nil
}
