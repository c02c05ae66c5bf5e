package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Stepheeeen/flairecosystem/internal/models"
)

type CacheService interface {
	// Company resolution caching
	GetCompanyByHost(ctx context.Context, host string) (*models.Company, error)
	SetCompanyByHost(ctx context.Context, host string, company *models.Company, ttl time.Duration) error
	InvalidateCompanyCache(ctx context.Context, companyID uuid.UUID) error

	// Product caching
	GetProduct(ctx context.Context, companyID, productID uuid.UUID) (*models.Product, error)
	SetProduct(ctx context.Context, companyID uuid.UUID, product *models.Product, ttl time.Duration) error
	DeleteProduct(ctx context.Context, companyID, productID uuid.UUID) error

	// Rate limiting
	IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error)

	// Generic string operations for token management
	SetString(ctx context.Context, key string, value string, ttl time.Duration) error
	GetString(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	// Parse Redis URL to extract host:port if protocol is included
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	// Test initial connectivity
	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	}

	return &redisCacheService{client: client}
}

func (r *redisCacheService) GetCompanyByHost(ctx context.Context, host string) (*models.Company, error) {
	key := fmt.Sprintf("flair:company:host:%s", strings.ToLower(host))
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var company models.Company
	if err := json.Unmarshal(data, &company); err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *redisCacheService) SetCompanyByHost(ctx context.Context, host string, company *models.Company, ttl time.Duration) error {
	key := fmt.Sprintf("flair:company:host:%s", strings.ToLower(host))
	data, err := json.Marshal(company)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

// InvalidateCompanyCache drops every cached host entry resolving to the
// company, so status and branding changes take effect on the next request.
func (r *redisCacheService) InvalidateCompanyCache(ctx context.Context, companyID uuid.UUID) error {
	pattern := "flair:company:host:*"
	keys, err := r.client.Keys(ctx, pattern).Result()
	if err != nil {
		return err
	}

	for _, key := range keys {
		data, err := r.client.Get(ctx, key).Bytes()
		if err != nil {
			continue
		}
		var company models.Company
		if err := json.Unmarshal(data, &company); err != nil {
			continue
		}
		if company.ID == companyID {
			r.client.Del(ctx, key)
		}
	}
	return nil
}

func (r *redisCacheService) GetProduct(ctx context.Context, companyID, productID uuid.UUID) (*models.Product, error) {
	key := fmt.Sprintf("flair:product:%s:%s", companyID.String(), productID.String())
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var product models.Product
	if err := json.Unmarshal(data, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *redisCacheService) SetProduct(ctx context.Context, companyID uuid.UUID, product *models.Product, ttl time.Duration) error {
	key := fmt.Sprintf("flair:product:%s:%s", companyID.String(), product.ID.String())
	data, err := json.Marshal(product)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) DeleteProduct(ctx context.Context, companyID, productID uuid.UUID) error {
	key := fmt.Sprintf("flair:product:%s:%s", companyID.String(), productID.String())
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	cacheKey := fmt.Sprintf("flair:ratelimit:%s", key)
	count, err := r.client.Incr(ctx, cacheKey).Result()
	if err != nil {
		return true, err
	}

	// Set expiry on first request
	if count == 1 {
		r.client.Expire(ctx, cacheKey, window)
	}

	return count > int64(limit), nil
}

func (r *redisCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisCacheService) GetString(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil // cache miss
		}
		return "", err
	}
	return val, nil
}

func (r *redisCacheService) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}
