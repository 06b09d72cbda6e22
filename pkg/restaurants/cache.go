package restaurants

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/angelmondragon/shoppingcart/pkg/logger"
	pkgredis "github.com/angelmondragon/shoppingcart/pkg/redis"
	"github.com/angelmondragon/shoppingcart/pkg/types"
)

// Directory is the restaurant surface used by the cart service.
type Directory interface {
	GetLatLng(ctx context.Context, restaurantTmplID int) (*types.GeographyPoint, error)
	GetResumes(ctx context.Context, ids []int) ([]Resume, error)
}

// CachedDirectory keeps known restaurant positions in redis. Cache failures
// never fail a request; the call falls through to the restaurant service.
type CachedDirectory struct {
	next  Directory
	cache pkgredis.Cache
	ttl   time.Duration
	logg  *logger.Logger
}

func NewCachedDirectory(next Directory, cache pkgredis.Cache, ttl time.Duration, logg *logger.Logger) (*CachedDirectory, error) {
	if next == nil {
		return nil, errors.New("restaurant directory required")
	}
	if cache == nil {
		return nil, errors.New("cache required")
	}
	if ttl <= 0 {
		return nil, errors.New("cache ttl must be positive")
	}
	return &CachedDirectory{next: next, cache: cache, ttl: ttl, logg: logg}, nil
}

func (d *CachedDirectory) GetLatLng(ctx context.Context, restaurantTmplID int) (*types.GeographyPoint, error) {
	key := d.cache.RestaurantLocationKey(restaurantTmplID)

	raw, err := d.cache.Get(ctx, key)
	switch {
	case err == nil:
		var point types.GeographyPoint
		if decodeErr := json.Unmarshal([]byte(raw), &point); decodeErr == nil && point.Valid() {
			return &point, nil
		}
		d.warn(ctx, key, "discarding unreadable cached restaurant location")
	case !errors.Is(err, pkgredis.ErrCacheMiss):
		d.warn(ctx, key, "restaurant location cache read failed: "+err.Error())
	}

	point, err := d.next.GetLatLng(ctx, restaurantTmplID)
	if err != nil || point == nil {
		return point, err
	}

	payload, err := json.Marshal(point)
	if err == nil {
		err = d.cache.Set(ctx, key, string(payload), d.ttl)
	}
	if err != nil {
		d.warn(ctx, key, "restaurant location cache write failed: "+err.Error())
	}
	return point, nil
}

func (d *CachedDirectory) GetResumes(ctx context.Context, ids []int) ([]Resume, error) {
	return d.next.GetResumes(ctx, ids)
}

func (d *CachedDirectory) warn(ctx context.Context, key, msg string) {
	if d.logg == nil {
		return
	}
	d.logg.Warn(d.logg.WithField(ctx, "cache_key", key), msg)
}
