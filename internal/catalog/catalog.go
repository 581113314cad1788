// Package catalog keeps the picker's champion metadata, fed by the prediction
// service's feature map. The draft UI degrades to a loading state while the catalog
// is empty instead of crashing.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/draftwise/draftwise/internal/draft"
	"github.com/draftwise/draftwise/internal/prediction"
)

// ErrNotReady means the feature map has never loaded. Handlers translate it to 503 so
// the picker shows its disabled/loading state.
var ErrNotReady = errors.New("champion catalog not loaded")

// Fetcher is the slice of the prediction client the catalog needs.
type Fetcher interface {
	FeatureMap(ctx context.Context) (map[string]prediction.ChampionInfo, error)
}

type Catalog struct {
	fetch Fetcher
	ttl   time.Duration
	log   *zap.Logger

	group singleflight.Group

	mu       sync.RWMutex
	byKey    map[int]draft.Champion
	ordered  []draft.Champion
	loadedAt time.Time
}

func New(fetch Fetcher, ttl time.Duration, log *zap.Logger) *Catalog {
	return &Catalog{fetch: fetch, ttl: ttl, log: log}
}

// Champions returns every known champion sorted by name. A stale catalog is served
// as-is while a refresh fails; an empty one returns ErrNotReady.
func (c *Catalog) Champions(ctx context.Context) ([]draft.Champion, error) {
	if err := c.ensure(ctx); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]draft.Champion, len(c.ordered))
	copy(out, c.ordered)
	return out, nil
}

// ByRole returns the champions eligible for one role slot, sorted by name.
func (c *Catalog) ByRole(ctx context.Context, role draft.Role) ([]draft.Champion, error) {
	all, err := c.Champions(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, champ := range all {
		if champ.PlaysRole(role) {
			out = append(out, champ)
		}
	}
	return out, nil
}

// ByKey looks up one champion by its numeric key.
func (c *Catalog) ByKey(ctx context.Context, key int) (draft.Champion, error) {
	if err := c.ensure(ctx); err != nil {
		return draft.Champion{}, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	champ, ok := c.byKey[key]
	if !ok {
		return draft.Champion{}, fmt.Errorf("unknown champion key %d", key)
	}
	return champ, nil
}

// Ready reports whether the catalog has ever loaded.
func (c *Catalog) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.byKey != nil
}

// ensure refreshes the catalog when empty or past its TTL. Concurrent callers share
// one fetch via singleflight.
func (c *Catalog) ensure(ctx context.Context) error {
	c.mu.RLock()
	loaded := c.byKey != nil
	fresh := loaded && time.Since(c.loadedAt) < c.ttl
	c.mu.RUnlock()
	if fresh {
		return nil
	}

	_, err, _ := c.group.Do("feature-map", func() (any, error) {
		return nil, c.refresh(ctx)
	})
	if err != nil {
		if loaded {
			// Keep serving the stale catalog; the picker stays usable.
			c.log.Warn("feature map refresh failed, serving stale catalog", zap.Error(err))
			return nil
		}
		return fmt.Errorf("%w: %w", ErrNotReady, err)
	}
	return nil
}

func (c *Catalog) refresh(ctx context.Context) error {
	fm, err := c.fetch.FeatureMap(ctx)
	if err != nil {
		return err
	}

	byKey := make(map[int]draft.Champion, len(fm))
	ordered := make([]draft.Champion, 0, len(fm))
	for id, info := range fm {
		champ := fromInfo(id, info)
		byKey[champ.Key] = champ
		ordered = append(ordered, champ)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Name < ordered[j].Name })

	c.mu.Lock()
	c.byKey = byKey
	c.ordered = ordered
	c.loadedAt = time.Now()
	c.mu.Unlock()

	c.log.Info("champion catalog loaded", zap.Int("champions", len(ordered)))
	return nil
}

func fromInfo(id string, info prediction.ChampionInfo) draft.Champion {
	roles := make([]draft.Role, 0, len(info.Roles))
	for _, r := range info.Roles {
		roles = append(roles, draft.Role(r))
	}
	return draft.Champion{
		ID:    id,
		Key:   info.Key,
		Name:  info.Name,
		Roles: roles,
		Tags: draft.ChampionTags{
			DamageType: info.DamageType,
			Mobility:   info.Mobility,
			Engage:     info.Engage,
			CC:         info.CC,
			Sustain:    info.Sustain,
		},
	}
}
