package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"medicine-reminder/internal/platform/logger"
	"medicine-reminder/internal/ports/druginfo"
)

const DefaultTTL = 24 * time.Hour

// Store es lo mínimo de redis que usamos (*redis.Client lo implementa).
type Store interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// Lookup cachea los aciertos de otro druginfo.Lookup. Los "no encontrado" no se cachean
// y un redis caído solo degrada a pass-through.
type Lookup struct {
	next  druginfo.Lookup
	store Store
	ttl   time.Duration
	log   logger.Logger
}

var _ druginfo.Lookup = (*Lookup)(nil)

func New(next druginfo.Lookup, store Store, ttl time.Duration, log logger.Logger) *Lookup {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Lookup{
		next:  next,
		store: store,
		ttl:   ttl,
		log:   log.With(logger.Fields{"component": "druginfo_cache"}),
	}
}

func (l *Lookup) ByName(ctx context.Context, query string) (druginfo.InfoRecord, error) {
	return l.cached(ctx, "druginfo:name:"+key(query), strings.TrimSpace(query), func() (druginfo.InfoRecord, error) {
		return l.next.ByName(ctx, query)
	})
}

func (l *Lookup) ByBarcode(ctx context.Context, code string) (druginfo.InfoRecord, error) {
	return l.cached(ctx, "druginfo:barcode:"+key(code), strings.TrimSpace(code), func() (druginfo.InfoRecord, error) {
		return l.next.ByBarcode(ctx, code)
	})
}

// cached normaliza también los aciertos: una entrada vieja o cargada a mano
// puede traer campos vacíos.
func (l *Lookup) cached(ctx context.Context, k, fallbackName string, load func() (druginfo.InfoRecord, error)) (druginfo.InfoRecord, error) {
	if l.store == nil {
		return load()
	}

	raw, err := l.store.Get(ctx, k).Bytes()
	switch {
	case err == nil:
		var rec druginfo.InfoRecord
		if jerr := json.Unmarshal(raw, &rec); jerr == nil {
			return druginfo.Normalize(rec, fallbackName), nil
		}
		l.log.Warn("corrupt cache entry", logger.Fields{"key": k})
	case !errors.Is(err, redis.Nil):
		l.log.Warn("cache get failed", logger.Fields{"key": k, "err": err})
	}

	rec, err := load()
	if err != nil {
		return druginfo.InfoRecord{}, err
	}

	b, err := json.Marshal(rec)
	if err == nil {
		err = l.store.Set(ctx, k, b, l.ttl).Err()
	}
	if err != nil {
		l.log.Warn("cache set failed", logger.Fields{"key": k, "err": err})
	}
	return rec, nil
}

func key(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
