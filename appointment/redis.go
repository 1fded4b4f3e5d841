package appointment

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	fieldID       = "id"
	fieldDateTime = "date_time"
	fieldCat      = "cat"
	fieldCatOwner = "cat_owner"
)

// RedisStore keeps each appointment in a hash, ordered by a sorted set scored
// by id, with one set of ids per booked timestamp for availability lookups.
type RedisStore struct {
	rdb    redis.UniversalClient
	prefix string
}

func NewRedisStore(rdb redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "appointments"
	}
	return &RedisStore{rdb: rdb, prefix: prefix}
}

var _ Store = (*RedisStore)(nil)

func (s *RedisStore) seqKey() string   { return s.prefix + ":seq" }
func (s *RedisStore) orderKey() string { return s.prefix + ":ids" }

func (s *RedisStore) itemKey(id int64) string {
	return s.prefix + ":item:" + strconv.FormatInt(id, 10)
}

func (s *RedisStore) slotKey(date DateTime) string {
	return s.prefix + ":slot:" + date.UTC().Format(time.RFC3339Nano)
}

func (s *RedisStore) List(ctx context.Context) ([]Appointment, error) {
	ids, err := s.rdb.ZRange(ctx, s.orderKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("zrange: %w", err)
	}

	cmds := make([]*redis.MapStringStringCmd, len(ids))
	_, err = s.rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = p.HGetAll(ctx, s.prefix+":item:"+id)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("pipelined: %w", err)
	}

	appointments := make([]Appointment, 0, len(ids))
	for _, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			// deleted between ZRANGE and HGETALL
			continue
		}
		appt, err := decodeHash(fields)
		if err != nil {
			return nil, err
		}
		appointments = append(appointments, appt)
	}
	return appointments, nil
}

func (s *RedisStore) Get(ctx context.Context, id int64) (Appointment, error) {
	return s.get(ctx, s.rdb, id)
}

type hashReader interface {
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
}

func (s *RedisStore) get(ctx context.Context, c hashReader, id int64) (Appointment, error) {
	fields, err := c.HGetAll(ctx, s.itemKey(id)).Result()
	if err != nil {
		return Appointment{}, fmt.Errorf("hgetall: %w", err)
	}
	if len(fields) == 0 {
		return Appointment{}, ErrNotFound
	}
	return decodeHash(fields)
}

func (s *RedisStore) Create(ctx context.Context, a Appointment) (Appointment, error) {
	id, err := s.rdb.Incr(ctx, s.seqKey()).Result()
	if err != nil {
		return Appointment{}, fmt.Errorf("incr: %w", err)
	}
	a.ID = id

	_, err = s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, s.itemKey(id), encodeHash(a))
		p.ZAdd(ctx, s.orderKey(), redis.Z{Score: float64(id), Member: id})
		p.SAdd(ctx, s.slotKey(a.DateTime), id)
		return nil
	})
	if err != nil {
		return Appointment{}, fmt.Errorf("tx pipelined: %w", err)
	}
	return a, nil
}

func (s *RedisStore) Update(ctx context.Context, id int64, a Appointment) error {
	key := s.itemKey(id)
	return s.watch(ctx, key, func(tx *redis.Tx) error {
		existing, err := s.get(ctx, tx, id)
		if err != nil {
			return err
		}
		a.ID = id
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.HSet(ctx, key, encodeHash(a))
			p.SRem(ctx, s.slotKey(existing.DateTime), id)
			p.SAdd(ctx, s.slotKey(a.DateTime), id)
			return nil
		})
		return err
	})
}

func (s *RedisStore) Delete(ctx context.Context, id int64) error {
	key := s.itemKey(id)
	return s.watch(ctx, key, func(tx *redis.Tx) error {
		existing, err := s.get(ctx, tx, id)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Del(ctx, key)
			p.ZRem(ctx, s.orderKey(), id)
			p.SRem(ctx, s.slotKey(existing.DateTime), id)
			return nil
		})
		return err
	})
}

func (s *RedisStore) IsBooked(ctx context.Context, date DateTime) (bool, error) {
	n, err := s.rdb.SCard(ctx, s.slotKey(date)).Result()
	if err != nil {
		return false, fmt.Errorf("scard: %w", err)
	}
	return n > 0, nil
}

const maxWatchRetries = 5

// watch runs fn in an optimistic transaction on key, retrying when another
// client modified the key first.
func (s *RedisStore) watch(ctx context.Context, key string, fn func(tx *redis.Tx) error) error {
	for range maxWatchRetries {
		err := s.rdb.Watch(ctx, fn, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil && !errors.Is(err, ErrNotFound) {
			return fmt.Errorf("watch: %w", err)
		}
		return err
	}
	return fmt.Errorf("watch %s: too many concurrent modifications", key)
}

func encodeHash(a Appointment) map[string]any {
	return map[string]any{
		fieldID:       a.ID,
		fieldDateTime: a.DateTime.UTC().Format(time.RFC3339Nano),
		fieldCat:      a.Cat,
		fieldCatOwner: a.CatOwner,
	}
}

func decodeHash(fields map[string]string) (Appointment, error) {
	id, err := strconv.ParseInt(fields[fieldID], 10, 64)
	if err != nil {
		return Appointment{}, fmt.Errorf("parse id: %w", err)
	}
	t, err := time.Parse(time.RFC3339Nano, fields[fieldDateTime])
	if err != nil {
		return Appointment{}, fmt.Errorf("parse date time: %w", err)
	}
	return Appointment{
		ID:       id,
		DateTime: NewDateTime(t),
		Cat:      fields[fieldCat],
		CatOwner: fields[fieldCatOwner],
	}, nil
}
