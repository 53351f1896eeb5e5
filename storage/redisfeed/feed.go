package redisfeed

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"

	"github.com/edugrade/portal/core"
	"github.com/edugrade/portal/core/activity"
)

const keyPrefix = "activity:" // List: activity:{audience} -> JSON events, newest first

// Feed keeps the last `length` events of each audience in a capped redis list.
type Feed struct {
	client *redis.Client
	length int64
}

var _ activity.Feed = (*Feed)(nil)

func New(client *redis.Client, length int64) *Feed {
	if length <= 0 {
		length = activity.DefaultLimit
	}
	return &Feed{client: client, length: length}
}

// Connect opens a client from the redis config and checks the server answers.
func Connect(ctx context.Context, conf core.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Address,
		Password: conf.Password,
		DB:       conf.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "pinging redis")
	}
	return client, nil
}

func audienceKey(audience string) string {
	return keyPrefix + audience
}

func (f *Feed) Publish(ctx context.Context, evt activity.Event) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return errors.Wrap(err, "encoding event")
	}
	key := audienceKey(evt.Audience)
	pipe := f.client.TxPipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, f.length-1)
	if _, err = pipe.Exec(ctx); err != nil {
		return errors.Wrap(err, "pushing event")
	}
	return nil
}

func (f *Feed) Recent(ctx context.Context, audience string, since time.Time, limit int) ([]activity.Event, error) {
	stop := f.length - 1
	if limit > 0 && since.IsZero() {
		stop = int64(limit) - 1
	}
	raws, err := f.client.LRange(ctx, audienceKey(audience), 0, stop).Result()
	if err != nil {
		return nil, errors.Wrap(err, "reading events")
	}

	evts := make([]activity.Event, 0, len(raws))
	for _, raw := range raws {
		if limit > 0 && len(evts) == limit {
			break
		}
		var evt activity.Event
		if err = json.Unmarshal([]byte(raw), &evt); err != nil {
			continue // skip foreign entries
		}
		if !since.IsZero() && !evt.At.After(since) {
			break
		}
		evts = append(evts, evt)
	}
	return evts, nil
}
