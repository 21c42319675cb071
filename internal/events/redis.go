package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisRelay shares resolved mutations between server instances over redis pub/sub,
// so every instance refreshes its list when any of them mutates the store.
type RedisRelay struct {
	rc      *redis.Client
	channel string
	origin  string
	local   *Broker
	logger  *slog.Logger
}

func NewRedisRelay(rc *redis.Client, channel string, local *Broker, logger *slog.Logger) *RedisRelay {
	return &RedisRelay{
		rc:      rc,
		channel: channel,
		origin:  uuid.NewString(),
		local:   local,
		logger:  logger,
	}
}

// Origin identifies this instance on the shared channel.
func (r *RedisRelay) Origin() string {
	return r.origin
}

// relayQueueSize bounds the mutations waiting for redis. Beyond it they are dropped.
const relayQueueSize = 256

// Forward publishes locally resolved mutations to redis until ctx is done.
// A slow or unreachable redis never holds up the local broker: mutations that
// do not fit the queue are dropped and logged.
func (r *RedisRelay) Forward(ctx context.Context) {
	ch, unsubscribe := r.local.Subscribe()
	defer unsubscribe()

	queue := make(chan Mutation, relayQueueSize)
	go r.publish(ctx, queue)

	for {
		select {
		case <-ctx.Done():
			return
		case m := <-ch:
			if m.Phase != PhaseResolved || m.Origin != "" {
				continue
			}
			m.Origin = r.origin
			select {
			case queue <- m:
			default:
				r.logger.Warn("relay queue full, dropping mutation", "action", m.Action, "token", m.Token)
			}
		}
	}
}

func (r *RedisRelay) publish(ctx context.Context, queue <-chan Mutation) {
	for {
		select {
		case <-ctx.Done():
			return
		case m := <-queue:
			data, err := json.Marshal(m)
			if err != nil {
				r.logger.Error("marshal mutation", "error", err)
				continue
			}
			if err := r.rc.Publish(ctx, r.channel, data).Err(); err != nil {
				r.logger.Error("publish mutation", "error", err, "channel", r.channel)
			}
		}
	}
}

// Run delivers mutations resolved by other instances to the local broker until ctx is done.
func (r *RedisRelay) Run(ctx context.Context) {
	for {
		sub := r.rc.Subscribe(ctx, r.channel)
		ch := sub.Channel()
	recv:
		for {
			select {
			case <-ctx.Done():
				sub.Close()
				return
			case msg, ok := <-ch:
				if !ok {
					break recv
				}
				var m Mutation
				if err := json.Unmarshal([]byte(msg.Payload), &m); err != nil {
					r.logger.Error("unable to parse mutation", "error", err)
					continue
				}
				if m.Origin == r.origin {
					continue
				}
				if err := r.local.Publish(ctx, m); err != nil {
					r.logger.Warn("deliver mutation", "error", err)
				}
			}
		}
		sub.Close()
		if ctx.Err() != nil {
			return
		}
		r.logger.Error("pubsub channel closed, reconnecting", "channel", r.channel)
		time.Sleep(time.Second)
	}
}
