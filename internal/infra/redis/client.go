// Package redis publishes relayed events on Redis pub/sub channels.
package redis

import (
	"context"
	"fmt"

	"github.com/gabapcia/insightwatch/internal/relay"

	redis "github.com/redis/go-redis/v9"
)

type client struct {
	conn   *redis.Client
	prefix string
}

var _ relay.Publisher = (*client)(nil)

// channel returns the pub/sub channel for topic. Without a prefix the topic is used as is.
func (c *client) channel(topic string) string {
	if c.prefix == "" {
		return topic
	}

	return c.prefix + ":" + topic
}

// Publish sends payload to the channel of topic.
func (c *client) Publish(ctx context.Context, topic string, payload []byte) error {
	channel := c.channel(topic)
	if err := c.conn.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", channel, err)
	}

	return nil
}

func (c *client) Close() error {
	return c.conn.Close()
}

// NewClient connects to addr and checks the connection with a PING.
func NewClient(ctx context.Context, addr, username, password string, db int, prefix string) (*client, error) {
	conn := redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: username,
		Password: password,
		DB:       db,
	})

	if err := conn.Ping(ctx).Err(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return &client{
		conn:   conn,
		prefix: prefix,
	}, nil
}
