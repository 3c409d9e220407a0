package store

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
)

// Collection stores JSON-encoded values of one type under a common key prefix.
type Collection[T any] struct {
	kv     KV
	prefix string
}

func NewCollection[T any](kv KV, prefix string) *Collection[T] {
	return &Collection[T]{kv: kv, prefix: prefix + ":"}
}

func (c *Collection[T]) key(id string) string {
	return c.prefix + id
}

func (c *Collection[T]) Get(ctx context.Context, id string) (*T, error) {
	b, err := c.kv.Get(ctx, c.key(id))
	if err != nil {
		return nil, err
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", c.key(id))
	}
	return &v, nil
}

func (c *Collection[T]) Put(ctx context.Context, id string, v *T) error {
	b, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "failed to encode %s", c.key(id))
	}
	return c.kv.Put(ctx, c.key(id), b)
}

func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	return c.kv.Delete(ctx, c.key(id))
}

func (c *Collection[T]) List(ctx context.Context) ([]*T, error) {
	return c.list(ctx, c.prefix)
}

// ListGroup returns the values whose id starts with group followed by ":".
func (c *Collection[T]) ListGroup(ctx context.Context, group string) ([]*T, error) {
	return c.list(ctx, c.key(group)+":")
}

// GroupID builds an id that ListGroup can find by group.
func GroupID(group, id string) string {
	return group + ":" + id
}

func (c *Collection[T]) list(ctx context.Context, prefix string) ([]*T, error) {
	raw, err := c.kv.List(ctx, prefix)
	if err != nil {
		return nil, err
	}
	values := make([]*T, 0, len(raw))
	for _, b := range raw {
		var v T
		if err := json.Unmarshal(b, &v); err != nil {
			return nil, errors.Wrapf(err, "failed to decode entry under %s", prefix)
		}
		values = append(values, &v)
	}
	return values, nil
}
