package wait

import (
	"context"
	"errors"
	"fmt"

	"todo_e2e/domain/entities"
	"todo_e2e/domain/interfaces"
)

// Condition is a named check against the browser state. A nil error means
// the condition holds and Value is its result. An error wrapping
// entities.ErrNotReady, entities.ErrNotFound or entities.ErrStaleElement is a
// non-match; any other error is a fault.
type Condition[T any] struct {
	Description string
	Check       func(ctx context.Context, s interfaces.Session) (T, error)
}

func (c Condition[T]) String() string {
	return c.Description
}

// NotReady builds a non-match reason
func NotReady(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", entities.ErrNotReady, fmt.Sprintf(format, args...))
}

// Not inverts a condition. It holds while the inner condition reports a
// non-match or finds nothing. A stale inner handle is still a non-match:
// nothing can be said about a detached node.
func Not[T any](c Condition[T]) Condition[bool] {
	return Condition[bool]{
		Description: "not " + c.Description,
		Check: func(ctx context.Context, s interfaces.Session) (bool, error) {
			_, err := c.Check(ctx, s)
			switch {
			case err == nil:
				return false, NotReady("%s still holds", c.Description)
			case isStale(err):
				return false, err
			case entities.IsTransient(err):
				return true, nil
			default:
				return false, err
			}
		},
	}
}

// Matched drops the value of a condition so it can be combined with And
func Matched[T any](c Condition[T]) Condition[bool] {
	return Condition[bool]{
		Description: c.Description,
		Check: func(ctx context.Context, s interfaces.Session) (bool, error) {
			if _, err := c.Check(ctx, s); err != nil {
				return false, err
			}
			return true, nil
		},
	}
}

// And holds when every condition holds; evaluation stops at the first miss
func And(conds ...Condition[bool]) Condition[bool] {
	desc := ""
	for i, c := range conds {
		if i > 0 {
			desc += " and "
		}
		desc += c.Description
	}
	return Condition[bool]{
		Description: desc,
		Check: func(ctx context.Context, s interfaces.Session) (bool, error) {
			for _, c := range conds {
				if _, err := c.Check(ctx, s); err != nil {
					return false, err
				}
			}
			return true, nil
		},
	}
}

func isStale(err error) bool {
	return errors.Is(err, entities.ErrStaleElement)
}
