package bloom

import "context"

// bitSetProvider abstracts the bit set backend used by the filter.
type bitSetProvider interface {
	set(ctx context.Context, offsets []uint) error
	check(ctx context.Context, offsets []uint) (bool, error)
}
