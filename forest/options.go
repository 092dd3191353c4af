package forest

import "github.com/forestrie/go-segforest/segtree"

// Options configures a Forest and the arena it owns.
type Options struct {
	capacity    int
	recycling   bool
	serviceName string
}

type Option func(*Options)

// WithCapacity preallocates room for nodes records in the arena.
func WithCapacity(nodes int) Option {
	return func(o *Options) {
		o.capacity = nodes
	}
}

// WithRecycling enables node reuse in the arena, see segtree.WithRecycling.
func WithRecycling() Option {
	return func(o *Options) {
		o.recycling = true
	}
}

// WithServiceName names the logger used when New is not given one. The
// process wide logger must have been initialized with logger.New.
func WithServiceName(name string) Option {
	return func(o *Options) {
		o.serviceName = name
	}
}

// NewOptions applies opts over the defaults
func NewOptions(opts ...Option) Options {
	o := Options{serviceName: "forest"}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o Options) arenaOptions() []segtree.Option {
	var opts []segtree.Option
	if o.capacity > 0 {
		opts = append(opts, segtree.WithCapacity(o.capacity))
	}
	if o.recycling {
		opts = append(opts, segtree.WithRecycling())
	}
	return opts
}
