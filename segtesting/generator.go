package segtesting

import (
	"math/rand"

	"github.com/samber/lo"
)

type OpKind uint8

const (
	OpAdd OpKind = iota
	OpSet
	OpQuery
)

// Op is one generated operation over [L, R]. Delta is the tag of an OpAdd
// and the value of an OpSet (which always has L == R).
type Op struct {
	Kind  OpKind
	L, R  int
	Delta int64
}

type GeneratorConfig struct {
	// N is the size of the index universe.
	N int
	// MaxDelta bounds the magnitude of generated deltas and values.
	MaxDelta int64
	// NonNegative restricts deltas to [0, MaxDelta], as count models need.
	NonNegative bool
	// QueryRatio is the share of OpQuery in Ops, in percent.
	QueryRatio int
	// SetRatio is the share of OpSet in Ops, in percent.
	SetRatio int
}

// Generator produces reproducible operation sequences. We seed the RNG so
// that a failing sequence can be replayed from its seed.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

func NewGenerator(seed int64, cfg GeneratorConfig) *Generator {
	if cfg.MaxDelta <= 0 {
		cfg.MaxDelta = 10
	}
	return &Generator{cfg: cfg, rng: rand.New(rand.NewSource(seed))}
}

// Range returns a random non-empty range inside [1, N].
func (g *Generator) Range() (int, int) {
	l := 1 + g.rng.Intn(g.cfg.N)
	r := 1 + g.rng.Intn(g.cfg.N)
	if l > r {
		l, r = r, l
	}
	return l, r
}

// Position returns a random position in [1, N].
func (g *Generator) Position() int {
	return 1 + g.rng.Intn(g.cfg.N)
}

// Delta returns a random delta within the configured bounds.
func (g *Generator) Delta() int64 {
	if g.cfg.NonNegative {
		return g.rng.Int63n(g.cfg.MaxDelta + 1)
	}
	return g.rng.Int63n(2*g.cfg.MaxDelta+1) - g.cfg.MaxDelta
}

// Intn exposes the generator's RNG for test specific choices.
func (g *Generator) Intn(n int) int { return g.rng.Intn(n) }

// Op returns one random operation.
func (g *Generator) Op() Op {
	roll := g.rng.Intn(100)
	switch {
	case roll < g.cfg.QueryRatio:
		l, r := g.Range()
		return Op{Kind: OpQuery, L: l, R: r}
	case roll < g.cfg.QueryRatio+g.cfg.SetRatio:
		pos := g.Position()
		return Op{Kind: OpSet, L: pos, R: pos, Delta: g.Delta()}
	default:
		l, r := g.Range()
		return Op{Kind: OpAdd, L: l, R: r, Delta: g.Delta()}
	}
}

// Ops returns count random operations.
func (g *Generator) Ops(count int) []Op {
	return lo.Times(count, func(int) Op { return g.Op() })
}
