package forest

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/forestrie/go-segforest/segtree"
	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
)

// CheckpointVersionV1 identifies the encoding produced by Forest.Checkpoint.
const CheckpointVersionV1 uint8 = 1

var (
	checkpointEncMode cbor.EncMode
	checkpointDecMode cbor.DecMode
)

func init() {
	var err error
	if checkpointEncMode, err = cbor.CoreDetEncOptions().EncMode(); err != nil {
		panic(err)
	}
	// A forest may hold more trees than the default array limit allows.
	if checkpointDecMode, err = (cbor.DecOptions{MaxArrayElements: math.MaxInt32}).DecMode(); err != nil {
		panic(err)
	}
}

type checkpointV1 struct {
	Version uint8       `cbor:"1,keyasint"`
	N       int         `cbor:"2,keyasint"`
	IDs     []uuid.UUID `cbor:"3,keyasint"`
	Arena   []byte      `cbor:"4,keyasint"`
}

// Checkpoint encodes every tree of the forest together with its id.
func (f *Forest[A, T]) Checkpoint() ([]byte, error) {
	ids := f.IDs()
	trees := make([]segtree.Tree, 0, len(ids))
	for _, id := range ids {
		trees = append(trees, f.trees[id])
	}
	arena, err := f.arena.Checkpoint(trees...)
	if err != nil {
		return nil, err
	}

	return checkpointEncMode.Marshal(checkpointV1{
		Version: CheckpointVersionV1,
		N:       f.n,
		IDs:     ids,
		Arena:   arena,
	})
}

// Restore recreates a forest from a Checkpoint. The trees keep their ids.
// Malformed data is reported as segtree.ErrCheckpointInvalid.
func Restore[A, T any](
	log logger.Logger, model segtree.Model[A, T], data []byte, opts ...Option,
) (*Forest[A, T], error) {
	var cp checkpointV1
	if err := checkpointDecMode.Unmarshal(data, &cp); err != nil {
		return nil, errors.WithSecondaryError(errors.Wrap(segtree.ErrCheckpointInvalid, "decoding forest checkpoint"), err)
	}
	if cp.Version != CheckpointVersionV1 {
		return nil, errors.Wrapf(segtree.ErrCheckpointInvalid, "forest version %d", cp.Version)
	}
	if cp.N < 1 {
		return nil, errors.Wrapf(segtree.ErrCheckpointInvalid, "universe [1, %d]", cp.N)
	}

	f, err := New(log, model, cp.N, opts...)
	if err != nil {
		return nil, err
	}
	arena, trees, err := segtree.RestoreArena(model, cp.Arena, f.opts.arenaOptions()...)
	if err != nil {
		return nil, err
	}
	if len(trees) != len(cp.IDs) {
		return nil, errors.Wrapf(segtree.ErrCheckpointInvalid, "%d ids for %d trees", len(cp.IDs), len(trees))
	}
	for i, t := range trees {
		if t.Size() != cp.N {
			return nil, errors.Wrapf(segtree.ErrCheckpointInvalid, "tree %s over [1, %d]", cp.IDs[i], t.Size())
		}
		if _, dup := f.trees[cp.IDs[i]]; dup {
			return nil, errors.Wrapf(segtree.ErrCheckpointInvalid, "duplicate id %s", cp.IDs[i])
		}
		f.trees[cp.IDs[i]] = t
	}
	f.arena = arena
	f.log.Infof("restore: trees=%d n=%d", len(trees), cp.N)
	return f, nil
}
