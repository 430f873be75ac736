package elgamal

import (
	"fmt"
	"math"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/vote-primitives/internal/params"
	"github.com/taurusgroup/vote-primitives/pkg/math/curve"
)

// DiscreteLogTable recovers v from v⋅G for v ∈ [0, max], using baby-step giant-step.
//
// It stores ⌈√(max+1)⌉ points, and a lookup costs as many group additions.
// A table is read only once built, and may be shared between goroutines.
type DiscreteLogTable struct {
	group curve.Curve
	max   uint64
	// step = ⌈√(max+1)⌉
	step uint64
	// baby maps the encoding of j⋅G to j, for j < step
	baby map[string]uint64
	// giant = -step⋅G
	giant curve.Point
}

// NewDiscreteLogTable precomputes a table for [0, max], with max at most params.MaxVoteLimit.
func NewDiscreteLogTable(group curve.Curve, max uint64) (*DiscreteLogTable, error) {
	if group == nil {
		return nil, ErrInvalidParams
	}
	if max > params.MaxVoteLimit {
		return nil, fmt.Errorf("%w: table bound %d exceeds %d", ErrInvalidParams, max, uint64(params.MaxVoteLimit))
	}
	if _, _, lt := new(saferith.Nat).SetUint64(max).CmpMod(group.Order()); lt != 1 {
		return nil, fmt.Errorf("%w: table bound %d is not below the order of %s", ErrInvalidParams, max, group.Name())
	}
	step := uint64(math.Ceil(math.Sqrt(float64(max) + 1)))
	table := &DiscreteLogTable{
		group: group,
		max:   max,
		step:  step,
		baby:  make(map[string]uint64, step),
	}

	G := group.NewBasePoint()
	P := group.NewPoint()
	for j := uint64(0); j < step; j++ {
		key, err := P.MarshalBinary()
		if err != nil {
			return nil, err
		}
		table.baby[string(key)] = j
		P = P.Add(G)
	}
	// P = step⋅G
	table.giant = P.Negate()
	return table, nil
}

// NewDiscreteLogTableFor builds a table covering every vote allowed by params.
func NewDiscreteLogTableFor(p Params) (*DiscreteLogTable, error) {
	if !p.valid() {
		return nil, ErrInvalidParams
	}
	return NewDiscreteLogTable(p.group, p.maxVote)
}

func (t *DiscreteLogTable) Max() uint64 {
	return t.max
}

// Solve returns v ∈ [0, max] such that P = v⋅G, or ErrDiscreteLog.
func (t *DiscreteLogTable) Solve(P curve.Point) (uint64, error) {
	if P == nil || !curve.Equal(P.Curve(), t.group) {
		return 0, fmt.Errorf("%w: point of another group", ErrDiscreteLog)
	}
	Q := P
	for i := uint64(0); i <= t.max/t.step; i++ {
		key, err := Q.MarshalBinary()
		if err != nil {
			return 0, err
		}
		if j, ok := t.baby[string(key)]; ok {
			v := i*t.step + j
			if v > t.max {
				break
			}
			return v, nil
		}
		// Q = P - (i+1)⋅step⋅G
		Q = Q.Add(t.giant)
	}
	return 0, ErrDiscreteLog
}
