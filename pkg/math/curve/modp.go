package curve

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/cronokirby/saferith"
)

// ErrInvalidModP is returned by NewModP when the parameters don't describe a
// prime order subgroup of ℤₚˣ.
var ErrInvalidModP = errors.New("curve: invalid ModP parameters")

// rfc3526Prime3072 is the 3072-bit MODP group of RFC 3526, §4.
const rfc3526Prime3072 = `
	FFFFFFFFFFFFFFFFC90FDAA22168C234C4C6628B80DC1CD129024E088A67CC74
	020BBEA63B139B22514A08798E3404DDEF9519B3CD3A431B302B0A6DF25F1437
	4FE1356D6D51C245E485B576625E7EC6F44C42E9A637ED6B0BFF5CB6F406B7ED
	EE386BFB5A899FA5AE9F24117C4B1FE649286651ECE45B3DC2007CB8A163BF05
	98DA48361C55D39A69163FA8FD24CF5F83655D23DCA3AD961C62F356208552BB
	9ED529077096966D670C354E4ABC9804F1746C08CA18217C32905E462E36CE3B
	E39E772C180E86039B2783A2EC07A28FB5C55DF06F4C52C9DE2BCBF695581718
	3995497CEA956AE515D2261898FA051015728E5A8AAAC42DAD33170D04507A33
	A85521ABDF1CBA64ECFB850458DBEF0A8AEA71575D060C7DB3970F85A6E1E4C7
	ABF5AE8CDB0933D71E8C94E04A25619DCEE3D2261AD2EE6BF12FFA06D98A0864
	D87602733EC86A64521F2B18177B200CBBE117577A615D6C770988C0BAD946E2
	08E24FA074E5AB3143DB5BFCE0FD108E4B82D120A93AD2CAFFFFFFFFFFFFFFFF`

var (
	rfc3526Once  sync.Once
	rfc3526Group *ModP
	testOnce     sync.Once
	testGroup    *ModP
)

// RFC3526ModP3072 returns the subgroup of quadratic residues modulo the
// 3072-bit safe prime of RFC 3526, generated by 2.
func RFC3526ModP3072() *ModP {
	rfc3526Once.Do(func() {
		data, err := hex.DecodeString(strings.Join(strings.Fields(rfc3526Prime3072), ""))
		if err != nil {
			panic(err)
		}
		p := new(big.Int).SetBytes(data)
		q := new(big.Int).Rsh(p, 1)
		rfc3526Group = newModPUnchecked("modp3072", p, q, big.NewInt(2))
	})
	return rfc3526Group
}

// TestModP returns a tiny group, with p = 2039 and q = 1019.
//
// It offers no security at all, and exists to exercise the ModP code paths quickly.
func TestModP() *ModP {
	testOnce.Do(func() {
		testGroup = newModPUnchecked("modp-test", big.NewInt(2039), big.NewInt(1019), big.NewInt(4))
	})
	return testGroup
}

// ModP is the subgroup of order q of ℤₚˣ, generated by g, where q is a prime dividing p - 1.
//
// The group operation is multiplication modulo p, but we write it additively,
// like for the other groups. Points are encoded as big endian numbers, padded
// to the byte length of p.
type ModP struct {
	name string
	p    *saferith.Modulus
	q    *saferith.Modulus
	g    *saferith.Nat
}

// NewModP validates (p, q, g) and returns the group they describe.
//
// p and q must be probable primes with q | p - 1, and g must have order exactly q.
func NewModP(name string, p, q, g *big.Int) (*ModP, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrInvalidModP)
	}
	if p == nil || q == nil || g == nil {
		return nil, fmt.Errorf("%w: nil parameter", ErrInvalidModP)
	}
	if q.Cmp(big.NewInt(2)) <= 0 || p.Cmp(q) <= 0 {
		return nil, fmt.Errorf("%w: q must satisfy 2 < q < p", ErrInvalidModP)
	}
	if !p.ProbablyPrime(20) || !q.ProbablyPrime(20) {
		return nil, fmt.Errorf("%w: p and q must be prime", ErrInvalidModP)
	}
	pMinusOne := new(big.Int).Sub(p, big.NewInt(1))
	if new(big.Int).Mod(pMinusOne, q).Sign() != 0 {
		return nil, fmt.Errorf("%w: q does not divide p - 1", ErrInvalidModP)
	}
	if g.Cmp(big.NewInt(1)) <= 0 || g.Cmp(p) >= 0 {
		return nil, fmt.Errorf("%w: generator out of range", ErrInvalidModP)
	}
	if new(big.Int).Exp(g, q, p).Cmp(big.NewInt(1)) != 0 {
		return nil, fmt.Errorf("%w: generator does not have order q", ErrInvalidModP)
	}
	return newModPUnchecked(name, p, q, g), nil
}

func newModPUnchecked(name string, p, q, g *big.Int) *ModP {
	pMod := saferith.ModulusFromNat(new(saferith.Nat).SetBig(p, p.BitLen()))
	qMod := saferith.ModulusFromNat(new(saferith.Nat).SetBig(q, q.BitLen()))
	return &ModP{
		name: name,
		p:    pMod,
		q:    qMod,
		g:    new(saferith.Nat).SetBig(g, p.BitLen()),
	}
}

func (g *ModP) NewPoint() Point {
	return &ModPPoint{group: g, value: new(saferith.Nat).SetUint64(1).Resize(g.p.BitLen())}
}

func (g *ModP) NewBasePoint() Point {
	return &ModPPoint{group: g, value: new(saferith.Nat).SetNat(g.g)}
}

func (g *ModP) NewScalar() Scalar {
	return &ModPScalar{group: g, value: new(saferith.Nat).Resize(g.q.BitLen())}
}

func (g *ModP) Name() string {
	return g.name
}

func (g *ModP) ScalarBits() int {
	return g.q.BitLen()
}

func (g *ModP) SafeScalarBytes() int {
	return g.ScalarBytes() + 16
}

func (g *ModP) PointBytes() int {
	return (g.p.BitLen() + 7) / 8
}

func (g *ModP) ScalarBytes() int {
	return (g.q.BitLen() + 7) / 8
}

func (g *ModP) Order() *saferith.Modulus {
	return g.q
}

// P returns the modulus of the ambient group.
func (g *ModP) P() *saferith.Modulus {
	return g.p
}

type ModPScalar struct {
	group *ModP
	value *saferith.Nat
}

func (s *ModPScalar) cast(generic Scalar) *ModPScalar {
	out, ok := generic.(*ModPScalar)
	if !ok || !Equal(s.group, out.group) {
		panic(fmt.Sprintf("failed to convert to %s scalar: %v", s.group.name, generic))
	}
	return out
}

func (s *ModPScalar) Curve() Curve {
	return s.group
}

func (s *ModPScalar) MarshalBinary() ([]byte, error) {
	data := make([]byte, s.group.ScalarBytes())
	s.value.FillBytes(data)
	return data, nil
}

func (s *ModPScalar) UnmarshalBinary(data []byte) error {
	if len(data) != s.group.ScalarBytes() {
		return fmt.Errorf("invalid length for %s scalar: %d", s.group.name, len(data))
	}
	v := new(saferith.Nat).SetBytes(data)
	if _, _, lt := v.CmpMod(s.group.q); lt != 1 {
		return fmt.Errorf("invalid bytes for %s scalar", s.group.name)
	}
	s.value = v
	return nil
}

func (s *ModPScalar) Add(that Scalar) Scalar {
	other := s.cast(that)

	s.value.ModAdd(s.value, other.value, s.group.q)
	return s
}

func (s *ModPScalar) Sub(that Scalar) Scalar {
	other := s.cast(that)

	s.value.ModSub(s.value, other.value, s.group.q)
	return s
}

func (s *ModPScalar) Mul(that Scalar) Scalar {
	other := s.cast(that)

	s.value.ModMul(s.value, other.value, s.group.q)
	return s
}

func (s *ModPScalar) Invert() Scalar {
	s.value.ModInverse(s.value, s.group.q)
	return s
}

func (s *ModPScalar) Negate() Scalar {
	s.value.ModNeg(s.value, s.group.q)
	return s
}

func (s *ModPScalar) Equal(that Scalar) bool {
	other := s.cast(that)

	return s.value.Eq(other.value) == 1
}

func (s *ModPScalar) IsZero() bool {
	return s.value.EqZero() == 1
}

func (s *ModPScalar) Set(that Scalar) Scalar {
	other := s.cast(that)

	s.value = new(saferith.Nat).SetNat(other.value)
	return s
}

func (s *ModPScalar) SetNat(x *saferith.Nat) Scalar {
	s.value = new(saferith.Nat).Mod(x, s.group.q)
	return s
}

func (s *ModPScalar) Act(that Point) Point {
	other := castModPPoint(s.group, that)

	return &ModPPoint{group: s.group, value: new(saferith.Nat).Exp(other.value, s.value, s.group.p)}
}

func (s *ModPScalar) ActOnBase() Point {
	return &ModPPoint{group: s.group, value: new(saferith.Nat).Exp(s.group.g, s.value, s.group.p)}
}

type ModPPoint struct {
	group *ModP
	value *saferith.Nat
}

func castModPPoint(group *ModP, generic Point) *ModPPoint {
	out, ok := generic.(*ModPPoint)
	if !ok || !Equal(group, out.group) {
		panic(fmt.Sprintf("failed to convert to %s point: %v", group.name, generic))
	}
	return out
}

func (p *ModPPoint) Curve() Curve {
	return p.group
}

func (p *ModPPoint) MarshalBinary() ([]byte, error) {
	data := make([]byte, p.group.PointBytes())
	p.value.FillBytes(data)
	return data, nil
}

// UnmarshalBinary checks that the value lies in the subgroup of order q,
// which costs one exponentiation.
func (p *ModPPoint) UnmarshalBinary(data []byte) error {
	if len(data) != p.group.PointBytes() {
		return fmt.Errorf("invalid length for %s point: %d", p.group.name, len(data))
	}
	v := new(saferith.Nat).SetBytes(data)
	if _, _, lt := v.CmpMod(p.group.p); lt != 1 || v.EqZero() == 1 {
		return fmt.Errorf("invalid %s point: not in ℤₚˣ", p.group.name)
	}
	one := new(saferith.Nat).SetUint64(1)
	if new(saferith.Nat).Exp(v, p.group.q.Nat(), p.group.p).Eq(one) != 1 {
		return fmt.Errorf("invalid %s point: not in the subgroup of order q", p.group.name)
	}
	p.value = v
	return nil
}

func (p *ModPPoint) Add(that Point) Point {
	other := castModPPoint(p.group, that)

	return &ModPPoint{group: p.group, value: new(saferith.Nat).ModMul(p.value, other.value, p.group.p)}
}

func (p *ModPPoint) Sub(that Point) Point {
	return p.Add(that.Negate())
}

func (p *ModPPoint) Set(that Point) Point {
	other := castModPPoint(p.group, that)

	p.value = new(saferith.Nat).SetNat(other.value)
	return p
}

func (p *ModPPoint) Negate() Point {
	return &ModPPoint{group: p.group, value: new(saferith.Nat).ModInverse(p.value, p.group.p)}
}

func (p *ModPPoint) Equal(that Point) bool {
	other := castModPPoint(p.group, that)

	return p.value.Eq(other.value) == 1
}

func (p *ModPPoint) IsIdentity() bool {
	one := new(saferith.Nat).SetUint64(1)
	return p.value.Eq(one) == 1
}
