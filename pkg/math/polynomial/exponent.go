package polynomial

import (
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/taurusgroup/vote-primitives/pkg/math/curve"
)

// Exponent represents a polynomial whose coefficients are group elements,
// F(X) = A₀ + A₁⋅X + … + Aₜ⋅Xᵗ with Aᵢ = aᵢ⋅G.
//
// It commits to a Polynomial, and lets holders of f(i) check their value
// against F(i) = f(i)⋅G.
type Exponent struct {
	group        curve.Curve
	coefficients []curve.Point
}

// NewPolynomialExponent generates an Exponent polynomial F(X) = [a₀ + a₁⋅X + … + aₜ⋅Xᵗ]⋅G.
func NewPolynomialExponent(polynomial *Polynomial) *Exponent {
	p := &Exponent{
		group:        polynomial.group,
		coefficients: make([]curve.Point, len(polynomial.coefficients)),
	}
	for i, c := range polynomial.coefficients {
		p.coefficients[i] = c.ActOnBase()
	}
	return p
}

// EmptyExponent returns an Exponent to be unmarshalled into.
func EmptyExponent(group curve.Curve) *Exponent {
	return &Exponent{group: group}
}

// Evaluate returns F(index), using Horner's method.
func (p *Exponent) Evaluate(index curve.Scalar) curve.Point {
	result := p.group.NewPoint()
	for i := len(p.coefficients) - 1; i >= 0; i-- {
		// Bₙ₋₁ = [x]Bₙ + Aₙ₋₁
		result = index.Act(result).Add(p.coefficients[i])
	}
	return result
}

func (p *Exponent) Degree() int {
	return len(p.coefficients) - 1
}

// Constant returns A₀ = a₀⋅G.
func (p *Exponent) Constant() curve.Point {
	return p.group.NewPoint().Set(p.coefficients[0])
}

// Equal returns true if both polynomials have the same coefficients.
func (p *Exponent) Equal(other *Exponent) bool {
	if len(p.coefficients) != len(other.coefficients) {
		return false
	}
	for i := range p.coefficients {
		if !p.coefficients[i].Equal(other.coefficients[i]) {
			return false
		}
	}
	return true
}

// WriteTo implements io.WriterTo interface.
func (p *Exponent) WriteTo(w io.Writer) (int64, error) {
	total := int64(0)
	for _, c := range p.coefficients {
		data, err := c.MarshalBinary()
		if err != nil {
			return total, err
		}
		n, err := w.Write(data)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Domain implements hash.WriterToWithDomain.
func (*Exponent) Domain() string {
	return "Exponent"
}

func (p *Exponent) MarshalBinary() ([]byte, error) {
	points, err := curve.EncodePoints(p.coefficients)
	if err != nil {
		return nil, err
	}
	return cbor.Marshal(points)
}

func (p *Exponent) UnmarshalBinary(data []byte) error {
	if p.group == nil {
		return errors.New("polynomial.Exponent: group must be set, use EmptyExponent")
	}
	var points [][]byte
	if err := cbor.Unmarshal(data, &points); err != nil {
		return fmt.Errorf("polynomial.Exponent: %w", err)
	}
	if len(points) == 0 {
		return errors.New("polynomial.Exponent: no coefficients")
	}
	coefficients, err := curve.DecodePoints(p.group, points)
	if err != nil {
		return fmt.Errorf("polynomial.Exponent: %w", err)
	}
	p.coefficients = coefficients
	return nil
}
