package curve

import (
	"errors"
	"fmt"
)

// DecodePoint unmarshals the fixed width encoding of a point of group.
func DecodePoint(group Curve, data []byte) (Point, error) {
	p := group.NewPoint()
	if err := p.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return p, nil
}

// DecodeScalar unmarshals the fixed width encoding of a scalar of group.
func DecodeScalar(group Curve, data []byte) (Scalar, error) {
	s := group.NewScalar()
	if err := s.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return s, nil
}

// EncodePoints marshals every point, in order.
func EncodePoints(points []Point) ([][]byte, error) {
	out := make([][]byte, len(points))
	for i, p := range points {
		if p == nil {
			return nil, errors.New("curve.EncodePoints: nil point")
		}
		data, err := p.MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("curve.EncodePoints: %w", err)
		}
		out[i] = data
	}
	return out, nil
}

// DecodePoints is the inverse of EncodePoints.
func DecodePoints(group Curve, data [][]byte) ([]Point, error) {
	out := make([]Point, len(data))
	for i, d := range data {
		p, err := DecodePoint(group, d)
		if err != nil {
			return nil, fmt.Errorf("curve.DecodePoints: point %d: %w", i, err)
		}
		out[i] = p
	}
	return out, nil
}

// EncodeScalars marshals every scalar, in order.
func EncodeScalars(scalars []Scalar) ([][]byte, error) {
	out := make([][]byte, len(scalars))
	for i, s := range scalars {
		if s == nil {
			return nil, errors.New("curve.EncodeScalars: nil scalar")
		}
		data, err := s.MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("curve.EncodeScalars: %w", err)
		}
		out[i] = data
	}
	return out, nil
}

// DecodeScalars is the inverse of EncodeScalars.
func DecodeScalars(group Curve, data [][]byte) ([]Scalar, error) {
	out := make([]Scalar, len(data))
	for i, d := range data {
		s, err := DecodeScalar(group, d)
		if err != nil {
			return nil, fmt.Errorf("curve.DecodeScalars: scalar %d: %w", i, err)
		}
		out[i] = s
	}
	return out, nil
}
