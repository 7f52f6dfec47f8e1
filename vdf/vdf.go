// Package vdf exposes Pietrzak and Wesolowski behind one capability
// interface, so callers (and cmd/classvdf) can select a construction by
// name without importing either proof package directly.
package vdf

import (
	"context"
	"errors"
	"math/big"

	"github.com/mlaurent/classvdf/discriminant"
	"github.com/mlaurent/classvdf/pietrzak"
	"github.com/mlaurent/classvdf/wesolowski"
)

// Kind names a VDF construction.
type Kind string

const (
	KindPietrzak   Kind = "pietrzak"
	KindWesolowski Kind = "wesolowski"
)

// ErrUnknownKind is returned by New for a Kind other than KindPietrzak or
// KindWesolowski.
var ErrUnknownKind = errors.New("vdf: unknown construction kind")

// ErrInvalidIterations wraps a construction's difficulty rejection.
var ErrInvalidIterations = errors.New("vdf: invalid difficulty")

// ErrInvalidProof wraps a construction's proof rejection. It is
// intentionally opaque: it carries no detail about which invariant or
// equation failed.
var ErrInvalidProof = errors.New("vdf: invalid proof")

// Construction is the capability set both VDF proof systems implement.
// Mirrors the teacher's group.Group/group.Element pattern of a small
// capability interface over an algebraic object.
type Construction interface {
	// CheckDifficulty reports whether t is an acceptable difficulty for
	// this construction, wrapping ErrInvalidIterations on rejection.
	CheckDifficulty(t uint64) error
	// Solve runs t sequential class-group squarings of x = (2, 1, D),
	// returning the encoded proof. challenge is used only when
	// discriminant is nil: D is then derived deterministically from
	// challenge at the construction's configured bit size.
	Solve(ctx context.Context, challenge []byte, t uint64, discriminant *big.Int) ([]byte, error)
	// Verify checks proof against challenge, t and discriminant, wrapping
	// ErrInvalidProof on rejection. A nil discriminant is derived from
	// challenge exactly as Solve derives it.
	Verify(challenge []byte, t uint64, proof []byte, discriminant *big.Int) error
}

// New resolves kind to a Construction configured for intSizeBits-wide
// class-group elements.
func New(kind Kind, intSizeBits int) (Construction, error) {
	switch kind {
	case KindPietrzak:
		return pietrzakConstruction{intSizeBits: intSizeBits}, nil
	case KindWesolowski:
		return wesolowskiConstruction{intSizeBits: intSizeBits}, nil
	default:
		return nil, ErrUnknownKind
	}
}

func resolveDiscriminant(challenge []byte, d *big.Int, intSizeBits int) (*big.Int, error) {
	if d != nil {
		return d, nil
	}
	return discriminant.Create(challenge, intSizeBits)
}

type pietrzakConstruction struct {
	intSizeBits int
}

func (c pietrzakConstruction) CheckDifficulty(t uint64) error {
	if err := pietrzak.CheckDifficulty(t); err != nil {
		return errors.Join(ErrInvalidIterations, err)
	}
	return nil
}

func (c pietrzakConstruction) Solve(ctx context.Context, challenge []byte, t uint64, d *big.Int) ([]byte, error) {
	D, err := resolveDiscriminant(challenge, d, c.intSizeBits)
	if err != nil {
		return nil, err
	}
	return pietrzak.Solve(ctx, D, t, c.intSizeBits)
}

func (c pietrzakConstruction) Verify(challenge []byte, t uint64, proof []byte, d *big.Int) error {
	D, err := resolveDiscriminant(challenge, d, c.intSizeBits)
	if err != nil {
		return err
	}
	if err := pietrzak.Verify(D, t, c.intSizeBits, proof); err != nil {
		return errors.Join(ErrInvalidProof, err)
	}
	return nil
}

type wesolowskiConstruction struct {
	intSizeBits int
}

func (c wesolowskiConstruction) CheckDifficulty(t uint64) error {
	if err := wesolowski.CheckDifficulty(t); err != nil {
		return errors.Join(ErrInvalidIterations, err)
	}
	return nil
}

func (c wesolowskiConstruction) Solve(ctx context.Context, challenge []byte, t uint64, d *big.Int) ([]byte, error) {
	D, err := resolveDiscriminant(challenge, d, c.intSizeBits)
	if err != nil {
		return nil, err
	}
	return wesolowski.Solve(ctx, D, t, c.intSizeBits)
}

func (c wesolowskiConstruction) Verify(challenge []byte, t uint64, proof []byte, d *big.Int) error {
	D, err := resolveDiscriminant(challenge, d, c.intSizeBits)
	if err != nil {
		return err
	}
	if err := wesolowski.Verify(D, t, c.intSizeBits, proof); err != nil {
		return errors.Join(ErrInvalidProof, err)
	}
	return nil
}
