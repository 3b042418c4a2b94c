package batchgo

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"

	"github.com/primefield/batchgo/gpu"
	"github.com/primefield/batchgo/hasher"
	"github.com/primefield/batchgo/poseidon"
)

// BackendKind identifies which engine family a BatcherType requests.
type BackendKind int

const (
	// BackendSoftware runs the hash on the CPU.
	BackendSoftware BackendKind = iota
	// BackendAccelerator runs the hash on a WebGPU device.
	BackendAccelerator
)

// String returns a string representation of the BackendKind.
func (k BackendKind) String() string {
	switch k {
	case BackendSoftware:
		return "software"
	case BackendAccelerator:
		return "accelerator"
	default:
		return "unknown"
	}
}

// BatcherType describes which backend a dispatcher should own. It is a
// pure, copyable descriptor: it holds no resources, and a specific device
// selector is validated only at construction time.
type BatcherType struct {
	kind     BackendKind
	specific bool
	selector gpu.DeviceSelector
}

// SoftwareOnly requests the CPU backend.
func SoftwareOnly() BatcherType {
	return BatcherType{kind: BackendSoftware}
}

// DefaultAccelerator requests the best available accelerator device.
func DefaultAccelerator() BatcherType {
	return BatcherType{kind: BackendAccelerator}
}

// SpecificAccelerator requests the accelerator device addressed by sel.
func SpecificAccelerator(sel gpu.DeviceSelector) BatcherType {
	return BatcherType{kind: BackendAccelerator, specific: true, selector: sel}
}

// Kind returns the requested backend family.
func (t BatcherType) Kind() BackendKind {
	return t.kind
}

// Selector returns the device selector and whether one was set.
func (t BatcherType) Selector() (gpu.DeviceSelector, bool) {
	return t.selector, t.specific
}

// String returns a string representation of the BatcherType.
func (t BatcherType) String() string {
	if t.kind == BackendAccelerator && t.specific {
		return fmt.Sprintf("accelerator(%s)", t.selector)
	}
	return t.kind.String()
}

// Stats holds cumulative counters for one dispatcher instance.
type Stats struct {
	Batches   uint64 // Completed Hash calls
	Preimages uint64 // Preimages hashed across all batches
	Failures  uint64 // Hash calls that returned an error
}

// Batcher owns exactly one backend, chosen at construction, and forwards
// every capability call to it. It adds no batching, retry, or
// transformation logic of its own.
//
// The backend identity is immutable after construction: BackendType always
// reflects the backend actually built, never a silent fallback. A Batcher
// imposes no internal locking; callers needing concurrent batches must
// serialize Hash calls or use one Batcher per goroutine.
type Batcher struct {
	typ     BatcherType
	backend hasher.BatchHasher
	logger  *Logger

	batches   atomic.Uint64
	preimages atomic.Uint64
	failures  atomic.Uint64
}

var _ hasher.BatchHasher = (*Batcher)(nil)

// New constructs a dispatcher with the default strength.
func New(typ BatcherType, arity hasher.Arity, maxBatchSize int, opts ...Option) (*Batcher, error) {
	return NewWithStrength(hasher.DefaultStrength, typ, arity, maxBatchSize, opts...)
}

// NewWithStrength constructs a dispatcher owning the backend typ requests.
//
// Requesting an accelerator on a platform without one returns
// ErrUnsupportedBackend; construction failures of the underlying engine or
// device context are wrapped in ErrBackendConstruction. On success the
// dispatcher is ready and its backend never changes.
func NewWithStrength(strength hasher.Strength, typ BatcherType, arity hasher.Arity, maxBatchSize int, opts ...Option) (*Batcher, error) {
	o := options{
		logger: NoopLogger(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	backend, err := buildBackend(strength, typ, arity, maxBatchSize)
	o.logger.LogConstruct(typ, int(arity), maxBatchSize, err)
	if err != nil {
		return nil, err
	}

	return &Batcher{
		typ:     typ,
		backend: backend,
		logger:  o.logger,
	}, nil
}

func buildBackend(strength hasher.Strength, typ BatcherType, arity hasher.Arity, maxBatchSize int) (hasher.BatchHasher, error) {
	switch typ.Kind() {
	case BackendSoftware:
		backend, err := poseidon.NewWithStrength(strength, arity, maxBatchSize)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBackendConstruction, err)
		}
		return backend, nil

	case BackendAccelerator:
		if !gpu.Available() {
			return nil, fmt.Errorf("%w: no accelerator device", ErrUnsupportedBackend)
		}

		var (
			ctx *gpu.Context
			err error
		)
		if sel, ok := typ.Selector(); ok {
			ctx, err = gpu.ContextFor(sel)
		} else {
			ctx, err = gpu.DefaultContext()
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBackendConstruction, err)
		}

		backend, err := gpu.NewWithStrength(ctx, strength, arity, maxBatchSize)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBackendConstruction, err)
		}
		return backend, nil

	default:
		return nil, fmt.Errorf("%w: unknown backend kind %d", ErrBackendConstruction, int(typ.Kind()))
	}
}

// BackendType returns which backend variant was built.
func (b *Batcher) BackendType() BatcherType {
	return b.typ
}

// Hash forwards the batch verbatim to the owned backend.
func (b *Batcher) Hash(preimages [][]fr.Element) ([]fr.Element, error) {
	out, err := b.backend.Hash(preimages)
	err = translateError(err)

	if err != nil {
		b.failures.Add(1)
	} else {
		b.batches.Add(1)
		b.preimages.Add(uint64(len(preimages)))
	}
	b.logger.LogHash(b.typ, len(preimages), err)

	if err != nil {
		return nil, err
	}
	return out, nil
}

// MaxBatchSize forwards to the owned backend; the value is constant for the
// dispatcher's lifetime.
func (b *Batcher) MaxBatchSize() int {
	return b.backend.MaxBatchSize()
}

// Stats returns a snapshot of this dispatcher's counters.
func (b *Batcher) Stats() Stats {
	return Stats{
		Batches:   b.batches.Load(),
		Preimages: b.preimages.Load(),
		Failures:  b.failures.Load(),
	}
}

// Close releases the owned backend, including any accelerator context.
// Safe to call more than once; the software backend holds no resources.
func (b *Batcher) Close() error {
	if b == nil || b.backend == nil {
		return nil
	}
	if closer, ok := b.backend.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
