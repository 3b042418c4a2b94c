package gpu

import (
	"fmt"
	"time"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/openfluke/webgpu/wgpu"

	"github.com/primefield/batchgo/hasher"
	"github.com/primefield/batchgo/poseidon"
)

// readbackTimeout bounds the staging-buffer map wait so a wedged driver
// surfaces as an error instead of a hang.
const readbackTimeout = 10 * time.Second

// BatchHasher is the accelerator implementation of hasher.BatchHasher. It
// owns its Context and all device resources; the pipeline is compiled once
// at construction for the configured arity, strength, and batch cap.
//
// A BatchHasher is not safe for concurrent Hash calls: each call reuses the
// same input and staging buffers.
type BatchHasher struct {
	ctx          *Context
	params       *poseidon.Parameters
	maxBatchSize int

	pipeline  *wgpu.ComputePipeline
	bindGroup *wgpu.BindGroup

	inputBuffer   *wgpu.Buffer
	outputBuffer  *wgpu.Buffer
	stagingBuffer *wgpu.Buffer
	rcBuffer      *wgpu.Buffer
	mdsBuffer     *wgpu.Buffer
	jobBuffer     *wgpu.Buffer
}

var _ hasher.BatchHasher = (*BatchHasher)(nil)

// New constructs an accelerator batch hasher with the default strength.
// The hasher takes ownership of ctx, including on error.
func New(ctx *Context, arity hasher.Arity, maxBatchSize int) (*BatchHasher, error) {
	return NewWithStrength(ctx, hasher.DefaultStrength, arity, maxBatchSize)
}

// NewWithStrength constructs an accelerator batch hasher for the given
// strength, arity, and batch cap. The permutation parameters are derived by
// the software backend's generator and uploaded verbatim, so both backends
// agree by construction.
func NewWithStrength(ctx *Context, strength hasher.Strength, arity hasher.Arity, maxBatchSize int) (*BatchHasher, error) {
	if ctx == nil {
		return nil, fmt.Errorf("gpu: nil context")
	}

	if maxBatchSize <= 0 {
		ctx.Release()
		return nil, fmt.Errorf("gpu: max batch size must be positive, got %d", maxBatchSize)
	}

	params, err := poseidon.NewParameters(arity, strength)
	if err != nil {
		ctx.Release()
		return nil, err
	}

	h := &BatchHasher{
		ctx:          ctx,
		params:       params,
		maxBatchSize: maxBatchSize,
	}

	if err := h.build(); err != nil {
		h.Close()
		return nil, err
	}

	return h, nil
}

// build allocates device buffers and compiles the compute pipeline.
func (h *BatchHasher) build() error {
	device := h.ctx.device
	elemBytes := uint64(limbsPerElement * 4)
	var err error

	h.inputBuffer, err = device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "poseidon_in",
		Size:  uint64(h.maxBatchSize*int(h.params.Arity)) * elemBytes,
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("gpu: input buffer: %w", err)
	}

	h.outputBuffer, err = device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "poseidon_out",
		Size:  uint64(h.maxBatchSize) * elemBytes,
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("gpu: output buffer: %w", err)
	}

	h.stagingBuffer, err = device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "poseidon_staging",
		Size:  uint64(h.maxBatchSize) * elemBytes,
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("gpu: staging buffer: %w", err)
	}

	h.rcBuffer, err = device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "poseidon_rc",
		Contents: wgpu.ToBytes(packElements(nil, h.params.RoundConstants)),
		Usage:    wgpu.BufferUsageStorage,
	})
	if err != nil {
		return fmt.Errorf("gpu: round constant buffer: %w", err)
	}

	mds := make([]uint32, 0, h.params.Width*h.params.Width*limbsPerElement)
	for _, row := range h.params.MDS {
		mds = packElements(mds, row)
	}
	h.mdsBuffer, err = device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "poseidon_mds",
		Contents: wgpu.ToBytes(mds),
		Usage:    wgpu.BufferUsageStorage,
	})
	if err != nil {
		return fmt.Errorf("gpu: mds buffer: %w", err)
	}

	h.jobBuffer, err = device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "poseidon_job",
		Size:  4,
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("gpu: job buffer: %w", err)
	}

	module, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "poseidon_shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: buildShader(h.params)},
	})
	if err != nil {
		return fmt.Errorf("gpu: shader compile: %w", err)
	}
	defer module.Release()

	// Explicit layout; auto layout misbehaves on some runtimes.
	bgl, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "poseidon_bgl",
		Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 0, Visibility: wgpu.ShaderStageCompute, Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeReadOnlyStorage}},
			{Binding: 1, Visibility: wgpu.ShaderStageCompute, Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeStorage}},
			{Binding: 2, Visibility: wgpu.ShaderStageCompute, Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeReadOnlyStorage}},
			{Binding: 3, Visibility: wgpu.ShaderStageCompute, Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeReadOnlyStorage}},
			{Binding: 4, Visibility: wgpu.ShaderStageCompute, Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeReadOnlyStorage}},
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: bind group layout: %w", err)
	}

	pipelineLayout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "poseidon_layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{bgl},
	})
	if err != nil {
		return fmt.Errorf("gpu: pipeline layout: %w", err)
	}

	h.pipeline, err = device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label:  "poseidon_pipeline",
		Layout: pipelineLayout,
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     module,
			EntryPoint: "main",
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: pipeline create: %w", err)
	}

	h.bindGroup, err = device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "poseidon_bind",
		Layout: bgl,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: h.inputBuffer, Size: h.inputBuffer.GetSize()},
			{Binding: 1, Buffer: h.outputBuffer, Size: h.outputBuffer.GetSize()},
			{Binding: 2, Buffer: h.rcBuffer, Size: h.rcBuffer.GetSize()},
			{Binding: 3, Buffer: h.mdsBuffer, Size: h.mdsBuffer.GetSize()},
			{Binding: 4, Buffer: h.jobBuffer, Size: h.jobBuffer.GetSize()},
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: bind group: %w", err)
	}

	return nil
}

// Hash uploads the batch, dispatches one thread per preimage, and reads
// back one digest per input, order preserved.
func (h *BatchHasher) Hash(preimages [][]fr.Element) ([]fr.Element, error) {
	if err := hasher.ValidateBatch(preimages, h.params.Arity, h.maxBatchSize); err != nil {
		return nil, err
	}

	if len(preimages) == 0 {
		return []fr.Element{}, nil
	}

	count := len(preimages)
	limbs := make([]uint32, 0, count*int(h.params.Arity)*limbsPerElement)
	for _, p := range preimages {
		limbs = packElements(limbs, p)
	}

	h.ctx.queue.WriteBuffer(h.inputBuffer, 0, wgpu.ToBytes(limbs))
	h.ctx.queue.WriteBuffer(h.jobBuffer, 0, wgpu.ToBytes([]uint32{uint32(count)}))

	encoder, err := h.ctx.device.CreateCommandEncoder(nil)
	if err != nil {
		return nil, fmt.Errorf("gpu: command encoder: %w", err)
	}

	pass := encoder.BeginComputePass(nil)
	pass.SetPipeline(h.pipeline)
	pass.SetBindGroup(0, h.bindGroup, nil)
	pass.DispatchWorkgroups(uint32((count+63)/64), 1, 1)
	pass.End()

	resultBytes := uint64(count * limbsPerElement * 4)
	encoder.CopyBufferToBuffer(h.outputBuffer, 0, h.stagingBuffer, 0, resultBytes)

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return nil, fmt.Errorf("gpu: command finish: %w", err)
	}
	h.ctx.queue.Submit(cmd)

	out, err := h.readStaging(resultBytes)
	if err != nil {
		return nil, err
	}

	return unpackElements(out, count), nil
}

// MaxBatchSize returns the batch cap fixed at construction.
func (h *BatchHasher) MaxBatchSize() int {
	return h.maxBatchSize
}

// readStaging maps the staging buffer and copies the digest limbs out.
func (h *BatchHasher) readStaging(size uint64) ([]uint32, error) {
	done := make(chan struct{})
	var mapErr error

	err := h.stagingBuffer.MapAsync(wgpu.MapModeRead, 0, size, func(status wgpu.BufferMapAsyncStatus) {
		if status != wgpu.BufferMapAsyncStatusSuccess {
			mapErr = fmt.Errorf("gpu: buffer map status %d", status)
		}
		close(done)
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: map staging: %w", err)
	}

	deadline := time.After(readbackTimeout)
Loop:
	for {
		h.ctx.device.Poll(true, nil)
		select {
		case <-done:
			break Loop
		case <-deadline:
			return nil, fmt.Errorf("gpu: readback timed out after %s", readbackTimeout)
		default:
		}
	}

	if mapErr != nil {
		return nil, mapErr
	}

	data := h.stagingBuffer.GetMappedRange(0, uint(size))
	if data == nil {
		h.stagingBuffer.Unmap()
		return nil, fmt.Errorf("gpu: mapped range nil")
	}

	out := make([]uint32, size/4)
	copy(out, wgpu.FromBytes[uint32](data))
	h.stagingBuffer.Unmap()

	return out, nil
}

// Close destroys device buffers, releases the pipeline, and drops the owned
// context. Safe to call more than once.
func (h *BatchHasher) Close() error {
	for _, buf := range []**wgpu.Buffer{
		&h.inputBuffer, &h.outputBuffer, &h.stagingBuffer,
		&h.rcBuffer, &h.mdsBuffer, &h.jobBuffer,
	} {
		if *buf != nil {
			(*buf).Destroy()
			*buf = nil
		}
	}

	if h.bindGroup != nil {
		h.bindGroup.Release()
		h.bindGroup = nil
	}
	if h.pipeline != nil {
		h.pipeline.Release()
		h.pipeline = nil
	}
	if h.ctx != nil {
		h.ctx.Release()
		h.ctx = nil
	}

	return nil
}
