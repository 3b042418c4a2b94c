package gpu

import (
	"fmt"
	"strings"

	"github.com/primefield/batchgo/poseidon"
)

// buildShader renders the WGSL compute shader for one parameterization.
// Field arithmetic runs on 8 u32 limbs in the Montgomery domain; the round
// constants and MDS matrix arrive through storage buffers so the shader
// source only bakes in the structural values (width, arity, round counts,
// domain tag).
func buildShader(p *poseidon.Parameters) string {
	var tag strings.Builder
	for i, l := range tagLimbs(p) {
		if i > 0 {
			tag.WriteString(", ")
		}
		fmt.Fprintf(&tag, "0x%08xu", l)
	}

	return fmt.Sprintf(shaderTemplate,
		p.Width,
		int(p.Arity),
		p.FullRounds/2,
		p.PartialRounds,
		tag.String(),
	)
}

func tagLimbs(p *poseidon.Parameters) []uint32 {
	return appendLimbs(nil, &p.Tag)
}

// Template arguments: width, arity, half full rounds, partial rounds, tag
// limbs. The modulus limbs and the Montgomery factor -q^-1 mod 2^32 are
// fixed for BLS12-381 Fr (q ≡ 1 mod 2^32, hence N0INV = 0xffffffff).
const shaderTemplate = `
const WIDTH: u32 = %du;
const ARITY: u32 = %du;
const HALF_FULL: u32 = %du;
const PARTIAL: u32 = %du;

alias Fe = array<u32, 8>;

var<private> N: Fe = Fe(
	0x00000001u, 0xffffffffu, 0xfffe5bfeu, 0x53bda402u,
	0x09a1d805u, 0x3339d808u, 0x299d7d48u, 0x73eda753u,
);
const N0INV: u32 = 0xffffffffu;
const TAG = Fe(%s);

@group(0) @binding(0) var<storage, read> inputs: array<u32>;
@group(0) @binding(1) var<storage, read_write> outputs: array<u32>;
@group(0) @binding(2) var<storage, read> round_constants: array<u32>;
@group(0) @binding(3) var<storage, read> mds: array<u32>;
@group(0) @binding(4) var<storage, read> job: array<u32>;

// 32x32 -> 64 bit multiply via 16-bit halves: returns (lo, hi).
fn mul32(a: u32, b: u32) -> vec2<u32> {
	let a0 = a & 0xffffu;
	let a1 = a >> 16u;
	let b0 = b & 0xffffu;
	let b1 = b >> 16u;

	let ll = a0 * b0;
	let lh = a0 * b1;
	let hl = a1 * b0;
	let hh = a1 * b1;

	let mid = (ll >> 16u) + (lh & 0xffffu) + (hl & 0xffffu);
	let lo = (ll & 0xffffu) | ((mid & 0xffffu) << 16u);
	let hi = hh + (lh >> 16u) + (hl >> 16u) + (mid >> 16u);

	return vec2<u32>(lo, hi);
}

// a + b: returns (sum, carry).
fn adc(a: u32, b: u32) -> vec2<u32> {
	let s = a + b;
	return vec2<u32>(s, select(0u, 1u, s < a));
}

// a - b - borrow_in: returns (diff, borrow).
fn sbb(a: u32, b: u32, borrow: u32) -> vec2<u32> {
	let d = a - b - borrow;
	let out = select(0u, 1u, b + borrow > a || (b == 0xffffffffu && borrow == 1u));
	return vec2<u32>(d, out);
}

fn gte_n(a: Fe) -> bool {
	var av = a;
	for (var i = 7u; i < 8u; i = i - 1u) {
		if (av[i] > N[i]) { return true; }
		if (av[i] < N[i]) { return false; }
		if (i == 0u) { break; }
	}
	return true;
}

fn sub_n(a: Fe) -> Fe {
	var av = a;
	var r: Fe;
	var borrow = 0u;
	for (var i = 0u; i < 8u; i = i + 1u) {
		let d = sbb(av[i], N[i], borrow);
		r[i] = d.x;
		borrow = d.y;
	}
	return r;
}

fn add_mod(a: Fe, b: Fe) -> Fe {
	var av = a;
	var bv = b;
	var r: Fe;
	var carry = 0u;
	for (var i = 0u; i < 8u; i = i + 1u) {
		let s1 = adc(av[i], bv[i]);
		let s2 = adc(s1.x, carry);
		r[i] = s2.x;
		carry = s1.y + s2.y;
	}
	if (carry == 1u || gte_n(r)) {
		r = sub_n(r);
	}
	return r;
}

// CIOS Montgomery multiplication: r = a * b * 2^-256 mod N.
fn mont_mul(a: Fe, b: Fe) -> Fe {
	var av = a;
	var bv = b;
	var t: array<u32, 10>;

	for (var i = 0u; i < 8u; i = i + 1u) {
		var carry = 0u;
		for (var j = 0u; j < 8u; j = j + 1u) {
			let p = mul32(av[i], bv[j]);
			let s1 = adc(t[j], p.x);
			let s2 = adc(s1.x, carry);
			t[j] = s2.x;
			carry = p.y + s1.y + s2.y;
		}
		let s = adc(t[8], carry);
		t[8] = s.x;
		t[9] = t[9] + s.y;

		let m = t[0] * N0INV;
		let p0 = mul32(m, N[0]);
		let s0 = adc(t[0], p0.x);
		carry = p0.y + s0.y;
		for (var j = 1u; j < 8u; j = j + 1u) {
			let p = mul32(m, N[j]);
			let s1 = adc(t[j], p.x);
			let s2 = adc(s1.x, carry);
			t[j - 1u] = s2.x;
			carry = p.y + s1.y + s2.y;
		}
		let s8 = adc(t[8], carry);
		t[7] = s8.x;
		t[8] = t[9] + s8.y;
		t[9] = 0u;
	}

	var r: Fe;
	for (var i = 0u; i < 8u; i = i + 1u) {
		r[i] = t[i];
	}
	if (t[8] == 1u || gte_n(r)) {
		r = sub_n(r);
	}
	return r;
}

fn quint_sbox(x: Fe) -> Fe {
	let sq = mont_mul(x, x);
	let quad = mont_mul(sq, sq);
	return mont_mul(x, quad);
}

fn load_elem(buf_index: u32) -> Fe {
	var e: Fe;
	for (var i = 0u; i < 8u; i = i + 1u) {
		e[i] = inputs[buf_index * 8u + i];
	}
	return e;
}

fn load_rc(rc_index: u32) -> Fe {
	var e: Fe;
	for (var i = 0u; i < 8u; i = i + 1u) {
		e[i] = round_constants[rc_index * 8u + i];
	}
	return e;
}

fn load_mds(row: u32, col: u32) -> Fe {
	var e: Fe;
	let base = (row * WIDTH + col) * 8u;
	for (var i = 0u; i < 8u; i = i + 1u) {
		e[i] = mds[base + i];
	}
	return e;
}

var<private> state: array<Fe, WIDTH>;
var<private> scratch: array<Fe, WIDTH>;
var<private> rc_index: u32;

fn add_round_constants() {
	for (var i = 0u; i < WIDTH; i = i + 1u) {
		state[i] = add_mod(state[i], load_rc(rc_index));
		rc_index = rc_index + 1u;
	}
}

fn mix() {
	for (var i = 0u; i < WIDTH; i = i + 1u) {
		var acc: Fe;
		for (var j = 0u; j < WIDTH; j = j + 1u) {
			acc = add_mod(acc, mont_mul(load_mds(i, j), state[j]));
		}
		scratch[i] = acc;
	}
	for (var i = 0u; i < WIDTH; i = i + 1u) {
		state[i] = scratch[i];
	}
}

fn full_round() {
	add_round_constants();
	for (var i = 0u; i < WIDTH; i = i + 1u) {
		state[i] = quint_sbox(state[i]);
	}
	mix();
}

fn partial_round() {
	add_round_constants();
	state[0] = quint_sbox(state[0]);
	mix();
}

@compute @workgroup_size(64)
fn main(@builtin(global_invocation_id) gid: vec3<u32>) {
	let idx = gid.x;
	if (idx >= job[0]) {
		return;
	}

	rc_index = 0u;
	state[0] = TAG;
	for (var k = 0u; k < ARITY; k = k + 1u) {
		state[k + 1u] = load_elem(idx * ARITY + k);
	}

	for (var r = 0u; r < HALF_FULL; r = r + 1u) { full_round(); }
	for (var r = 0u; r < PARTIAL; r = r + 1u) { partial_round(); }
	for (var r = 0u; r < HALF_FULL; r = r + 1u) { full_round(); }

	for (var i = 0u; i < 8u; i = i + 1u) {
		outputs[idx * 8u + i] = state[1u][i];
	}
}
`
