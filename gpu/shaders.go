// Copyright 2025 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package gpu

import (
	"unsafe"

	"honnef.co/go/tilemap/tess"
	"honnef.co/go/wgpu"
)

// All fragment stages output pow(rgb, 2.2) with linear alpha; colors
// arrive premultiplied in the draw constants. Unknown vertex fill kinds
// render magenta so broken geometry is visible instead of silently
// wrong.

// tileShader draws tile-local geometry through the rescale + mat2x2
// path, with the dash walk in the fragment stage.
const tileShader = `
struct TileConstants {
	mat: mat2x2<f32>,
	translation: vec2<f32>,
	rescale_offset: vec2<f32>,
	fill_translate: vec2<f32>,
	line_translate: vec2<f32>,
	rescale_scale: f32,
	line_width: f32,
	dash_total: f32,
	dasharray_len: u32,
	fill_color: vec4<f32>,
	line_color: vec4<f32>,
	dash0: vec4<f32>,
	dash1: vec4<f32>,
}

var<push_constant> c: TileConstants;

struct VertexInput {
	@location(0) position: vec2<f32>,
	@location(1) normal: vec2<f32>,
	@location(2) advancement: f32,
	@location(3) fill: u32,
}

struct VertexOutput {
	@builtin(position) clip_position: vec4<f32>,
	@location(0) @interpolate(flat) fill: u32,
	@location(1) advancement: f32,
}

@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
	var out: VertexOutput;
	var pos = in.position * c.rescale_scale + c.rescale_offset;
	switch in.fill {
		case 0u: {
			pos += in.normal * c.line_width * 0.5 + c.line_translate;
		}
		case 1u: {
			pos += c.fill_translate;
		}
		default: {}
	}
	let p = c.mat * pos + c.translation;
	out.clip_position = vec4(p, 0.0, 1.0);
	out.fill = in.fill;
	out.advancement = in.advancement * c.rescale_scale;
	return out;
}

fn dash_entry(i: u32) -> f32 {
	if i < 4u {
		return c.dash0[i];
	}
	return c.dash1[i - 4u];
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
	var color: vec4<f32>;
	switch in.fill {
		case 0u: {
			color = c.line_color;
			if c.dasharray_len > 0u && c.dash_total > 0.0 {
				// Walk the pattern from the start of the current cycle;
				// the first entry whose end lies strictly past the
				// advancement decides. Odd entries are gaps.
				var end = floor(in.advancement / c.dash_total) * c.dash_total;
				var i = 0u;
				loop {
					end += dash_entry(i);
					if end > in.advancement || i + 1u >= c.dasharray_len {
						break;
					}
					i += 1u;
				}
				if (i & 1u) == 1u {
					discard;
				}
			}
		}
		case 1u, 2u: {
			color = c.fill_color;
		}
		default: {
			color = vec4(1.0, 0.0, 1.0, 1.0);
		}
	}
	return vec4(pow(color.rgb, vec3(2.2)), color.a);
}
`

// screenShader positions the unit square directly in window pixels,
// bypassing the matrix path. Used for background layers.
const screenShader = `
struct ScreenConstants {
	scale: f32,
	line_width: f32,
	offset: vec2<f32>,
	tile_dims: vec2<f32>,
	window_dims: vec2<f32>,
	fill_translate: vec2<f32>,
	line_translate: vec2<f32>,
	fill_color: vec4<f32>,
	line_color: vec4<f32>,
}

var<push_constant> c: ScreenConstants;

struct VertexInput {
	@location(0) position: vec2<f32>,
	@location(1) normal: vec2<f32>,
	@location(2) advancement: f32,
	@location(3) fill: u32,
}

struct VertexOutput {
	@builtin(position) clip_position: vec4<f32>,
	@location(0) @interpolate(flat) fill: u32,
}

@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
	var out: VertexOutput;
	var pos = in.position * c.tile_dims;
	switch in.fill {
		case 0u: {
			pos += (in.normal * c.line_width * 0.5 + c.line_translate) * c.scale;
		}
		case 1u: {
			pos += c.fill_translate * c.scale;
		}
		default: {}
	}
	let ndc = (c.offset + pos) / c.window_dims * 2.0 - 1.0;
	out.clip_position = vec4(ndc.x, -ndc.y, 0.0, 1.0);
	out.fill = in.fill;
	return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
	var color: vec4<f32>;
	switch in.fill {
		case 0u: {
			color = c.line_color;
		}
		case 1u, 2u: {
			color = c.fill_color;
		}
		default: {
			color = vec4(1.0, 0.0, 1.0, 1.0);
		}
	}
	return vec4(pow(color.rgb, vec3(2.2)), color.a);
}
`

// textShader draws glyph quads sampling the coverage atlas. Halo copies
// are tagged 1..4 and pushed outward along the four diagonals.
const textShader = `
struct TextConstants {
	scale: f32,
	halo_width: f32,
	offset: vec2<f32>,
	tile_dims: vec2<f32>,
	window_dims: vec2<f32>,
	text_color: vec4<f32>,
	halo_color: vec4<f32>,
}

var<push_constant> c: TextConstants;

struct VertexInput {
	@location(0) position: vec2<f32>,
	@location(1) uv: vec2<f32>,
	@location(2) label_offset: vec2<f32>,
	@location(3) halo: u32,
}

struct VertexOutput {
	@builtin(position) clip_position: vec4<f32>,
	@location(0) uv: vec2<f32>,
	@location(1) @interpolate(flat) halo: u32,
}

@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
	var out: VertexOutput;
	let anchor = c.offset + in.label_offset * c.tile_dims;
	var px = anchor + in.position * c.scale;
	switch in.halo {
		case 1u: {
			px += vec2(c.halo_width, c.halo_width);
		}
		case 2u: {
			px += vec2(-c.halo_width, c.halo_width);
		}
		case 3u: {
			px += vec2(c.halo_width, -c.halo_width);
		}
		case 4u: {
			px += vec2(-c.halo_width, -c.halo_width);
		}
		default: {}
	}
	let ndc = px / c.window_dims * 2.0 - 1.0;
	out.clip_position = vec4(ndc.x, -ndc.y, 0.0, 1.0);
	out.uv = in.uv;
	out.halo = in.halo;
	return out;
}

@group(0) @binding(0)
var atlas: texture_2d<f32>;
@group(0) @binding(1)
var atlas_sampler: sampler;

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
	let coverage = textureSample(atlas, atlas_sampler, in.uv).r;
	var color = c.text_color;
	if in.halo != 0u {
		color = c.halo_color;
	}
	return vec4(pow(color.rgb, vec3(2.2)), color.a * coverage);
}
`

func geoVertexLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: uint64(unsafe.Sizeof(tess.GeoVertex{})),
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x2, Offset: uint64(unsafe.Offsetof(tess.GeoVertex{}.Position)), ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x2, Offset: uint64(unsafe.Offsetof(tess.GeoVertex{}.Normal)), ShaderLocation: 1},
			{Format: wgpu.VertexFormatFloat32, Offset: uint64(unsafe.Offsetof(tess.GeoVertex{}.Advancement)), ShaderLocation: 2},
			{Format: wgpu.VertexFormatUint32, Offset: uint64(unsafe.Offsetof(tess.GeoVertex{}.Fill)), ShaderLocation: 3},
		},
	}
}

func textVertexLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: uint64(unsafe.Sizeof(tess.TextVertex{})),
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x2, Offset: uint64(unsafe.Offsetof(tess.TextVertex{}.Position)), ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x2, Offset: uint64(unsafe.Offsetof(tess.TextVertex{}.UV)), ShaderLocation: 1},
			{Format: wgpu.VertexFormatFloat32x2, Offset: uint64(unsafe.Offsetof(tess.TextVertex{}.LabelOffset)), ShaderLocation: 2},
			{Format: wgpu.VertexFormatUint32, Offset: uint64(unsafe.Offsetof(tess.TextVertex{}.Halo)), ShaderLocation: 3},
		},
	}
}
