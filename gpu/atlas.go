// Copyright 2025 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package gpu

import (
	"honnef.co/go/tilemap/text"
	"honnef.co/go/wgpu"
)

// atlasTexture mirrors the CPU-side glyph coverage atlas on the device.
// The whole atlas is re-uploaded when its version moves; glyph
// rasterization is bursty enough that partial uploads aren't worth
// tracking.
type atlasTexture struct {
	texture   *wgpu.Texture
	view      *wgpu.TextureView
	sampler   *wgpu.Sampler
	bindGroup *wgpu.BindGroup
	version   uint64
}

func newAtlasTexture(dev *wgpu.Device, layout *wgpu.BindGroupLayout) *atlasTexture {
	tex := dev.CreateTexture(&wgpu.TextureDescriptor{
		Label: "glyph atlas",
		Size: wgpu.Extent3D{
			Width:              text.AtlasSize,
			Height:             text.AtlasSize,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Format:        wgpu.TextureFormatR8Unorm,
	})
	view := tex.CreateView(nil)
	sampler := dev.CreateSampler(&wgpu.SamplerDescriptor{
		Label:        "glyph atlas sampler",
		AddressModeU: wgpu.AddressModeClampToEdge,
		AddressModeV: wgpu.AddressModeClampToEdge,
		AddressModeW: wgpu.AddressModeClampToEdge,
		MagFilter:    wgpu.FilterModeNearest,
		MinFilter:    wgpu.FilterModeNearest,
	})
	bindGroup := dev.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "glyph atlas bind group",
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: view},
			{Binding: 1, Sampler: sampler},
		},
	})
	return &atlasTexture{
		texture:   tex,
		view:      view,
		sampler:   sampler,
		bindGroup: bindGroup,
	}
}

// upload copies the atlas pixels to the device if they changed since the
// last upload.
func (a *atlasTexture) upload(queue *wgpu.Queue, atlas *text.Atlas) {
	a.version = atlas.WithPixels(a.version, func(pix []uint8) {
		queue.WriteTexture(
			&wgpu.ImageCopyTexture{
				Texture:  a.texture,
				MipLevel: 0,
				Origin:   wgpu.Origin3D{},
				Aspect:   wgpu.TextureAspectAll,
			},
			pix,
			&wgpu.TextureDataLayout{
				Offset:       0,
				BytesPerRow:  text.AtlasSize,
				RowsPerImage: text.AtlasSize,
			},
			&wgpu.Extent3D{
				Width:              text.AtlasSize,
				Height:             text.AtlasSize,
				DepthOrArrayLayers: 1,
			},
		)
	})
}
