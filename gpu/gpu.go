// Copyright 2025 Dominik Honnef and contributors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package gpu renders uploaded tile meshes to a texture view. It owns
// the pipelines, the multisampled framebuffer, the device-side glyph
// atlas, and the tile mesh cache; it does not own the device, queue or
// surface, which belong to the embedding application.
package gpu

import (
	"math"

	"github.com/paulmach/orb/maptile"

	"honnef.co/go/tilemap/style"
	"honnef.co/go/tilemap/tess"
	"honnef.co/go/tilemap/text"
	"honnef.co/go/tilemap/tmath"
	"honnef.co/go/wgpu"
)

// Samples is the MSAA sample count of the intermediate framebuffer.
const Samples = 4

// TileDraw places one cached tile mesh at a window-space rectangle.
type TileDraw struct {
	ID   maptile.Tile
	Rect tmath.Rect[int32]
}

// Frame is everything the renderer needs to compose one frame. Tiles
// are drawn in slice order; tiles without a cached mesh are skipped,
// leaving the clear color visible.
type Frame struct {
	Window     tmath.V2[uint32]
	Scale      float32
	ClearColor style.Color
	Tiles      []TileDraw
}

// Renderer composes frames out of cached tile meshes.
type Renderer struct {
	dev    *wgpu.Device
	queue  *wgpu.Queue
	format wgpu.TextureFormat

	tilePipeline   *wgpu.RenderPipeline
	screenPipeline *wgpu.RenderPipeline
	textPipeline   *wgpu.RenderPipeline

	window   tmath.V2[uint32]
	msaaView *wgpu.TextureView

	atlas *atlasTexture
	cache *tileCache

	// placed accumulates label collision boxes across one frame.
	placed []tmath.Rect[float32]
}

func NewRenderer(dev *wgpu.Device, queue *wgpu.Queue, format wgpu.TextureFormat, window tmath.V2[uint32]) *Renderer {
	r := &Renderer{
		dev:    dev,
		queue:  queue,
		format: format,
		cache:  newTileCache(),
	}

	geoLayout := dev.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label: "tile pipeline layout",
		PushConstantRanges: []wgpu.PushConstantRange{
			{
				Stages: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Start:  0,
				End:    PushConstantLimit,
			},
		},
	})
	r.tilePipeline = r.makePipeline("tile pipeline", tileShader, geoLayout, geoVertexLayout())
	r.screenPipeline = r.makePipeline("screen pipeline", screenShader, geoLayout, geoVertexLayout())

	atlasBindLayout := dev.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "glyph atlas layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Texture: &wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: &wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		},
	})
	textLayout := dev.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "text pipeline layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{atlasBindLayout},
		PushConstantRanges: []wgpu.PushConstantRange{
			{
				Stages: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Start:  0,
				End:    PushConstantLimit,
			},
		},
	})
	r.textPipeline = r.makePipeline("text pipeline", textShader, textLayout, textVertexLayout())
	r.atlas = newAtlasTexture(dev, atlasBindLayout)

	r.Resize(window)
	return r
}

func (r *Renderer) makePipeline(label, src string, layout *wgpu.PipelineLayout, vertexLayout wgpu.VertexBufferLayout) *wgpu.RenderPipeline {
	shader := r.dev.MustCreateShaderModule(wgpu.ShaderModuleDescriptor{
		Label:  label,
		Source: wgpu.ShaderSourceWGSL(src),
	})
	return r.dev.MustCreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  label,
		Layout: layout,
		Vertex: &wgpu.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
			Buffers:    []wgpu.VertexBufferLayout{vertexLayout},
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format: r.format,
					Blend: &wgpu.BlendState{
						Color: wgpu.BlendComponent{
							Operation: wgpu.BlendOperationAdd,
							SrcFactor: wgpu.BlendFactorSrcAlpha,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						},
						Alpha: wgpu.BlendComponent{
							Operation: wgpu.BlendOperationAdd,
							SrcFactor: wgpu.BlendFactorOne,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						},
					},
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: &wgpu.PrimitiveState{
			Topology:         wgpu.PrimitiveTopologyTriangleList,
			StripIndexFormat: ^wgpu.IndexFormat(0),
			FrontFace:        wgpu.FrontFaceCCW,
			CullMode:         wgpu.CullModeNone,
		},
		Multisample: &wgpu.MultisampleState{
			Count: Samples,
			Mask:  ^uint32(0),
		},
	})
}

// Resize recreates the multisampled framebuffer for a new window size.
func (r *Renderer) Resize(window tmath.V2[uint32]) {
	if r.msaaView != nil {
		if window == r.window {
			return
		}
		r.msaaView.Release()
	}
	r.window = window
	tex := r.dev.CreateTexture(&wgpu.TextureDescriptor{
		Label: "msaa framebuffer",
		Size: wgpu.Extent3D{
			Width:              window.X,
			Height:             window.Y,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   Samples,
		Dimension:     wgpu.TextureDimension2D,
		Usage:         wgpu.TextureUsageRenderAttachment,
		Format:        r.format,
	})
	defer tex.Release()
	r.msaaView = tex.CreateView(nil)
}

// Upload tessellation results for a tile and remember the mesh. Safe to
// call from worker goroutines.
func (r *Renderer) Upload(id maptile.Tile, geo *tess.Mesh, features []FeatureDraw, textMesh *tess.TextMesh, labelLayers []LabelLayerDraw) {
	r.cache.insert(NewTileMesh(r.dev, r.queue, id, geo, features, textMesh, labelLayers))
}

// Has reports whether a mesh for the tile is cached.
func (r *Renderer) Has(id maptile.Tile) bool {
	return r.cache.has(id)
}

// Render composes one frame into target: a clear, the tile geometry
// pass, then the label pass on top. Labels collide against each other
// across the whole frame; the first placed label wins.
func (r *Renderer) Render(target *wgpu.TextureView, frame *Frame, atlas *text.Atlas) {
	r.atlas.upload(r.queue, atlas)

	encoder := r.dev.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: "frame"})
	defer encoder.Release()

	r.geometryPass(encoder, target, frame)
	r.labelPass(encoder, target, frame)

	cmd := encoder.Finish(nil)
	defer cmd.Release()
	r.queue.Submit(cmd)
}

func (r *Renderer) geometryPass(encoder *wgpu.CommandEncoder, target *wgpu.TextureView, frame *Frame) {
	clear := frame.ClearColor
	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "tile geometry",
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:          r.msaaView,
				ResolveTarget: target,
				LoadOp:        wgpu.LoadOpClear,
				StoreOp:       wgpu.StoreOpStore,
				ClearValue: wgpu.Color{
					R: math.Pow(float64(clear.R), 2.2),
					G: math.Pow(float64(clear.G), 2.2),
					B: math.Pow(float64(clear.B), 2.2),
					A: float64(clear.A),
				},
			},
		},
	})
	defer pass.Release()

	var current *wgpu.RenderPipeline
	for _, td := range frame.Tiles {
		mesh := r.cache.get(td.ID)
		if mesh == nil || mesh.geoIndices == nil {
			continue
		}
		scissor, ok := tmath.ToScissor(td.Rect, frame.Window)
		if !ok {
			continue
		}
		pass.SetScissorRect(scissor.Min.X, scissor.Min.Y, scissor.Width(), scissor.Height())
		pass.SetVertexBuffer(0, mesh.geoVertices, 0, wgpu.WholeSize)
		pass.SetIndexBuffer(mesh.geoIndices, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)

		for _, f := range mesh.features {
			if f.Elements.Len() == 0 {
				continue
			}
			switch f.Layer.Kind {
			case style.Background:
				if current != r.screenPipeline {
					current = r.screenPipeline
					pass.SetPipeline(current)
				}
				pc := PackScreen(&f.Layer.Paint, td.Rect, frame.Window, frame.Scale)
				pass.SetPushConstants(wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, 0, pc.Bytes())
			case style.Fill, style.Line:
				if current != r.tilePipeline {
					current = r.tilePipeline
					pass.SetPipeline(current)
				}
				pc := PackTile(&f.Layer.Paint, f.Layer.Kind, f.Extent, td.Rect, frame.Window)
				pass.SetPushConstants(wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, 0, pc.Bytes())
			default:
				continue
			}
			pass.DrawIndexed(f.Elements.Len(), 1, f.Elements.Start, 0, 0)
		}
	}
	pass.End()
}

func (r *Renderer) labelPass(encoder *wgpu.CommandEncoder, target *wgpu.TextureView, frame *Frame) {
	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "labels",
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:          r.msaaView,
				ResolveTarget: target,
				LoadOp:        wgpu.LoadOpLoad,
				StoreOp:       wgpu.StoreOpStore,
			},
		},
	})
	defer pass.Release()

	pass.SetPipeline(r.textPipeline)
	pass.SetBindGroup(0, r.atlas.bindGroup, nil)

	r.placed = r.placed[:0]
	for _, td := range frame.Tiles {
		mesh := r.cache.get(td.ID)
		if mesh == nil || mesh.textIndices == nil {
			continue
		}
		pass.SetVertexBuffer(0, mesh.textVertices, 0, wgpu.WholeSize)
		pass.SetIndexBuffer(mesh.textIndices, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)

		rectMin := tmath.Convert[float32](td.Rect.Min)
		rectDims := tmath.Convert[float32](td.Rect.Dimensions())

		// Later style layers sit on top, so they get first pick of the
		// available space.
		for i := len(mesh.labelLayers) - 1; i >= 0; i-- {
			ll := mesh.labelLayers[i]
			pc := PackText(&ll.Layer.Paint, td.Rect, frame.Window, frame.Scale)
			pass.SetPushConstants(wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, 0, pc.Bytes())

			for _, label := range ll.Labels {
				anchor := rectMin.Add(label.Point.Mul(rectDims))
				bounds := tmath.NewRect(
					label.Bounds.Min.Scale(frame.Scale).Add(anchor),
					label.Bounds.Max.Scale(frame.Scale).Add(anchor),
				)
				if r.collides(bounds) {
					continue
				}
				r.placed = append(r.placed, bounds)

				start := label.Elements.Start
				if ll.Layer.Paint.TextHaloWidth > 0 && label.HaloElements.Len() > 0 {
					start = label.HaloElements.Start
				}
				pass.DrawIndexed(label.Elements.End-start, 1, start, 0, 0)
			}
		}
	}
	pass.End()
}

func (r *Renderer) collides(bounds tmath.Rect[float32]) bool {
	for _, p := range r.placed {
		if p.Overlaps(bounds) {
			return true
		}
	}
	return false
}
