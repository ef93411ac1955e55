// Package renderer draws the tessellated capture surface with a single
// textured-mesh WebGPU pipeline: one uniform (the view-projection matrix),
// one texture (the latest captured frame), one sampler. The camera sits
// inside the surface, so back-face culling is disabled.
package renderer

import (
	_ "embed"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/spheredesk/spheredesk/common"
	"github.com/spheredesk/spheredesk/engine/mesh"
)

// surfaceShaderSource is the WGSL for the textured surface pipeline. The
// VertexInput struct must match mesh.Vertex (20-byte stride).
//
//go:embed assets/surface.wgsl
var surfaceShaderSource string

const vertexStride = 20 // 3 floats position + 2 floats texcoord

// Renderer owns the GPU resources for the curved-surface scene and the
// per-frame lifecycle: acquire swapchain texture, one render pass, present.
type Renderer interface {
	// Resize reconfigures the surface and depth buffer for a new framebuffer size.
	//
	// Parameters:
	//   - width: new framebuffer width in pixels
	//   - height: new framebuffer height in pixels
	Resize(width, height int)

	// SetMesh uploads a new surface tessellation, growing the GPU buffers
	// when the new mesh does not fit in the existing ones.
	//
	// Parameters:
	//   - vertices: the vertex grid from the mesh generator
	//   - indices: triangle list indices
	SetMesh(vertices []mesh.Vertex, indices []uint32)

	// UpdateTexture uploads captured RGBA pixels, recreating the GPU texture
	// (and the bind group referencing it) when the capture dimensions change.
	//
	// Parameters:
	//   - staging: RGBA pixel data with dimensions
	//
	// Returns:
	//   - error: an error if texture creation fails
	UpdateTexture(staging common.TextureStagingData) error

	// RenderFrame draws the surface with the given view-projection matrix and
	// presents. A frame with no mesh or texture yet still clears and presents.
	//
	// Parameters:
	//   - viewProj: column-major combined view-projection matrix
	//
	// Returns:
	//   - error: an error if the swapchain texture could not be acquired
	RenderFrame(viewProj [16]float32) error

	// Release frees all GPU resources. The renderer is unusable afterwards.
	Release()
}

type wgpuRenderer struct {
	mu *sync.Mutex

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	surface  *wgpu.Surface

	surfaceFormat        *wgpu.TextureFormat
	depthTextureView     *wgpu.TextureView
	renderPassDescriptor *wgpu.RenderPassDescriptor
	presentMode          wgpu.PresentMode

	pipeline        *wgpu.RenderPipeline
	bindGroupLayout *wgpu.BindGroupLayout
	bindGroup       *wgpu.BindGroup

	uniformBuffer *wgpu.Buffer
	sampler       *wgpu.Sampler

	captureTexture *wgpu.Texture
	captureView    *wgpu.TextureView
	captureWidth   uint32
	captureHeight  uint32

	vertexBuffer *wgpu.Buffer
	indexBuffer  *wgpu.Buffer
	vertexCap    uint64 // allocated vertex buffer size in bytes
	indexCap     uint64 // allocated index buffer size in bytes
	indexCount   uint32
}

var _ Renderer = &wgpuRenderer{}

// NewRenderer brings up the WebGPU instance, adapter, device, and surface for
// the given descriptor, configures the swapchain, and builds the single
// textured-mesh render pipeline.
//
// Parameters:
//   - options: functional options (surface descriptor and size are required)
//
// Returns:
//   - Renderer: the configured renderer
//   - error: an error if GPU bring-up fails
func NewRenderer(options ...RendererOption) (Renderer, error) {
	runtime.LockOSThread()

	cfg := rendererConfig{
		presentMode: wgpu.PresentModeFifo,
		sampler:     defaultSampler(),
	}
	for _, opt := range options {
		opt(&cfg)
	}
	if cfg.surfaceDescriptor == nil {
		return nil, errors.New("renderer: a surface descriptor is required")
	}
	if cfg.width <= 0 || cfg.height <= 0 {
		return nil, fmt.Errorf("renderer: invalid surface size %dx%d", cfg.width, cfg.height)
	}

	r := &wgpuRenderer{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: cfg.presentMode,
	}
	r.surface = r.instance.CreateSurface(cfg.surfaceDescriptor)

	adapter, err := r.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: r.surface,
	})
	if err != nil {
		return nil, fmt.Errorf("renderer: failed to acquire adapter: %w", err)
	}
	r.adapter = adapter

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Spheredesk Device",
	})
	if err != nil {
		return nil, fmt.Errorf("renderer: failed to acquire device: %w", err)
	}
	r.device = device
	r.queue = device.GetQueue()

	r.configureSurface(cfg.width, cfg.height)

	if err := r.initPipeline(); err != nil {
		return nil, err
	}
	if err := r.initStaticResources(cfg.sampler); err != nil {
		return nil, err
	}

	return r, nil
}

// configureSurface (re)configures the swapchain and rebuilds the depth
// texture and the cached render pass descriptor. Caller must not hold the mutex.
func (r *wgpuRenderer) configureSurface(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	capabilities := r.surface.GetCapabilities(r.adapter)
	r.surfaceFormat = &capabilities.Formats[0]

	r.surface.Configure(r.adapter, r.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      *r.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: r.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	if r.depthTextureView != nil {
		r.depthTextureView.Release()
	}
	depthTexture, err := r.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Depth Texture",
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		panic(err)
	}
	r.depthTextureView, err = depthTexture.CreateView(nil)
	if err != nil {
		panic(err)
	}

	// Cached pass descriptor; the swapchain view is filled in per frame.
	r.renderPassDescriptor = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:    nil, // set per-frame to the swapchain view
				LoadOp:  wgpu.LoadOpClear,
				StoreOp: wgpu.StoreOpStore,
				ClearValue: wgpu.Color{
					R: 0, G: 0, B: 0, A: 1.0,
				},
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            r.depthTextureView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	}
}

// initPipeline compiles the surface shader and builds the render pipeline
// with the fixed bind group layout (uniform, texture, sampler).
func (r *wgpuRenderer) initPipeline() error {
	module, err := r.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "surface_shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: surfaceShaderSource,
		},
	})
	if err != nil {
		return fmt.Errorf("renderer: failed to compile surface shader: %w", err)
	}

	uniformEntry := wgpu.BindGroupLayoutEntry{
		Binding:    0,
		Visibility: wgpu.ShaderStageVertex,
	}
	uniformEntry.Buffer.Type = wgpu.BufferBindingTypeUniform
	uniformEntry.Buffer.MinBindingSize = 64

	textureEntry := wgpu.BindGroupLayoutEntry{
		Binding:    1,
		Visibility: wgpu.ShaderStageFragment,
	}
	textureEntry.Texture.SampleType = wgpu.TextureSampleTypeFloat
	textureEntry.Texture.ViewDimension = wgpu.TextureViewDimension2D

	samplerEntry := wgpu.BindGroupLayoutEntry{
		Binding:    2,
		Visibility: wgpu.ShaderStageFragment,
	}
	samplerEntry.Sampler.Type = wgpu.SamplerBindingTypeFiltering

	layout, err := r.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   "Surface Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{uniformEntry, textureEntry, samplerEntry},
	})
	if err != nil {
		return fmt.Errorf("renderer: failed to create bind group layout: %w", err)
	}
	r.bindGroupLayout = layout

	pipelineLayout, err := r.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "surface",
		BindGroupLayouts: []*wgpu.BindGroupLayout{layout},
	})
	if err != nil {
		return fmt.Errorf("renderer: failed to create pipeline layout: %w", err)
	}

	pipeline, err := r.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "Surface Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: vertexStride,
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
						{Format: wgpu.VertexFormatFloat32x2, Offset: 12, ShaderLocation: 1},
					},
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    *r.surfaceFormat,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			// Viewed from inside the surface, so no culling.
			CullMode: wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("renderer: failed to create render pipeline: %w", err)
	}
	r.pipeline = pipeline

	return nil
}

// initStaticResources creates the uniform buffer and the capture sampler,
// the two bind group members that never change size.
func (r *wgpuRenderer) initStaticResources(staging common.SamplerStagingData) error {
	uniform, err := r.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Camera Uniform Buffer",
		Size:  64,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("renderer: failed to create uniform buffer: %w", err)
	}
	r.uniformBuffer = uniform

	defaults := defaultSampler()
	sampler, err := r.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Capture Sampler",
		AddressModeU:  common.Coalesce(staging.AddressModeU, defaults.AddressModeU),
		AddressModeV:  common.Coalesce(staging.AddressModeV, defaults.AddressModeV),
		AddressModeW:  common.Coalesce(staging.AddressModeW, defaults.AddressModeW),
		MagFilter:     common.Coalesce(staging.MagFilter, defaults.MagFilter),
		MinFilter:     common.Coalesce(staging.MinFilter, defaults.MinFilter),
		MipmapFilter:  common.Coalesce(staging.MipmapFilter, defaults.MipmapFilter),
		LodMinClamp:   staging.LodMinClamp,
		LodMaxClamp:   common.Coalesce(staging.LodMaxClamp, defaults.LodMaxClamp),
		MaxAnisotropy: common.Coalesce(staging.MaxAnisotropy, defaults.MaxAnisotropy),
	})
	if err != nil {
		return fmt.Errorf("renderer: failed to create sampler: %w", err)
	}
	r.sampler = sampler

	return nil
}

func (r *wgpuRenderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.configureSurface(width, height)
}

func (r *wgpuRenderer) SetMesh(vertices []mesh.Vertex, indices []uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()

	vertexData := common.SliceToBytes(vertices)
	indexData := common.SliceToBytes(indices)

	if r.vertexBuffer == nil || uint64(len(vertexData)) > r.vertexCap {
		if r.vertexBuffer != nil {
			r.vertexBuffer.Release()
		}
		buf, err := r.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "Surface Vertex Buffer",
			Size:  uint64(len(vertexData)),
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			panic(err)
		}
		r.vertexBuffer = buf
		r.vertexCap = uint64(len(vertexData))
	}
	r.queue.WriteBuffer(r.vertexBuffer, 0, vertexData)

	if r.indexBuffer == nil || uint64(len(indexData)) > r.indexCap {
		if r.indexBuffer != nil {
			r.indexBuffer.Release()
		}
		buf, err := r.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "Surface Index Buffer",
			Size:  uint64(len(indexData)),
			Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			panic(err)
		}
		r.indexBuffer = buf
		r.indexCap = uint64(len(indexData))
	}
	r.queue.WriteBuffer(r.indexBuffer, 0, indexData)
	r.indexCount = uint32(len(indices))
}

func (r *wgpuRenderer) UpdateTexture(staging common.TextureStagingData) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if staging.Width == 0 || staging.Height == 0 || len(staging.Pixels) == 0 {
		return nil
	}

	if r.captureTexture == nil || staging.Width != r.captureWidth || staging.Height != r.captureHeight {
		if r.captureView != nil {
			r.captureView.Release()
		}
		if r.captureTexture != nil {
			r.captureTexture.Release()
		}
		tex, err := r.device.CreateTexture(&wgpu.TextureDescriptor{
			Label:     "Capture Texture",
			Usage:     wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
			Dimension: wgpu.TextureDimension2D,
			Size: wgpu.Extent3D{
				Width:              staging.Width,
				Height:             staging.Height,
				DepthOrArrayLayers: 1,
			},
			Format:        wgpu.TextureFormatRGBA8UnormSrgb,
			MipLevelCount: 1,
			SampleCount:   1,
		})
		if err != nil {
			return fmt.Errorf("renderer: failed to create capture texture: %w", err)
		}
		view, err := tex.CreateView(nil)
		if err != nil {
			tex.Release()
			return fmt.Errorf("renderer: failed to create capture texture view: %w", err)
		}
		r.captureTexture = tex
		r.captureView = view
		r.captureWidth = staging.Width
		r.captureHeight = staging.Height

		if err := r.rebuildBindGroup(); err != nil {
			return err
		}
	}

	r.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  r.captureTexture,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		staging.Pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  staging.Width * 4,
			RowsPerImage: staging.Height,
		},
		&wgpu.Extent3D{
			Width:              staging.Width,
			Height:             staging.Height,
			DepthOrArrayLayers: 1,
		},
	)

	return nil
}

// rebuildBindGroup recreates the bind group after the capture texture view
// changed. Caller must hold the mutex.
func (r *wgpuRenderer) rebuildBindGroup() error {
	if r.bindGroup != nil {
		r.bindGroup.Release()
		r.bindGroup = nil
	}
	bindGroup, err := r.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Surface Bind Group",
		Layout: r.bindGroupLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: r.uniformBuffer, Offset: 0, Size: wgpu.WholeSize},
			{Binding: 1, TextureView: r.captureView},
			{Binding: 2, Sampler: r.sampler},
		},
	})
	if err != nil {
		return fmt.Errorf("renderer: failed to create bind group: %w", err)
	}
	r.bindGroup = bindGroup
	return nil
}

func (r *wgpuRenderer) RenderFrame(viewProj [16]float32) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.queue.WriteBuffer(r.uniformBuffer, 0, common.StructToBytes(&viewProj))

	surfaceTexture, err := r.surface.GetCurrentTexture()
	if err != nil {
		return err
	}
	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return err
	}

	encoder, err := r.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return err
	}

	r.renderPassDescriptor.ColorAttachments[0].View = view
	pass := encoder.BeginRenderPass(r.renderPassDescriptor)

	if r.bindGroup != nil && r.vertexBuffer != nil && r.indexCount > 0 {
		pass.SetPipeline(r.pipeline)
		pass.SetBindGroup(0, r.bindGroup, nil)
		pass.SetVertexBuffer(0, r.vertexBuffer, 0, wgpu.WholeSize)
		pass.SetIndexBuffer(r.indexBuffer, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
		pass.DrawIndexed(r.indexCount, 1, 0, 0, 0)
	}
	pass.End()

	commandBuffer, err := encoder.Finish(nil)
	if err == nil {
		r.queue.Submit(commandBuffer)
		commandBuffer.Release()
	}
	encoder.Release()

	r.surface.Present()

	view.Release()
	surfaceTexture.Release()
	return nil
}

func (r *wgpuRenderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.bindGroup != nil {
		r.bindGroup.Release()
	}
	if r.captureView != nil {
		r.captureView.Release()
	}
	if r.captureTexture != nil {
		r.captureTexture.Release()
	}
	if r.vertexBuffer != nil {
		r.vertexBuffer.Release()
	}
	if r.indexBuffer != nil {
		r.indexBuffer.Release()
	}
	if r.uniformBuffer != nil {
		r.uniformBuffer.Release()
	}
	if r.sampler != nil {
		r.sampler.Release()
	}
	if r.depthTextureView != nil {
		r.depthTextureView.Release()
	}
	if r.device != nil {
		r.device.Release()
	}
}
