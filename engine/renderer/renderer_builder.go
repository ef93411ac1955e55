package renderer

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/spheredesk/spheredesk/common"
)

type rendererConfig struct {
	surfaceDescriptor *wgpu.SurfaceDescriptor
	width             int
	height            int
	presentMode       wgpu.PresentMode
	sampler           common.SamplerStagingData
}

// defaultSampler suits the capture texture: U repeats so azimuth seam
// samples wrap, V clamps at the poles.
func defaultSampler() common.SamplerStagingData {
	return common.SamplerStagingData{
		AddressModeU:  wgpu.AddressModeRepeat,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMinClamp:   0.0,
		LodMaxClamp:   32.0,
		MaxAnisotropy: 1,
	}
}

// RendererOption configures the renderer during construction.
type RendererOption func(*rendererConfig)

// WithSurfaceDescriptor sets the platform surface the renderer presents to.
//
// Parameters:
//   - descriptor: the window system surface descriptor
//
// Returns:
//   - RendererOption: the option to apply
func WithSurfaceDescriptor(descriptor *wgpu.SurfaceDescriptor) RendererOption {
	return func(cfg *rendererConfig) {
		cfg.surfaceDescriptor = descriptor
	}
}

// WithSize sets the initial framebuffer size in pixels.
//
// Parameters:
//   - width: framebuffer width
//   - height: framebuffer height
//
// Returns:
//   - RendererOption: the option to apply
func WithSize(width, height int) RendererOption {
	return func(cfg *rendererConfig) {
		cfg.width = width
		cfg.height = height
	}
}

// WithSampler overrides the capture texture sampler configuration.
//
// Parameters:
//   - staging: the sampler configuration to use
//
// Returns:
//   - RendererOption: the option to apply
func WithSampler(staging common.SamplerStagingData) RendererOption {
	return func(cfg *rendererConfig) {
		cfg.sampler = staging
	}
}

// WithVSync selects the present mode. VSync on uses FIFO presentation,
// off uses immediate presentation.
//
// Parameters:
//   - enabled: whether presentation waits for vertical sync
//
// Returns:
//   - RendererOption: the option to apply
func WithVSync(enabled bool) RendererOption {
	return func(cfg *rendererConfig) {
		if enabled {
			cfg.presentMode = wgpu.PresentModeFifo
		} else {
			cfg.presentMode = wgpu.PresentModeImmediate
		}
	}
}
