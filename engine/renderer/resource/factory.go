// Package resource provides pure factory functions over explicit WebGPU
// device and queue handles. Nothing in this package holds state; every
// created handle is owned by the caller and must be released exactly once.
package resource

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/strata-gfx/strata-go/engine/core"
	"github.com/strata-gfx/strata-go/engine/geometry"
	"github.com/strata-gfx/strata-go/engine/renderer/shader"
)

// Buffer layout contract shared with the shader text. These must not drift
// from the WGSL vertex/instance inputs and uniform structs.
const (
	// VertexStride is the byte stride of vertex slot 0: position, normal,
	// UV, 8 floats interleaved.
	VertexStride = uint64(geometry.VertexFloats * 4)

	// InstanceFloats is the number of packed floats per instance record:
	// a row of 16 for the 4x4 transform followed by 3 for RGB color.
	InstanceFloats = 19

	// InstanceStride is the byte stride of instance slot 1.
	InstanceStride = uint64(InstanceFloats * 4)

	// CameraUniformSize covers three 4x4 float matrices: view, projection,
	// view_projection.
	CameraUniformSize = uint64(3 * 16 * 4)

	// LightUniformSize covers the WGSL-padded Light struct: direction
	// vec3 at offset 0, color vec3 at 16, ambient vec3 at 32, intensity
	// f32 at 44.
	LightUniformSize = uint64(48)

	// DepthFormat is the fixed depth-only format for the depth attachment.
	DepthFormat = wgpu.TextureFormatDepth24Plus
)

// CreateBuffer creates a GPU buffer, uploading initial data through the queue
// when supplied. Returns nil and logs at error level when the device is
// absent or the size is zero.
//
// Parameters:
//   - device: the GPU device, must be non-nil
//   - queue: the submission queue, required only when data is supplied
//   - label: debug label attached to the buffer
//   - size: buffer size in bytes, must be non-zero
//   - usage: buffer usage flags; CopyDst is added when data is supplied
//   - data: optional initial contents, at most size bytes
//
// Returns:
//   - *wgpu.Buffer: the created buffer, or nil on failure
//   - error: the creation failure, or nil
func CreateBuffer(device *wgpu.Device, queue *wgpu.Queue, label string, size uint64, usage wgpu.BufferUsage, data []byte) (*wgpu.Buffer, error) {
	if device == nil {
		core.LogError("create buffer %q: no device", label)
		return nil, errors.New("resource: create buffer without device")
	}
	if size == 0 {
		core.LogError("create buffer %q: zero size", label)
		return nil, errors.New("resource: create buffer with zero size")
	}
	if len(data) > 0 {
		if queue == nil {
			core.LogError("create buffer %q: initial data without queue", label)
			return nil, errors.New("resource: initial data without queue")
		}
		usage |= wgpu.BufferUsageCopyDst
	}
	buf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: usage,
	})
	if err != nil {
		core.LogError("create buffer %q (size %d): %v", label, size, err)
		return nil, fmt.Errorf("resource: create buffer %q (size %d): %w", label, size, err)
	}
	if len(data) > 0 {
		queue.WriteBuffer(buf, 0, data)
	}
	return buf, nil
}

// UpdateBuffer is a fire-and-forget write into an existing buffer. Nil
// arguments or empty data skip the write with a warning instead of failing.
func UpdateBuffer(queue *wgpu.Queue, buffer *wgpu.Buffer, offset uint64, data []byte) {
	if queue == nil || buffer == nil || len(data) == 0 {
		core.LogWarn("update buffer skipped: queue=%v buffer=%v bytes=%d", queue != nil, buffer != nil, len(data))
		return
	}
	queue.WriteBuffer(buffer, offset, data)
}

// CreateTexture2D creates a single-mip, single-sample 2D texture.
func CreateTexture2D(device *wgpu.Device, label string, width, height uint32, format wgpu.TextureFormat, usage wgpu.TextureUsage) (*wgpu.Texture, error) {
	if device == nil {
		core.LogError("create texture %q: no device", label)
		return nil, errors.New("resource: create texture without device")
	}
	if width == 0 || height == 0 {
		core.LogError("create texture %q: zero dimension %dx%d", label, width, height)
		return nil, errors.New("resource: create texture with zero dimension")
	}
	tex, err := device.CreateTexture(&wgpu.TextureDescriptor{
		Label:     label,
		Usage:     usage,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
		Format:        format,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		core.LogError("create texture %q (%dx%d): %v", label, width, height, err)
		return nil, fmt.Errorf("resource: create texture %q (%dx%d): %w", label, width, height, err)
	}
	return tex, nil
}

// CreateDepthTexture creates the fixed-format depth attachment texture for a
// surface of the given size.
func CreateDepthTexture(device *wgpu.Device, width, height uint32) (*wgpu.Texture, error) {
	return CreateTexture2D(device, "Depth Texture", width, height, DepthFormat, wgpu.TextureUsageRenderAttachment)
}

// CreateDepthTextureView creates the render-attachment view over a depth
// texture.
func CreateDepthTextureView(texture *wgpu.Texture) (*wgpu.TextureView, error) {
	if texture == nil {
		core.LogError("create depth texture view: no texture")
		return nil, errors.New("resource: create depth view without texture")
	}
	view, err := texture.CreateView(nil)
	if err != nil {
		core.LogError("create depth texture view: %v", err)
		return nil, fmt.Errorf("resource: create depth view: %w", err)
	}
	return view, nil
}

// CreateShaderModule wraps WGSL source text in a shader module.
func CreateShaderModule(device *wgpu.Device, label, source string) (*wgpu.ShaderModule, error) {
	if device == nil || source == "" {
		core.LogError("create shader module %q: device=%v source bytes=%d", label, device != nil, len(source))
		return nil, errors.New("resource: create shader module without device or source")
	}
	module, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: label,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: source,
		},
	})
	if err != nil {
		core.LogError("create shader module %q: %v", label, err)
		return nil, fmt.Errorf("resource: create shader module %q: %w", label, err)
	}
	return module, nil
}

// GeometryVertexLayouts returns the two vertex buffer slot layouts consumed
// by the geometry vertex shader: slot 0 per-vertex (position, normal, UV at
// locations 0-2), slot 1 per-instance (four transform columns and a color at
// locations 3-7).
func GeometryVertexLayouts() []wgpu.VertexBufferLayout {
	return []wgpu.VertexBufferLayout{
		{
			ArrayStride: VertexStride,
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes: []wgpu.VertexAttribute{
				{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
				{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
				{Format: wgpu.VertexFormatFloat32x2, Offset: 24, ShaderLocation: 2},
			},
		},
		{
			ArrayStride: InstanceStride,
			StepMode:    wgpu.VertexStepModeInstance,
			Attributes: []wgpu.VertexAttribute{
				{Format: wgpu.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 3},
				{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 4},
				{Format: wgpu.VertexFormatFloat32x4, Offset: 32, ShaderLocation: 5},
				{Format: wgpu.VertexFormatFloat32x4, Offset: 48, ShaderLocation: 6},
				{Format: wgpu.VertexFormatFloat32x3, Offset: 64, ShaderLocation: 7},
			},
		},
	}
}

// GeometryPipeline bundles the default pipeline with the two bind group
// layouts derived while building it. The caller owns all three handles.
type GeometryPipeline struct {
	Pipeline     *wgpu.RenderPipeline
	CameraLayout *wgpu.BindGroupLayout
	LightLayout  *wgpu.BindGroupLayout
}

// Release releases the pipeline and both layouts.
func (p *GeometryPipeline) Release() {
	if p.Pipeline != nil {
		p.Pipeline.Release()
		p.Pipeline = nil
	}
	if p.CameraLayout != nil {
		p.CameraLayout.Release()
		p.CameraLayout = nil
	}
	if p.LightLayout != nil {
		p.LightLayout.Release()
		p.LightLayout = nil
	}
}

// CreateGeometryPipeline builds the fixed instanced-geometry pipeline:
// two vertex slots per GeometryVertexLayouts, triangle-list topology,
// back-face culling with counter-clockwise front faces, standard alpha
// blending against the surface format, depth-tested Less against
// Depth24Plus, no multisampling. The camera layout exposes one uniform
// buffer to the vertex stage, the light layout one uniform buffer to the
// fragment stage. The intermediate pipeline layout is released before
// returning.
//
// Parameters:
//   - device: the GPU device
//   - surfaceFormat: the configured surface color format
//   - vsModule: compiled vertex shader module
//   - fsModule: compiled fragment shader module
//
// Returns:
//   - *GeometryPipeline: pipeline plus camera/light bind group layouts
//   - error: nil on success
func CreateGeometryPipeline(device *wgpu.Device, surfaceFormat wgpu.TextureFormat, vsModule, fsModule *wgpu.ShaderModule) (*GeometryPipeline, error) {
	if device == nil || vsModule == nil || fsModule == nil {
		core.LogError("create geometry pipeline: device=%v vs=%v fs=%v", device != nil, vsModule != nil, fsModule != nil)
		return nil, errors.New("resource: create pipeline with missing device or shader module")
	}

	cameraLayout, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Camera Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: CameraUniformSize,
				},
			},
		},
	})
	if err != nil {
		core.LogError("create camera bind group layout: %v", err)
		return nil, fmt.Errorf("resource: create camera layout: %w", err)
	}

	lightLayout, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Light Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: LightUniformSize,
				},
			},
		},
	})
	if err != nil {
		cameraLayout.Release()
		core.LogError("create light bind group layout: %v", err)
		return nil, fmt.Errorf("resource: create light layout: %w", err)
	}

	pipelineLayout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Geometry Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{cameraLayout, lightLayout},
	})
	if err != nil {
		cameraLayout.Release()
		lightLayout.Release()
		core.LogError("create geometry pipeline layout: %v", err)
		return nil, fmt.Errorf("resource: create pipeline layout: %w", err)
	}
	defer pipelineLayout.Release()

	pipeline, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "Geometry Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     vsModule,
			EntryPoint: shader.VertexEntryPoint,
			Buffers:    GeometryVertexLayouts(),
		},
		Fragment: &wgpu.FragmentState{
			Module:     fsModule,
			EntryPoint: shader.FragmentEntryPoint,
			Targets: []wgpu.ColorTargetState{
				{
					Format: surfaceFormat,
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
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeBack,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            DepthFormat,
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
		cameraLayout.Release()
		lightLayout.Release()
		core.LogError("create geometry render pipeline: %v", err)
		return nil, fmt.Errorf("resource: create render pipeline: %w", err)
	}

	return &GeometryPipeline{
		Pipeline:     pipeline,
		CameraLayout: cameraLayout,
		LightLayout:  lightLayout,
	}, nil
}

// CreateCameraUniformBuffer creates the fixed-size camera uniform buffer.
func CreateCameraUniformBuffer(device *wgpu.Device) (*wgpu.Buffer, error) {
	return CreateBuffer(device, nil, "Camera Uniform Buffer", CameraUniformSize,
		wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst, nil)
}

// CreateLightUniformBuffer creates the fixed-size light uniform buffer.
func CreateLightUniformBuffer(device *wgpu.Device) (*wgpu.Buffer, error) {
	return CreateBuffer(device, nil, "Light Uniform Buffer", LightUniformSize,
		wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst, nil)
}

// CreateCameraBindGroup binds the camera uniform buffer at binding 0 of the
// camera layout.
func CreateCameraBindGroup(device *wgpu.Device, layout *wgpu.BindGroupLayout, buffer *wgpu.Buffer) (*wgpu.BindGroup, error) {
	return createUniformBindGroup(device, "Camera Bind Group", layout, buffer)
}

// CreateLightBindGroup binds the light uniform buffer at binding 0 of the
// light layout.
func CreateLightBindGroup(device *wgpu.Device, layout *wgpu.BindGroupLayout, buffer *wgpu.Buffer) (*wgpu.BindGroup, error) {
	return createUniformBindGroup(device, "Light Bind Group", layout, buffer)
}

func createUniformBindGroup(device *wgpu.Device, label string, layout *wgpu.BindGroupLayout, buffer *wgpu.Buffer) (*wgpu.BindGroup, error) {
	if device == nil || layout == nil || buffer == nil {
		core.LogError("create bind group %q: device=%v layout=%v buffer=%v", label, device != nil, layout != nil, buffer != nil)
		return nil, errors.New("resource: create bind group with missing argument")
	}
	group, err := device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  label,
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: 0,
				Buffer:  buffer,
				Offset:  0,
				Size:    wgpu.WholeSize,
			},
		},
	})
	if err != nil {
		core.LogError("create bind group %q: %v", label, err)
		return nil, fmt.Errorf("resource: create bind group %q: %w", label, err)
	}
	return group, nil
}
