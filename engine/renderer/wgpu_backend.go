package renderer

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/strata-gfx/strata-go/common"
	"github.com/strata-gfx/strata-go/engine/core"
	"github.com/strata-gfx/strata-go/engine/geometry"
	"github.com/strata-gfx/strata-go/engine/renderer/resource"
	"github.com/strata-gfx/strata-go/engine/renderer/shader"
)

// backgroundColor is the fixed clear color of the main render pass.
var backgroundColor = wgpu.Color{R: 0.1, G: 0.2, B: 0.3, A: 1.0}

type wgpuMesh struct {
	vertexBuffer *wgpu.Buffer
	indexBuffer  *wgpu.Buffer
	indexCount   uint32
}

func (m *wgpuMesh) Valid() bool {
	return m != nil && m.vertexBuffer != nil && m.indexBuffer != nil
}

func (m *wgpuMesh) IndexCount() uint32 { return m.indexCount }

func (m *wgpuMesh) release() {
	if m.vertexBuffer != nil {
		m.vertexBuffer.Release()
		m.vertexBuffer = nil
	}
	if m.indexBuffer != nil {
		m.indexBuffer.Release()
		m.indexBuffer = nil
	}
}

// wgpuInstances is one shape's pooled instance buffer. The buffer grows on
// demand and is reused across frames; it is released only at backend
// teardown.
type wgpuInstances struct {
	buffer   *wgpu.Buffer
	capacity uint64
}

func (p *wgpuInstances) Valid() bool { return p != nil && p.buffer != nil }

func (p *wgpuInstances) release() {
	if p.buffer != nil {
		p.buffer.Release()
		p.buffer = nil
		p.capacity = 0
	}
}

type wgpuPipeline struct {
	inner *resource.GeometryPipeline
}

func (p *wgpuPipeline) Valid() bool { return p != nil && p.inner != nil && p.inner.Pipeline != nil }

type wgpuBackend struct {
	state             InitState
	surfaceDescriptor *wgpu.SurfaceDescriptor
	width             uint32
	height            uint32
	presentMode       wgpu.PresentMode

	instance *wgpu.Instance
	surface  *wgpu.Surface
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	surfaceFormat        wgpu.TextureFormat
	depthTexture         *wgpu.Texture
	depthTextureView     *wgpu.TextureView
	renderPassDescriptor *wgpu.RenderPassDescriptor

	cameraBuffer    *wgpu.Buffer
	lightBuffer     *wgpu.Buffer
	cameraBindGroup *wgpu.BindGroup
	lightBindGroup  *wgpu.BindGroup

	pipeline *wgpuPipeline

	meshes       map[geometry.Kind]*wgpuMesh
	instancePool map[geometry.Kind]*wgpuInstances

	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
}

var _ Backend = &wgpuBackend{}

// NewWGPUBackend creates an unconfigured WebGPU backend over a presentation
// surface descriptor (obtained from the window layer). The backend does no
// GPU work until Poll drives it through the initialization states.
//
// Parameters:
//   - surfaceDescriptor: platform surface descriptor for the target window
//   - width, height: initial canvas dimensions in pixels
//   - vsync: when true the surface presents in Fifo mode, otherwise Immediate
//
// Returns:
//   - Backend: the backend in StateUninitialized
func NewWGPUBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, width, height uint32, vsync bool) Backend {
	mode := wgpu.PresentModeImmediate
	if vsync {
		mode = wgpu.PresentModeFifo
	}
	return &wgpuBackend{
		state:             StateUninitialized,
		surfaceDescriptor: surfaceDescriptor,
		width:             width,
		height:            height,
		presentMode:       mode,
		meshes:            make(map[geometry.Kind]*wgpuMesh),
		instancePool:      make(map[geometry.Kind]*wgpuInstances),
	}
}

func (b *wgpuBackend) State() InitState { return b.state }

func (b *wgpuBackend) Ready() bool { return b.state == StateConfigured }

// Poll advances the handshake one state per call. Progression failures are
// terminal for the session: an adapter or device that cannot be acquired
// will not appear on a later tick.
func (b *wgpuBackend) Poll(session *RenderSession) InitState {
	if session.Halted() {
		return b.state
	}
	switch b.state {
	case StateUninitialized:
		b.instance = wgpu.CreateInstance(nil)
		if b.instance == nil {
			session.Halt("wgpu instance creation failed")
			return b.state
		}
		b.state = StateInstanceCreated
	case StateInstanceCreated:
		b.surface = b.instance.CreateSurface(b.surfaceDescriptor)
		if b.surface == nil {
			session.Halt("wgpu surface creation failed")
			return b.state
		}
		b.state = StateSurfaceCreated
	case StateSurfaceCreated:
		// The adapter request is issued conceptually here; the binding
		// completes it synchronously on the next poll.
		b.state = StateAdapterRequested
	case StateAdapterRequested:
		adapter, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
			CompatibleSurface: b.surface,
		})
		if err != nil {
			session.Halt(fmt.Sprintf("wgpu adapter request failed: %v", err))
			return b.state
		}
		b.adapter = adapter
		b.state = StateAdapterAcquired
	case StateAdapterAcquired:
		b.state = StateDeviceRequested
	case StateDeviceRequested:
		device, err := b.adapter.RequestDevice(&wgpu.DeviceDescriptor{
			Label: "Renderer Device",
		})
		if err != nil {
			session.Halt(fmt.Sprintf("wgpu device request failed: %v", err))
			return b.state
		}
		b.device = device
		b.queue = device.GetQueue()
		if err := b.configure(); err != nil {
			session.Halt(fmt.Sprintf("wgpu surface configuration failed: %v", err))
			return b.state
		}
		b.state = StateConfigured
		core.LogInfo("wgpu backend configured: %dx%d, format %v", b.width, b.height, b.surfaceFormat)
	case StateConfigured:
		// Nothing left to advance.
	}
	return b.state
}

// configure runs the device-ready half of the final handshake step: surface
// configuration, depth attachment, uniform buffers, shader modules, default
// pipeline and both bind groups.
func (b *wgpuBackend) configure() error {
	b.configureSurface()

	if err := b.createDepthAttachment(); err != nil {
		return err
	}
	b.rebuildRenderPassDescriptor()

	var err error
	b.cameraBuffer, err = resource.CreateCameraUniformBuffer(b.device)
	if err != nil {
		return err
	}
	b.lightBuffer, err = resource.CreateLightUniformBuffer(b.device)
	if err != nil {
		return err
	}
	if err := b.createPipeline(); err != nil {
		return err
	}
	return nil
}

func (b *wgpuBackend) configureSurface() {
	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surfaceFormat = capabilities.Formats[0]

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       b.width,
		Height:      b.height,
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})
}

func (b *wgpuBackend) createDepthAttachment() error {
	if b.depthTextureView != nil {
		b.depthTextureView.Release()
		b.depthTextureView = nil
	}
	if b.depthTexture != nil {
		b.depthTexture.Release()
		b.depthTexture = nil
	}
	texture, err := resource.CreateDepthTexture(b.device, b.width, b.height)
	if err != nil {
		return err
	}
	view, err := resource.CreateDepthTextureView(texture)
	if err != nil {
		texture.Release()
		return err
	}
	b.depthTexture = texture
	b.depthTextureView = view
	return nil
}

// rebuildRenderPassDescriptor caches the pass descriptor; only the color
// attachment view changes per frame. Stencil ops stay unset since
// Depth24Plus carries no stencil bits.
func (b *wgpuBackend) rebuildRenderPassDescriptor() {
	b.renderPassDescriptor = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: backgroundColor,
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthTextureView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1.0,
		},
	}
}

// createPipeline builds the default pipeline and the camera/light bind
// groups, releasing the shader modules once the pipeline holds them.
func (b *wgpuBackend) createPipeline() error {
	vs, err := resource.CreateShaderModule(b.device, "Geometry Vertex Shader", shader.GeometryVertexSource)
	if err != nil {
		return err
	}
	defer vs.Release()
	fs, err := resource.CreateShaderModule(b.device, "Geometry Fragment Shader", shader.GeometryFragmentSource)
	if err != nil {
		return err
	}
	defer fs.Release()

	gp, err := resource.CreateGeometryPipeline(b.device, b.surfaceFormat, vs, fs)
	if err != nil {
		return err
	}

	cameraGroup, err := resource.CreateCameraBindGroup(b.device, gp.CameraLayout, b.cameraBuffer)
	if err != nil {
		gp.Release()
		return err
	}
	lightGroup, err := resource.CreateLightBindGroup(b.device, gp.LightLayout, b.lightBuffer)
	if err != nil {
		cameraGroup.Release()
		gp.Release()
		return err
	}

	b.pipeline = &wgpuPipeline{inner: gp}
	b.cameraBindGroup = cameraGroup
	b.lightBindGroup = lightGroup
	return nil
}

func (b *wgpuBackend) Resize(width, height uint32) {
	if !b.Ready() || width == 0 || height == 0 {
		return
	}
	b.width = width
	b.height = height
	b.configureSurface()
	if err := b.createDepthAttachment(); err != nil {
		core.LogError("resize to %dx%d: %v", width, height, err)
		return
	}
	b.rebuildRenderPassDescriptor()
}

func (b *wgpuBackend) BeginFrame() error {
	if !b.Ready() {
		return ErrDeviceNotReady
	}
	if b.frameSurface != nil {
		// A previous frame's surface is still held; acquiring another
		// would trip a wgpu validation error.
		return ErrSurfaceUnavailable
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSurfaceUnavailable, err)
	}
	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return fmt.Errorf("%w: %v", ErrSurfaceUnavailable, err)
	}
	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return fmt.Errorf("create command encoder: %w", err)
	}

	b.renderPassDescriptor.ColorAttachments[0].View = view
	pass := encoder.BeginRenderPass(b.renderPassDescriptor)

	b.frameEncoder = encoder
	b.framePass = pass
	b.frameSurface = surfaceTexture
	b.frameView = view
	return nil
}

func (b *wgpuBackend) Mesh(kind geometry.Kind) (MeshHandle, error) {
	if mesh, ok := b.meshes[kind]; ok {
		return mesh, nil
	}
	data, err := geometry.MeshOf(kind)
	if err != nil {
		return nil, err
	}
	vertexBuffer, err := resource.CreateBuffer(b.device, b.queue,
		fmt.Sprintf("%s Vertex Buffer", kind),
		uint64(len(data.Vertices)*4),
		wgpu.BufferUsageVertex, common.SliceToBytes(data.Vertices))
	if err != nil {
		return nil, err
	}
	indexBuffer, err := resource.CreateBuffer(b.device, b.queue,
		fmt.Sprintf("%s Index Buffer", kind),
		uint64(len(data.Indices)*2),
		wgpu.BufferUsageIndex, common.SliceToBytes(data.Indices))
	if err != nil {
		vertexBuffer.Release()
		return nil, err
	}
	mesh := &wgpuMesh{
		vertexBuffer: vertexBuffer,
		indexBuffer:  indexBuffer,
		indexCount:   data.IndexCount(),
	}
	b.meshes[kind] = mesh
	return mesh, nil
}

// WriteInstances reuses the pooled per-kind buffer, recreating it larger
// when the packed data has outgrown it.
func (b *wgpuBackend) WriteInstances(kind geometry.Kind, data []byte) (InstanceHandle, error) {
	pool, ok := b.instancePool[kind]
	if !ok {
		pool = &wgpuInstances{}
		b.instancePool[kind] = pool
	}
	needed := uint64(len(data))
	if pool.buffer == nil || pool.capacity < needed {
		pool.release()
		buffer, err := resource.CreateBuffer(b.device, nil,
			fmt.Sprintf("%s Instance Buffer", kind), needed,
			wgpu.BufferUsageVertex|wgpu.BufferUsageCopyDst, nil)
		if err != nil {
			return nil, err
		}
		pool.buffer = buffer
		pool.capacity = needed
	}
	b.queue.WriteBuffer(pool.buffer, 0, data)
	return pool, nil
}

func (b *wgpuBackend) DefaultPipeline() (PipelineHandle, error) {
	if b.pipeline.Valid() {
		return b.pipeline, nil
	}
	if err := b.createPipeline(); err != nil {
		return nil, err
	}
	return b.pipeline, nil
}

func (b *wgpuBackend) UpdateCameraUniform(data []byte) {
	resource.UpdateBuffer(b.queue, b.cameraBuffer, 0, data)
}

func (b *wgpuBackend) UpdateLightUniform(data []byte) {
	resource.UpdateBuffer(b.queue, b.lightBuffer, 0, data)
}

func (b *wgpuBackend) Draw(pipeline PipelineHandle, mesh MeshHandle, instances InstanceHandle, instanceCount uint32) {
	if b.framePass == nil {
		return
	}
	wp := pipeline.(*wgpuPipeline)
	wm := mesh.(*wgpuMesh)
	wi := instances.(*wgpuInstances)

	b.framePass.SetPipeline(wp.inner.Pipeline)
	b.framePass.SetBindGroup(0, b.cameraBindGroup, nil)
	b.framePass.SetBindGroup(1, b.lightBindGroup, nil)
	b.framePass.SetVertexBuffer(0, wm.vertexBuffer, 0, wgpu.WholeSize)
	b.framePass.SetVertexBuffer(1, wi.buffer, 0, wgpu.WholeSize)
	b.framePass.SetIndexBuffer(wm.indexBuffer, wgpu.IndexFormatUint16, 0, wgpu.WholeSize)
	b.framePass.DrawIndexed(wm.indexCount, instanceCount, 0, 0, 0)
}

func (b *wgpuBackend) EndFrame() error {
	if b.framePass == nil {
		return nil
	}
	b.framePass.End()
	b.framePass = nil

	commandBuffer, err := b.frameEncoder.Finish(nil)
	b.frameEncoder.Release()
	b.frameEncoder = nil
	if err != nil {
		b.frameView.Release()
		b.frameView = nil
		b.frameSurface.Release()
		b.frameSurface = nil
		return fmt.Errorf("finish command encoder: %w", err)
	}

	b.queue.Submit(commandBuffer)
	commandBuffer.Release()
	return nil
}

func (b *wgpuBackend) Present() {
	if b.frameSurface == nil {
		return
	}
	b.surface.Present()
	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	b.frameSurface.Release()
	b.frameSurface = nil
}

// Release tears everything down in reverse-ish dependency order: per-frame
// state, pooled and cached buffers, pipeline and bind groups, uniforms,
// depth attachment, then surface, device, adapter, instance.
func (b *wgpuBackend) Release() {
	if b.framePass != nil {
		b.framePass = nil
	}
	if b.frameEncoder != nil {
		b.frameEncoder.Release()
		b.frameEncoder = nil
	}
	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	if b.frameSurface != nil {
		b.frameSurface.Release()
		b.frameSurface = nil
	}
	for kind, pool := range b.instancePool {
		pool.release()
		delete(b.instancePool, kind)
	}
	for kind, mesh := range b.meshes {
		mesh.release()
		delete(b.meshes, kind)
	}
	if b.cameraBindGroup != nil {
		b.cameraBindGroup.Release()
		b.cameraBindGroup = nil
	}
	if b.lightBindGroup != nil {
		b.lightBindGroup.Release()
		b.lightBindGroup = nil
	}
	if b.pipeline != nil && b.pipeline.inner != nil {
		b.pipeline.inner.Release()
		b.pipeline = nil
	}
	if b.cameraBuffer != nil {
		b.cameraBuffer.Release()
		b.cameraBuffer = nil
	}
	if b.lightBuffer != nil {
		b.lightBuffer.Release()
		b.lightBuffer = nil
	}
	if b.depthTextureView != nil {
		b.depthTextureView.Release()
		b.depthTextureView = nil
	}
	if b.depthTexture != nil {
		b.depthTexture.Release()
		b.depthTexture = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
	b.state = StateUninitialized
}
