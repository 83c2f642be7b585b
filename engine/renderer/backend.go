package renderer

import (
	"errors"

	"github.com/strata-gfx/strata-go/engine/geometry"
)

// Sentinel errors for expected, frame-local conditions. Callers check them
// with errors.Is and skip the unit of work instead of failing.
var (
	// ErrDeviceNotReady means the adapter/device handshake has not
	// completed; the frame pipeline is a no-op until it has.
	ErrDeviceNotReady = errors.New("renderer: device not ready")

	// ErrSurfaceUnavailable means the presentation surface had no texture
	// to give this tick. Presentation back-pressure is expected and must
	// be tolerated every frame.
	ErrSurfaceUnavailable = errors.New("renderer: surface texture unavailable")
)

// InitState tracks the backend's progress through the asynchronous
// adapter/device acquisition handshake. The backend advances through the
// states via Poll, one call per scheduler tick; the frame pipeline does no
// work until StateConfigured.
type InitState int

const (
	StateUninitialized InitState = iota
	StateInstanceCreated
	StateSurfaceCreated
	StateAdapterRequested
	StateAdapterAcquired
	StateDeviceRequested
	StateConfigured
)

func (s InitState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInstanceCreated:
		return "instance created"
	case StateSurfaceCreated:
		return "surface created"
	case StateAdapterRequested:
		return "adapter requested"
	case StateAdapterAcquired:
		return "adapter acquired"
	case StateDeviceRequested:
		return "device requested"
	case StateConfigured:
		return "configured"
	default:
		return "unknown"
	}
}

// MeshHandle is an opaque reference to a shape's static GPU vertex/index
// buffers, owned by the backend's mesh cache.
type MeshHandle interface {
	Valid() bool
	IndexCount() uint32
}

// InstanceHandle is an opaque reference to a pooled per-shape instance
// buffer, owned by the backend and rewritten every frame.
type InstanceHandle interface {
	Valid() bool
}

// PipelineHandle is an opaque reference to the shared default render
// pipeline, created lazily and cached by the backend.
type PipelineHandle interface {
	Valid() bool
}

// Backend is the GPU command interface the frame pipeline drives. All
// handles it returns are opaque capability tokens owned by the backend;
// Release tears everything down exactly once, in reverse dependency order.
//
// The production implementation wraps WebGPU; tests substitute a fake that
// records calls, which is what keeps the whole frame pipeline testable
// without a GPU.
type Backend interface {
	// Poll advances the initialization state machine by at most one state
	// and returns the state reached. Fatal progression failures halt the
	// session. Safe to call every tick; a configured backend returns
	// StateConfigured without side effects.
	Poll(session *RenderSession) InitState

	// State returns the current initialization state without advancing it.
	State() InitState

	// Ready reports whether the device is configured and frames can be
	// rendered.
	Ready() bool

	// Resize reconfigures the presentation surface and depth attachment
	// for new canvas dimensions. No-op before the backend is ready.
	Resize(width, height uint32)

	// BeginFrame acquires the surface texture, creates the command
	// encoder and begins the render pass (color cleared to the fixed
	// background, depth cleared to 1.0). Returns ErrSurfaceUnavailable
	// when no texture can be acquired this tick.
	BeginFrame() error

	// Mesh returns the static vertex/index buffers for a registered shape
	// kind, creating and caching them on first use.
	Mesh(kind geometry.Kind) (MeshHandle, error)

	// WriteInstances uploads packed instance records into the pooled
	// per-kind instance buffer, growing it when the data outgrows the
	// pooled allocation.
	WriteInstances(kind geometry.Kind, data []byte) (InstanceHandle, error)

	// DefaultPipeline returns the shared geometry pipeline, creating it
	// lazily on first call.
	DefaultPipeline() (PipelineHandle, error)

	// UpdateCameraUniform uploads a marshaled CameraUniform.
	UpdateCameraUniform(data []byte)

	// UpdateLightUniform uploads a marshaled LightUniform.
	UpdateLightUniform(data []byte)

	// Draw encodes one indexed-instanced draw within the current render
	// pass: pipeline, camera bind group at slot 0, light bind group at
	// slot 1, vertex buffer at slot 0, instance buffer at slot 1, 16-bit
	// index buffer.
	Draw(pipeline PipelineHandle, mesh MeshHandle, instances InstanceHandle, instanceCount uint32)

	// EndFrame ends the render pass, finishes the encoder and submits the
	// command buffer. Encoding errors halt the session via the pipeline's
	// caller.
	EndFrame() error

	// Present presents the surface and releases the per-frame handles.
	Present()

	// Release tears down every GPU resource the backend owns.
	Release()
}
