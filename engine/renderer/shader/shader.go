// Package shader holds the embedded WGSL programs for the instanced geometry
// pipeline. The vertex shader consumes the two-slot vertex/instance layout
// and the 3-matrix camera uniform at group 0 binding 0; the fragment shader
// consumes the directional light uniform at group 1 binding 0. Any change to
// the packed instance, camera or light layouts must be mirrored here.
package shader

import _ "embed"

// VertexEntryPoint is the vertex stage entry point in GeometryVertexSource.
const VertexEntryPoint = "vs_main"

// FragmentEntryPoint is the fragment stage entry point in GeometryFragmentSource.
const FragmentEntryPoint = "fs_main"

//go:embed wgsl/geometry_vs.wgsl
var GeometryVertexSource string

//go:embed wgsl/geometry_fs.wgsl
var GeometryFragmentSource string
