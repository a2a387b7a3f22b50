// Package kernel holds the per-pixel program: the GLSL source the GPU runs
// and a CPU reference of the same math for tests and headless rendering.
package kernel

import (
	_ "embed"
	"os"
	"regexp"
)

//go:embed tunnel.frag
var tunnelSource string

// FragmentEntryPoint is the symbol the fragment stage must define.
const FragmentEntryPoint = "mainImage"

// The preamble binds the packed uniform block. Index order is the ABI
// contract with uniforms.Block; change one and you must change the other.
const preamble = `#version 300 es
precision highp float;
precision highp int;

uniform float uTunnel[11];

#define U_SPEED       uTunnel[0]
#define U_STRETCH     uTunnel[1]
#define U_BLUR        uTunnel[2]
#define U_DENSITY     uTunnel[3]
#define U_SIZE        uTunnel[4]
#define U_HOLE_RADIUS uTunnel[5]
#define U_HOLE_WARP   uTunnel[6]
#define U_TIME        uTunnel[7]
#define U_RES_X       uTunnel[8]
#define U_RES_Y       uTunnel[9]
#define U_EDR         uTunnel[10]
`

const mainWrapper = `
out vec4 fragColor;
void main(void)
{
    mainImage(fragColor, gl_FragCoord.xy);
}
`

const vertexSource = `#version 410 core
layout (location = 0) in vec2 in_vert;
void main() {
    gl_Position = vec4(in_vert, 0.0, 1.0);
}
`

// Source returns the embedded fragment kernel body.
func Source() string {
	return tunnelSource
}

// Load returns the fragment kernel body, reading it from path when an
// override is given and falling back to the embedded source otherwise.
func Load(path string) (string, error) {
	if path == "" {
		return tunnelSource, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FragmentSource assembles the complete WebGL2 fragment stage around the
// kernel body, ready for translation to desktop GLSL.
func FragmentSource(body string) string {
	return preamble + body + mainWrapper
}

// VertexSource returns the fullscreen-quad vertex stage.
func VertexSource() string {
	return vertexSource
}

var entryPointPattern = regexp.MustCompile(`\bvoid\s+` + FragmentEntryPoint + `\s*\(`)

// HasEntryPoint reports whether the kernel body defines the required
// fragment entry point. It matches the definition signature, so a comment
// that merely mentions the name does not count.
func HasEntryPoint(body string) bool {
	return entryPointPattern.MatchString(body)
}
