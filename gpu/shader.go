package gpu

import (
	_ "embed"
	"strings"

	"github.com/pkg/errors"
	"github.com/rajveermalviya/go-webgpu/wgpu"
)

//go:embed shaders/colored.wgsl
var coloredShader string

// ShaderModule is shader code compiled into the binary.
type ShaderModule struct {
	Label    string
	Code     string
	Vertex   string
	Fragment string
}

// Colored transforms positions by the window's view-projection uniform and
// passes the per-vertex color through. Points and lines share it.
var Colored = ShaderModule{
	Label:    "colored.wgsl",
	Code:     coloredShader,
	Vertex:   "vs_main",
	Fragment: "fs_main",
}

// Build creates the module on device.
func (s ShaderModule) Build(device *wgpu.Device) (*wgpu.ShaderModule, error) {
	if strings.TrimSpace(s.Code) == "" {
		return nil, errors.Errorf("shader %s: empty module", s.Label)
	}
	mod, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          s.Label,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: s.Code},
	})
	if err != nil {
		return nil, errors.Wrapf(err, "shader %s", s.Label)
	}
	return mod, nil
}
