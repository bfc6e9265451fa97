package gpu

import (
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"github.com/rajveermalviya/go-webgpu/wgpu"
)

var ErrNoAdapter = errors.New("gpu: no compatible adapter")

// ForceFallbackAdapter is read once from WGPU_FORCE_FALLBACK_ADAPTER.
var ForceFallbackAdapter = os.Getenv("WGPU_FORCE_FALLBACK_ADAPTER") == "1"

// SetLogLevelFromEnv applies WGPU_LOG_LEVEL to the native wgpu logger.
func SetLogLevelFromEnv() {
	switch os.Getenv("WGPU_LOG_LEVEL") {
	case "OFF":
		wgpu.SetLogLevel(wgpu.LogLevel_Off)
	case "ERROR":
		wgpu.SetLogLevel(wgpu.LogLevel_Error)
	case "WARN":
		wgpu.SetLogLevel(wgpu.LogLevel_Warn)
	case "INFO":
		wgpu.SetLogLevel(wgpu.LogLevel_Info)
	case "DEBUG":
		wgpu.SetLogLevel(wgpu.LogLevel_Debug)
	case "TRACE":
		wgpu.SetLogLevel(wgpu.LogLevel_Trace)
	}
}

// RequestContext acquires an adapter compatible with surface and opens a
// device on it. The caller releases the returned adapter and context.
func RequestContext(instance *wgpu.Instance, surface *wgpu.Surface, log *slog.Logger) (*wgpu.Adapter, *Context, error) {
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: ForceFallbackAdapter,
		CompatibleSurface:    surface,
		PowerPreference:      wgpu.PowerPreference_HighPerformance,
	})
	if err != nil {
		return nil, nil, errors.Wrap(ErrNoAdapter, err.Error())
	}
	if adapter == nil {
		return nil, nil, ErrNoAdapter
	}

	props := adapter.GetProperties()
	log.Info("gpu adapter", "name", props.Name, "backend", props.BackendType, "fallback", ForceFallbackAdapter)

	device, err := adapter.RequestDevice(nil)
	if err != nil {
		adapter.Release()
		return nil, nil, errors.Wrap(err, "request device")
	}
	return adapter, &Context{Device: device, Queue: device.GetQueue()}, nil
}
