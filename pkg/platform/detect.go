// pkg/platform/detect.go
package platform

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/arc-language/ubrew/pkg/shell"
)

// cltPackage is the receipt installed with the macOS command-line tools
const cltPackage = "com.apple.pkg.CLTools_Executables"

// backends are the host package managers the dependency index knows,
// in order of preference
var backends = []string{"brew", "apt", "dnf", "pacman", "apk", "zypper", "nix"}

// Host describes the machine a build runs on
type Host struct {
	OS           string   // linux, darwin
	Arch         string   // amd64, arm64
	CLTInstalled bool     // macOS command-line tools present
	SDKPath      string   // macOS SDK root, empty elsewhere
	Available    []string // package managers found on PATH
	Preferred    string   // preferred package manager
}

// Detector inspects the host through a runner
type Detector struct {
	Runner   shell.Runner
	LookPath func(string) (string, error)
	GOOS     string
	GOARCH   string
}

// NewDetector creates a detector for the running system
func NewDetector(runner shell.Runner) *Detector {
	return &Detector{
		Runner:   runner,
		LookPath: exec.LookPath,
		GOOS:     runtime.GOOS,
		GOARCH:   runtime.GOARCH,
	}
}

// Detect detects the current platform
func (d *Detector) Detect(ctx context.Context) (*Host, error) {
	h := &Host{
		OS:        d.GOOS,
		Arch:      d.GOARCH,
		Available: []string{},
	}

	switch h.OS {
	case "darwin":
		h.CLTInstalled = d.Runner.Quiet(ctx, shell.Cmd("pkgutil", "--pkg-info="+cltPackage))
		sdk, err := d.Runner.Output(ctx, shell.Cmd("xcrun", "--show-sdk-path"))
		if err == nil {
			h.SDKPath = sdk
		}
	case "linux":
	default:
		return nil, fmt.Errorf("unsupported operating system: %s", h.OS)
	}

	for _, b := range backends {
		if d.commandExists(backendCommand(b)) {
			h.Available = append(h.Available, b)
		}
	}
	if len(h.Available) > 0 {
		h.Preferred = h.Available[0]
	}

	return h, nil
}

// NeedsSDKFrameworks reports whether system frameworks must be taken from
// the SDK because the command-line tools are missing
func (h *Host) NeedsSDKFrameworks() bool {
	return h.OS == "darwin" && !h.CLTInstalled
}

// String returns a string representation of the platform
func (h *Host) String() string {
	s := fmt.Sprintf("%s/%s (available: %v, preferred: %s)", h.OS, h.Arch, h.Available, h.Preferred)
	if h.OS == "darwin" {
		s += fmt.Sprintf(" clt=%v sdk=%s", h.CLTInstalled, h.SDKPath)
	}
	return s
}
