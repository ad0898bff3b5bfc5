// pkg/platform/utils.go
package platform

// commandExists checks if a command is available in PATH
func (d *Detector) commandExists(cmd string) bool {
	_, err := d.LookPath(cmd)
	return err == nil
}

// backendCommand returns the executable that identifies a package manager
func backendCommand(backend string) string {
	switch backend {
	case "nix":
		return "nix-env"
	case "apt":
		return "apt-get"
	default:
		return backend
	}
}

// contains checks if a string slice contains a value
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// Has reports whether a package manager was found on the host
func (h *Host) Has(backend string) bool {
	return contains(h.Available, backend)
}
