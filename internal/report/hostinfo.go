package report

import (
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// LookupHost resolves the host identity best-effort. A machine where neither
// value can be read still produces a report, just with empty fields.
func LookupHost() HostIdentity {
	var id HostIdentity
	if name, err := os.Hostname(); err == nil {
		id.Hostname = name
	}
	id.SerialNumber = serialNumber()
	return id
}

func serialNumber() string {
	switch runtime.GOOS {
	case "linux":
		for _, path := range []string{
			"/sys/class/dmi/id/product_serial",
			"/sys/class/dmi/id/board_serial",
		} {
			if data, err := os.ReadFile(path); err == nil {
				if s := strings.TrimSpace(string(data)); s != "" {
					return s
				}
			}
		}
	case "darwin":
		out, err := exec.Command("ioreg", "-c", "IOPlatformExpertDevice", "-d", "2").Output()
		if err != nil {
			return ""
		}
		for _, line := range strings.Split(string(out), "\n") {
			if !strings.Contains(line, "IOPlatformSerialNumber") {
				continue
			}
			if _, value, ok := strings.Cut(line, "="); ok {
				return strings.Trim(strings.TrimSpace(value), `"`)
			}
		}
	}
	return ""
}
