package output

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// IsTerminal checks if the given file descriptor is a terminal using ioctl.
func IsTerminal(fd uintptr) bool {
	_, err := unix.IoctlGetTermios(int(fd), unix.TCGETS)
	return err == nil
}

// UseColor resolves a --color setting of auto, always or never. auto colors
// only when f is a terminal.
func UseColor(setting string, f *os.File) (bool, error) {
	switch setting {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "", "auto":
		return IsTerminal(f.Fd()), nil
	}
	return false, fmt.Errorf("invalid color setting %q (want auto, always or never)", setting)
}
