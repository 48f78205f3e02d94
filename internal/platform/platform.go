// Package platform inspects the runtime environment and reports the
// capability class every engine-selection decision is based on.
package platform

import (
	"runtime"

	"github.com/charmbracelet/log"
)

// Class is the coarse platform classification used for engine policy.
type Class string

const (
	ClassDesktop Class = "desktop"
	ClassMobile  Class = "mobile"
	ClassWeb     Class = "web"
)

// Detector answers capability queries about the current platform. It has no
// side effects and never fails: an unidentifiable OS classifies as mobile,
// the most restrictive non-web class.
type Detector struct {
	goos string
}

// NewDetector creates a detector for the running OS.
func NewDetector() *Detector {
	return &Detector{goos: runtime.GOOS}
}

// NewDetectorFor creates a detector for an explicit GOOS value. Used by
// tests and by callers simulating another platform.
func NewDetectorFor(goos string) *Detector {
	return &Detector{goos: goos}
}

// Classify returns the platform class.
func (d *Detector) Classify() Class {
	switch d.goos {
	case "linux", "darwin", "windows", "freebsd", "openbsd", "netbsd":
		return ClassDesktop
	case "android", "ios":
		return ClassMobile
	case "js", "wasip1":
		return ClassWeb
	}
	log.Debug("unrecognized GOOS, defaulting to mobile class", "goos", d.goos)
	return ClassMobile
}

// SupportsProcessExecution reports whether external processes can be
// spawned. Only desktop-class platforms qualify.
func (d *Detector) SupportsProcessExecution() bool {
	return d.Classify() == ClassDesktop
}

// SupportsFileSystem reports whether a writable filesystem is available.
func (d *Detector) SupportsFileSystem() bool {
	return d.Classify() != ClassWeb
}

// OS returns the raw GOOS value the detector was built with.
func (d *Detector) OS() string { return d.goos }

// String returns the class name.
func (c Class) String() string { return string(c) }
