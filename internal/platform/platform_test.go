package platform

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		goos string
		want Class
	}{
		{"linux", ClassDesktop},
		{"darwin", ClassDesktop},
		{"windows", ClassDesktop},
		{"freebsd", ClassDesktop},
		{"android", ClassMobile},
		{"ios", ClassMobile},
		{"js", ClassWeb},
		{"wasip1", ClassWeb},
		{"plan9", ClassMobile}, // unknown defaults to mobile
		{"", ClassMobile},
	}

	for _, tt := range tests {
		d := NewDetectorFor(tt.goos)
		if got := d.Classify(); got != tt.want {
			t.Errorf("Classify(%q) = %s, want %s", tt.goos, got, tt.want)
		}
	}
}

func TestSupportsProcessExecution(t *testing.T) {
	if !NewDetectorFor("linux").SupportsProcessExecution() {
		t.Error("desktop platform should support process execution")
	}
	if NewDetectorFor("android").SupportsProcessExecution() {
		t.Error("mobile platform should not support process execution")
	}
	if NewDetectorFor("js").SupportsProcessExecution() {
		t.Error("web platform should not support process execution")
	}
}

func TestSupportsFileSystem(t *testing.T) {
	if !NewDetectorFor("darwin").SupportsFileSystem() {
		t.Error("desktop platform should support filesystem access")
	}
	if !NewDetectorFor("ios").SupportsFileSystem() {
		t.Error("mobile platform should support filesystem access")
	}
	if NewDetectorFor("js").SupportsFileSystem() {
		t.Error("web platform should not report filesystem access")
	}
}
