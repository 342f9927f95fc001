package installer

import (
	"path/filepath"
	"strings"
)

// fileClass labels what a walked entry contributes to the project.
type fileClass int

const (
	classSkip fileClass = iota
	classSource
	classResource
	classFramework
	classSupport
)

// String returns a human-readable class name.
func (c fileClass) String() string {
	switch c {
	case classSource:
		return "source"
	case classResource:
		return "resource"
	case classFramework:
		return "framework"
	case classSupport:
		return "support"
	default:
		return "skip"
	}
}

// classifyFile maps a file name to its class by extension. Unrecognized
// extensions are skipped.
func classifyFile(name string) fileClass {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".h", ".hh", ".hpp", ".m", ".mm", ".c", ".cc", ".cpp", ".cxx", ".swift", ".s":
		return classSource
	case ".a", ".dylib", ".tbd":
		return classFramework
	case ".xcconfig", ".pch", ".modulemap", ".podspec":
		return classSupport
	case ".png", ".jpg", ".jpeg", ".gif", ".pdf", ".strings", ".stringsdict",
		".xib", ".nib", ".storyboard", ".plist", ".json", ".ttf", ".otf",
		".caf", ".wav", ".mp3", ".html", ".css", ".js":
		return classResource
	default:
		return classSkip
	}
}

// classifyDir maps a directory name to its class. Bundle-like directories
// enter the project as single references instead of being walked.
func classifyDir(name string) fileClass {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".framework", ".xcframework":
		return classFramework
	case ".bundle", ".xcassets":
		return classResource
	default:
		return classSkip
	}
}
