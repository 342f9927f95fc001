// Package manifest loads and validates the TOML install manifest that
// drives a podforge run: the project identity, the build configurations,
// the hook scripts, and the pods to install.
package manifest

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Validation errors returned by the manifest package.
var (
	// ErrMissingPodName indicates a pods entry without a name.
	ErrMissingPodName = errors.New("pod name is required")

	// ErrDuplicatePod indicates two pods entries sharing one name.
	ErrDuplicatePod = errors.New("duplicate pod name")

	// ErrMissingConfigName indicates a configurations entry without a name.
	ErrMissingConfigName = errors.New("configuration name is required")

	// ErrBadConfigKind indicates a configuration kind outside debug/release.
	ErrBadConfigKind = errors.New("configuration kind must be debug or release")

	// ErrBadSubspec indicates a subspec name with an empty component.
	ErrBadSubspec = errors.New("subspec name has an empty component")
)

// Recognized configuration kinds.
const (
	KindDebug   = "debug"
	KindRelease = "release"
)

// Manifest is the parsed install manifest.
type Manifest struct {
	Project        Project         `toml:"project"`
	Configurations []Configuration `toml:"configurations"`
	Hooks          Hooks           `toml:"hooks"`
	Pods           []Pod           `toml:"pods"`
}

// Project describes the generated project's identity.
type Project struct {
	// Name is the project name; defaults to "Pods".
	Name string `toml:"name"`
	// Sandbox is the directory holding installed pods; defaults to "Pods".
	Sandbox string `toml:"sandbox"`
	// Symroot optionally overrides the default build output root.
	Symroot string `toml:"symroot"`
}

// Configuration is one build configuration to register.
type Configuration struct {
	Name string `toml:"name"`
	// Kind is "debug" or "release". When empty it is inferred from the
	// name: configurations named Release are release, all others debug.
	Kind string `toml:"kind"`
}

// Hooks names the scripts run around an install.
type Hooks struct {
	// PostInstall is a Lua script run after the project tree is built,
	// resolved relative to the manifest when not absolute.
	PostInstall string `toml:"post_install"`
}

// Pod is one package to install.
type Pod struct {
	Name string `toml:"name"`
	// Path overrides the pod's source directory; defaults to
	// <sandbox>/<name>.
	Path string `toml:"path"`
	// Development marks the pod as locally developed.
	Development bool `toml:"development"`
	// Subspecs lists the slash-separated subspec names whose directories
	// receive their own groups.
	Subspecs []string `toml:"subspecs"`
}

// Dir returns the pod's source directory given the sandbox directory.
func (p Pod) Dir(sandbox string) string {
	if p.Path != "" {
		return p.Path
	}
	return filepath.Join(sandbox, p.Name)
}

// applyDefaults fills the optional sections of a freshly parsed manifest.
func (m *Manifest) applyDefaults() {
	if m.Project.Name == "" {
		m.Project.Name = "Pods"
	}
	if m.Project.Sandbox == "" {
		m.Project.Sandbox = "Pods"
	}
	if len(m.Configurations) == 0 {
		m.Configurations = []Configuration{
			{Name: "Debug", Kind: KindDebug},
			{Name: "Release", Kind: KindRelease},
		}
	}
	for i := range m.Configurations {
		if m.Configurations[i].Kind != "" {
			continue
		}
		if strings.EqualFold(m.Configurations[i].Name, "Release") {
			m.Configurations[i].Kind = KindRelease
		} else {
			m.Configurations[i].Kind = KindDebug
		}
	}
}

// Validate checks the manifest for structural problems.
func (m *Manifest) Validate() error {
	for _, c := range m.Configurations {
		if c.Name == "" {
			return ErrMissingConfigName
		}
		if c.Kind != KindDebug && c.Kind != KindRelease {
			return fmt.Errorf("configuration %q: %w", c.Name, ErrBadConfigKind)
		}
	}

	seen := make(map[string]bool, len(m.Pods))
	for _, pod := range m.Pods {
		if pod.Name == "" {
			return ErrMissingPodName
		}
		if seen[pod.Name] {
			return fmt.Errorf("pod %q: %w", pod.Name, ErrDuplicatePod)
		}
		seen[pod.Name] = true

		for _, sub := range pod.Subspecs {
			if sub == "" {
				return fmt.Errorf("pod %q: %w", pod.Name, ErrBadSubspec)
			}
			for _, component := range strings.Split(sub, "/") {
				if component == "" {
					return fmt.Errorf("pod %q subspec %q: %w", pod.Name, sub, ErrBadSubspec)
				}
			}
		}
	}
	return nil
}
