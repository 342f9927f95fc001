package pbxproj

// GCCPreprocessorDefinitions is the settings key holding the preprocessor
// definition list.
const GCCPreprocessorDefinitions = "GCC_PREPROCESSOR_DEFINITIONS"

// BuildKind selects the baseline settings profile for a build configuration.
type BuildKind int

const (
	// BuildDebug is a development configuration.
	BuildDebug BuildKind = iota
	// BuildRelease is an optimized configuration.
	BuildRelease
)

// String returns the string representation of a BuildKind.
func (k BuildKind) String() string {
	switch k {
	case BuildRelease:
		return "release"
	default:
		return "debug"
	}
}

// Settings is a build configuration's mutable settings map. Values are
// strings or string lists.
type Settings map[string]any

// ListValue returns the setting under key as a string list. A scalar string
// is returned as a single-element list; absent keys return nil. The
// returned slice is a copy.
func (s Settings) ListValue(key string) []string {
	switch v := s[key].(type) {
	case string:
		return []string{v}
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	default:
		return nil
	}
}

// AppendToList appends value to the list setting under key unless the list
// already contains it. A scalar setting is promoted to a list first.
func (s Settings) AppendToList(key, value string) {
	list := s.ListValue(key)
	for _, v := range list {
		if v == value {
			return
		}
	}
	s[key] = append(list, value)
}

// BuildConfiguration is one named settings profile in the project.
type BuildConfiguration struct {
	// ID uniquely identifies this configuration in the document.
	ID ObjectID
	// Name is the configuration name, e.g. "Debug".
	Name string
	// Kind selects the baseline settings profile.
	Kind BuildKind
	// Settings holds the configuration's build settings.
	Settings Settings
}

// NewBuildConfiguration creates a configuration populated with the baseline
// settings for kind.
func NewBuildConfiguration(name string, kind BuildKind) *BuildConfiguration {
	return &BuildConfiguration{
		ID:       NewObjectID(),
		Name:     name,
		Kind:     kind,
		Settings: BaselineSettings(kind),
	}
}

// BaselineSettings returns the default settings applied to a new
// configuration of the given kind.
func BaselineSettings(kind BuildKind) Settings {
	s := Settings{
		"ALWAYS_SEARCH_USER_PATHS": "NO",
		"CLANG_ENABLE_OBJC_ARC":    "YES",
		"GCC_C_LANGUAGE_STANDARD":  "gnu11",
		"SKIP_INSTALL":             "YES",
	}
	switch kind {
	case BuildRelease:
		s["COPY_PHASE_STRIP"] = "YES"
		s["ENABLE_NS_ASSERTIONS"] = "NO"
		s["GCC_OPTIMIZATION_LEVEL"] = "s"
		s["VALIDATE_PRODUCT"] = "YES"
	default:
		s["COPY_PHASE_STRIP"] = "NO"
		s["ENABLE_TESTABILITY"] = "YES"
		s["GCC_DYNAMIC_NO_PIC"] = "NO"
		s["GCC_OPTIMIZATION_LEVEL"] = "0"
		s["ONLY_ACTIVE_ARCH"] = "YES"
		s[GCCPreprocessorDefinitions] = []string{"DEBUG=1", "$(inherited)"}
	}
	return s
}
