package installer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dmcrae/podforge/internal/pbxproj"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll error = %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile error = %v", err)
	}
}

// installFixture lays out a manifest, two pods and a hook script under a
// temp dir and returns the manifest path.
func installFixture(t *testing.T) (dir, manifestPath string) {
	t.Helper()
	dir = t.TempDir()
	manifestPath = filepath.Join(dir, "Podfile.toml")

	writeFile(t, manifestPath, `
[project]
name = "App"

[[configurations]]
name = "Staging"
kind = "release"

[hooks]
post_install = "hooks/post_install.lua"

[[pods]]
name = "AFNetworking"
subspecs = ["Serialization"]

[[pods]]
name = "LocalKit"
path = "Local/LocalKit"
development = true
`)

	af := filepath.Join(dir, "Pods", "AFNetworking")
	writeFile(t, filepath.Join(af, "AFNetworking.h"), "// header")
	writeFile(t, filepath.Join(af, "AFNetworking.m"), "// impl")
	writeFile(t, filepath.Join(af, "Serialization", "AFURLResponseSerialization.m"), "// impl")
	writeFile(t, filepath.Join(af, "Resources", "logo.png"), "png")
	writeFile(t, filepath.Join(af, "Resources", "en.lproj", "Errors.strings"), `"e" = "error";`)
	writeFile(t, filepath.Join(af, "Resources", "fr.lproj", "Errors.strings"), `"e" = "erreur";`)
	writeFile(t, filepath.Join(af, "AFNetworking.podspec"), "Pod::Spec.new")
	writeFile(t, filepath.Join(af, "README.md"), "docs")

	local := filepath.Join(dir, "Local", "LocalKit")
	writeFile(t, filepath.Join(local, "Sources", "Core", "Thing.swift"), "// swift")
	writeFile(t, filepath.Join(local, "Sources", "Core", "Util.swift"), "// swift")

	writeFile(t, filepath.Join(dir, "hooks", "post_install.lua"), `
function post_install()
	pods.append_definition("Staging", "FROM_HOOK=1")
end
`)

	return dir, manifestPath
}

func TestInstallerRun(t *testing.T) {
	dir, manifestPath := installFixture(t)

	res, err := New(manifestPath).Run()
	if err != nil {
		t.Fatalf("Run error = %v", err)
	}

	report := res.Report
	if report.ProjectName != "App" {
		t.Errorf("ProjectName = %q, want %q", report.ProjectName, "App")
	}
	wantSandbox := filepath.Join(dir, "Pods")
	if report.Sandbox != wantSandbox {
		t.Errorf("Sandbox = %q, want %q", report.Sandbox, wantSandbox)
	}
	if report.ProjectPath != filepath.Join(wantSandbox, "Pods.xcodeproj") {
		t.Errorf("ProjectPath = %q", report.ProjectPath)
	}

	wantConfigs := []string{"Debug", "Release", "Staging"}
	if len(report.Configurations) != len(wantConfigs) {
		t.Fatalf("Configurations = %v, want %v", report.Configurations, wantConfigs)
	}
	for i, name := range wantConfigs {
		if report.Configurations[i] != name {
			t.Errorf("Configurations[%d] = %q, want %q", i, report.Configurations[i], name)
		}
	}

	if len(report.Pods) != 2 {
		t.Fatalf("len(Pods) = %d, want 2", len(report.Pods))
	}
	af := report.Pods[0]
	if af.Name != "AFNetworking" || af.Sources != 3 || af.Resources != 3 ||
		af.SupportFiles != 1 || af.Frameworks != 0 || af.Skipped != 1 {
		t.Errorf("AFNetworking report = %+v", af)
	}
	local := report.Pods[1]
	if local.Name != "LocalKit" || !local.Development || local.Sources != 2 {
		t.Errorf("LocalKit report = %+v", local)
	}

	if !report.HookRan {
		t.Error("HookRan = false, want true")
	}
	if report.Stats.FileReferences != 10 {
		t.Errorf("Stats.FileReferences = %d, want 10", report.Stats.FileReferences)
	}
	if report.Stats.VariantGroups != 1 {
		t.Errorf("Stats.VariantGroups = %d, want 1", report.Stats.VariantGroups)
	}
}

func TestInstallerRunTree(t *testing.T) {
	_, manifestPath := installFixture(t)

	res, err := New(manifestPath).Run()
	if err != nil {
		t.Fatalf("Run error = %v", err)
	}
	project := res.Project

	afGroup := project.PodGroup("AFNetworking")
	if afGroup == nil {
		t.Fatal("AFNetworking group not registered")
	}
	if afGroup.Parent() != project.PodsRoot() {
		t.Error("AFNetworking should live under the Pods root")
	}

	if afGroup.Child("AFNetworking.m") == nil {
		t.Error("AFNetworking.m should sit flat in the pod group")
	}

	serial := afGroup.Child("Serialization")
	if serial == nil {
		t.Fatal("Serialization subspec group missing")
	}
	if serial.Child("AFURLResponseSerialization.m") == nil {
		t.Error("subspec source missing from its group")
	}

	resources := afGroup.Child("Resources")
	if resources == nil {
		t.Fatal("Resources subgroup missing")
	}
	if resources.Child("logo.png") == nil {
		t.Error("logo.png missing from Resources")
	}
	variant := resources.Child("Errors")
	if variant == nil {
		t.Fatal("Errors variant group missing")
	}
	if variant.Kind != pbxproj.KindVariantGroup {
		t.Errorf("Errors Kind = %v, want %v", variant.Kind, pbxproj.KindVariantGroup)
	}
	if got := len(variant.Children()); got != 2 {
		t.Errorf("variant children = %d, want 2", got)
	}

	support := afGroup.Child("Support Files")
	if support == nil {
		t.Fatal("Support Files group missing")
	}
	if support.Child("AFNetworking.podspec") == nil {
		t.Error("podspec missing from Support Files")
	}

	localGroup := project.PodGroup("LocalKit")
	if localGroup == nil {
		t.Fatal("LocalKit group not registered")
	}
	if localGroup.Parent() != project.DevelopmentPodsRoot() {
		t.Error("LocalKit should live under the Development Pods root")
	}
	core := localGroup.Child("Sources")
	if core == nil {
		t.Fatal("mirrored Sources group missing")
	}
	core = core.Child("Core")
	if core == nil {
		t.Fatal("mirrored Core group missing")
	}
	if core.Child("Thing.swift") == nil || core.Child("Util.swift") == nil {
		t.Error("mirrored sources missing from Core group")
	}

	staging := project.BuildConfiguration("Staging")
	if staging == nil {
		t.Fatal("Staging configuration missing")
	}
	defs := staging.Settings.ListValue(pbxproj.GCCPreprocessorDefinitions)
	var hasToken, hasHook bool
	for _, d := range defs {
		switch d {
		case "STAGING=1":
			hasToken = true
		case "FROM_HOOK=1":
			hasHook = true
		}
	}
	if !hasToken {
		t.Errorf("definitions = %v, want STAGING=1 present", defs)
	}
	if !hasHook {
		t.Errorf("definitions = %v, want FROM_HOOK=1 present", defs)
	}
}

func TestInstallerRunMissingManifest(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "Podfile.toml")).Run()
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Run error = %v, want os.ErrNotExist", err)
	}
}

func TestInstallerRunMissingPodDir(t *testing.T) {
	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "Podfile.toml")
	writeFile(t, manifestPath, `
[[pods]]
name = "Ghost"
`)

	_, err := New(manifestPath).Run()
	if err == nil {
		t.Fatal("expected error for missing pod directory")
	}
	if !strings.Contains(err.Error(), "Ghost") {
		t.Errorf("error = %v, want pod name in message", err)
	}
}

func TestInstallerRunHookFailure(t *testing.T) {
	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "Podfile.toml")
	writeFile(t, manifestPath, `
[hooks]
post_install = "broken.lua"

[[pods]]
name = "Foo"
`)
	writeFile(t, filepath.Join(dir, "Pods", "Foo", "Foo.m"), "// impl")
	writeFile(t, filepath.Join(dir, "broken.lua"), `
function post_install()
	error("broken hook")
end
`)

	_, err := New(manifestPath).Run()
	if err == nil {
		t.Fatal("expected error from failing hook")
	}
	if !strings.Contains(err.Error(), "broken hook") {
		t.Errorf("error = %v, want hook message", err)
	}
}

func TestInstallerWithSandbox(t *testing.T) {
	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "Podfile.toml")
	writeFile(t, manifestPath, `
[[pods]]
name = "Foo"
`)

	sandbox := filepath.Join(dir, "Vendor")
	writeFile(t, filepath.Join(sandbox, "Foo", "Foo.m"), "// impl")

	res, err := New(manifestPath, WithSandbox(sandbox)).Run()
	if err != nil {
		t.Fatalf("Run error = %v", err)
	}
	if res.Report.Sandbox != sandbox {
		t.Errorf("Sandbox = %q, want %q", res.Report.Sandbox, sandbox)
	}
	if res.Report.Pods[0].Sources != 1 {
		t.Errorf("Sources = %d, want 1", res.Report.Pods[0].Sources)
	}
}

func TestInstallerRunIdempotentReferences(t *testing.T) {
	_, manifestPath := installFixture(t)

	res, err := New(manifestPath).Run()
	if err != nil {
		t.Fatalf("Run error = %v", err)
	}

	// A second reference to an already-installed file reuses the node.
	project := res.Project
	group := project.PodGroup("AFNetworking")
	existing := group.Child("AFNetworking.m")
	if existing == nil {
		t.Fatal("AFNetworking.m missing")
	}

	ref, err := project.AddFileReference(existing.RealPath(), group, false)
	if err != nil {
		t.Fatalf("AddFileReference error = %v", err)
	}
	if ref != existing {
		t.Error("re-adding an installed file should return the existing reference")
	}
}

func BenchmarkInstallerRun(b *testing.B) {
	dir := b.TempDir()
	manifestPath := filepath.Join(dir, "Podfile.toml")
	content := `
[[pods]]
name = "Foo"
`
	if err := os.WriteFile(manifestPath, []byte(content), 0o644); err != nil {
		b.Fatalf("WriteFile error = %v", err)
	}
	podDir := filepath.Join(dir, "Pods", "Foo")
	if err := os.MkdirAll(podDir, 0o755); err != nil {
		b.Fatalf("MkdirAll error = %v", err)
	}
	for i := 0; i < 50; i++ {
		name := filepath.Join(podDir, fmt.Sprintf("File%02d.m", i))
		if err := os.WriteFile(name, []byte("// impl"), 0o644); err != nil {
			b.Fatalf("WriteFile error = %v", err)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := New(manifestPath).Run(); err != nil {
			b.Fatalf("Run error = %v", err)
		}
	}
}
