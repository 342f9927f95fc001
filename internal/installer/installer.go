// Package installer drives a manifest-described install: it loads the
// manifest, builds the pods project tree from the pod directories on
// disk, and runs the post-install hook.
package installer

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmcrae/podforge/internal/hooks"
	"github.com/dmcrae/podforge/internal/manifest"
	"github.com/dmcrae/podforge/internal/pbxproj"
	"github.com/dmcrae/podforge/internal/pods"
)

// projectFileName is the project bundle created inside the sandbox.
const projectFileName = "Pods.xcodeproj"

// Options configures an Installer.
type Options struct {
	// Sandbox overrides the manifest's sandbox directory when non-empty.
	Sandbox string
}

// Option configures Options.
type Option func(*Options)

// WithSandbox overrides the sandbox directory from the manifest.
func WithSandbox(dir string) Option {
	return func(o *Options) {
		o.Sandbox = dir
	}
}

// Installer runs installs for one manifest.
type Installer struct {
	manifestPath string
	opts         Options
}

// New creates an installer for the manifest at path.
func New(manifestPath string, opts ...Option) *Installer {
	inst := &Installer{manifestPath: manifestPath}
	for _, opt := range opts {
		opt(&inst.opts)
	}
	return inst
}

// PodReport summarizes one installed pod.
type PodReport struct {
	Name         string `json:"name"`
	Development  bool   `json:"development,omitempty"`
	Sources      int    `json:"sources"`
	Resources    int    `json:"resources"`
	Frameworks   int    `json:"frameworks"`
	SupportFiles int    `json:"support_files"`
	Skipped      int    `json:"skipped"`
}

// Report summarizes a completed install.
type Report struct {
	ProjectName    string        `json:"project"`
	ProjectPath    string        `json:"project_path"`
	Sandbox        string        `json:"sandbox"`
	Configurations []string      `json:"configurations"`
	Pods           []PodReport   `json:"pods"`
	Stats          pbxproj.Stats `json:"stats"`
	HookRan        bool          `json:"hook_ran"`
}

// Result carries everything a caller may want after an install.
type Result struct {
	Manifest *manifest.Manifest
	Project  *pods.Project
	Report   Report
}

// Run performs one full install.
func (inst *Installer) Run() (*Result, error) {
	m, err := manifest.Load(inst.manifestPath)
	if err != nil {
		return nil, err
	}

	absManifest, err := filepath.Abs(inst.manifestPath)
	if err != nil {
		return nil, err
	}
	baseDir := filepath.Dir(absManifest)

	sandbox := m.Project.Sandbox
	if inst.opts.Sandbox != "" {
		sandbox = inst.opts.Sandbox
	}
	if !filepath.IsAbs(sandbox) {
		sandbox = filepath.Join(baseDir, sandbox)
	}

	project := pods.New(filepath.Join(sandbox, projectFileName))
	if m.Project.Symroot != "" {
		project.SetSymroot(m.Project.Symroot)
	}
	project.AddManifestReference(absManifest)

	for _, cfg := range m.Configurations {
		project.AddBuildConfiguration(cfg.Name, buildKind(cfg.Kind))
	}

	report := Report{
		ProjectName: m.Project.Name,
		ProjectPath: project.Path(),
		Sandbox:     sandbox,
	}
	for _, cfg := range project.BuildConfigurations() {
		report.Configurations = append(report.Configurations, cfg.Name)
	}

	podNames := make([]string, 0, len(m.Pods))
	for _, pod := range m.Pods {
		dir := pod.Dir(sandbox)
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(baseDir, dir)
		}
		podReport, err := inst.installPod(project, pod, dir)
		if err != nil {
			return nil, err
		}
		report.Pods = append(report.Pods, podReport)
		podNames = append(podNames, pod.Name)
	}

	if m.Hooks.PostInstall != "" {
		hookPath := m.Hooks.PostInstall
		if !filepath.IsAbs(hookPath) {
			hookPath = filepath.Join(baseDir, hookPath)
		}
		runner := hooks.NewRunner(hooks.Env{
			ProjectName: m.Project.Name,
			Project:     project,
			PodNames:    podNames,
		})
		defer runner.Close()
		if err := runner.Run(hookPath); err != nil {
			return nil, err
		}
		report.HookRan = true
	}

	report.Stats = project.Stats()

	return &Result{Manifest: m, Project: project, Report: report}, nil
}

// installPod registers the pod's group and walks its directory, placing
// every recognized file.
func (inst *Installer) installPod(project *pods.Project, pod manifest.Pod, dir string) (PodReport, error) {
	report := PodReport{Name: pod.Name, Development: pod.Development}

	info, err := os.Stat(dir)
	if err != nil {
		return report, fmt.Errorf("pod %s: %w", pod.Name, err)
	}
	if !info.IsDir() {
		return report, fmt.Errorf("pod %s: %s is not a directory", pod.Name, dir)
	}

	if _, err := project.AddPodGroup(pod.Name, dir, pod.Development, true); err != nil {
		return report, err
	}

	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped
		}
		if path == dir {
			return nil
		}
		name := d.Name()
		if strings.HasPrefix(name, ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			class := classifyDir(name)
			if class == classSkip {
				return nil
			}
			if err := inst.place(project, pod, &report, class, dir, path); err != nil {
				return err
			}
			return filepath.SkipDir
		}

		class := classifyFile(name)
		if class == classSkip {
			report.Skipped++
			return nil
		}
		return inst.place(project, pod, &report, class, dir, path)
	})
	if walkErr != nil {
		return report, walkErr
	}

	return report, nil
}

// place resolves the destination group for one classified entry and adds
// its file reference. Sources of development pods mirror the directory
// structure; everything else is added flat, with localized resources
// still folding into variant groups.
func (inst *Installer) place(project *pods.Project, pod manifest.Pod, report *PodReport, class fileClass, dir, path string) error {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return fmt.Errorf("pod %s: %w", pod.Name, err)
	}

	var (
		group  *pbxproj.Node
		mirror bool
	)
	switch class {
	case classSource:
		if pod.Development {
			group, err = project.GroupForSpec(pod.Name, pods.SubgroupNone)
			mirror = true
		} else {
			group, err = project.GroupForSpec(specFor(pod, rel), pods.SubgroupNone)
		}
	case classResource:
		group, err = project.GroupForSpec(specFor(pod, rel), pods.SubgroupResources)
	case classFramework:
		group, err = project.GroupForSpec(specFor(pod, rel), pods.SubgroupFrameworks)
	case classSupport:
		group, err = project.PodSupportFilesGroup(pod.Name, dir)
	default:
		return nil
	}
	if err != nil {
		return fmt.Errorf("pod %s: %w", pod.Name, err)
	}

	if _, err := project.AddFileReference(path, group, mirror); err != nil {
		return fmt.Errorf("pod %s: %w", pod.Name, err)
	}

	switch class {
	case classSource:
		report.Sources++
	case classResource:
		report.Resources++
	case classFramework:
		report.Frameworks++
	case classSupport:
		report.SupportFiles++
	}
	return nil
}

// specFor returns the spec name a pod file belongs to. The longest
// declared subspec whose directory path prefixes the file's relative
// path wins; files outside every subspec belong to the pod itself.
func specFor(pod manifest.Pod, rel string) string {
	var segments []string
	if dir := filepath.Dir(rel); dir != "." {
		segments = strings.Split(filepath.ToSlash(dir), "/")
	}

	best := ""
	for _, sub := range pod.Subspecs {
		subSegments := strings.Split(sub, "/")
		if len(subSegments) > len(segments) {
			continue
		}
		match := true
		for i, s := range subSegments {
			if segments[i] != s {
				match = false
				break
			}
		}
		if match && len(sub) > len(best) {
			best = sub
		}
	}

	if best == "" {
		return pod.Name
	}
	return pod.Name + "/" + best
}

// buildKind maps a manifest configuration kind to its build kind.
func buildKind(kind string) pbxproj.BuildKind {
	if kind == manifest.KindRelease {
		return pbxproj.BuildRelease
	}
	return pbxproj.BuildDebug
}
