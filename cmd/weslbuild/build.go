package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"weslbuild/internal/buildpipeline"
	"weslbuild/internal/compiler"
	"weslbuild/internal/extension"
	"weslbuild/internal/manifest"
	"weslbuild/internal/walker"
)

var buildCmd = &cobra.Command{
	Use:   "build [flags] [shader-root]",
	Short: "Compile every shader module under the shader root",
	Long:  "Compile every .wgsl/.wesl file under the shader root, using wesl.toml for defaults when present. All modules are attempted; every failure is reported in one pass.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  buildExecution,
}

func buildExecution(cmd *cobra.Command, args []string) error {
	outFlag, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}
	targetFlag, err := cmd.Flags().GetString("target")
	if err != nil {
		return err
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return err
	}
	debugInfo, err := cmd.Flags().GetBool("debug-info")
	if err != nil {
		return err
	}
	noValidate, err := cmd.Flags().GetBool("no-validate")
	if err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return err
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	uiModeValue, err := readUIMode(uiValue)
	if err != nil {
		return err
	}

	man, manifestFound, err := manifest.Load(".")
	if err != nil {
		return err
	}

	root := ""
	if len(args) > 0 {
		root = args[0]
	}
	outDir := outFlag
	target := targetFlag
	var exts []extension.Extension
	if manifestFound {
		if root == "" {
			root = man.RootDir()
		}
		if outDir == "" {
			outDir = man.OutputDir()
		}
		if target == "" {
			target = man.Config.Shaders.Target
		}
		exts = manifestExtensions(man)
	}
	if root == "" {
		return fmt.Errorf("no wesl.toml found\nplease specify the shader root explicitly, e.g.:\n  weslbuild build path/to/shaders")
	}
	if outDir == "" {
		outDir = filepath.Join("target", "shaders")
	}
	if target == "" {
		target = string(compiler.TargetSPIRV)
	}

	compTarget, err := readTarget(target)
	if err != nil {
		return err
	}
	comp := compiler.NewNaga(compiler.Options{
		Target:   compTarget,
		Debug:    debugInfo,
		Validate: !noValidate,
	})

	files := collectDisplayFiles(root)

	req := buildpipeline.Request{
		Root:           root,
		OutputDir:      outDir,
		Compiler:       comp,
		Extensions:     exts,
		MaxDiagnostics: maxDiagnostics,
		Files:          files,
	}

	var report *buildpipeline.Report
	var buildErr error
	if shouldUseTUI(uiModeValue) && len(files) > 0 {
		report, buildErr = runBuildWithUI("weslbuild build", files, &req)
	} else {
		report, buildErr = buildpipeline.Build(&req)
	}

	if report != nil {
		renderDiagnostics(os.Stderr, report.Diags, quiet)
		if showTimings {
			printStageTimings(os.Stdout, report.Timings)
		}
	}
	if buildErr != nil {
		return buildErr
	}
	if !quiet {
		fmt.Fprintf(os.Stdout, "built %d shaders into %s\n", len(report.Outcomes), outDir)
	}
	return nil
}

// collectDisplayFiles pre-walks the tree for the progress display. Walk
// errors surface later from the build itself.
func collectDisplayFiles(root string) []string {
	units, err := walker.Collect(root)
	if err != nil {
		return nil
	}
	files := make([]string, 0, len(units))
	for i := range units {
		files = append(files, buildpipeline.DisplayName(root, units[i].File))
	}
	return files
}

func manifestExtensions(man *manifest.Manifest) []extension.Extension {
	var exts []extension.Extension
	cfg := man.Config.Extensions
	// The minifier runs first so the size logger and generated embeds see
	// the minified result.
	if cfg.Minify {
		exts = append(exts, extension.Minifier{})
	}
	if cfg.SizeLogger {
		exts = append(exts, extension.NewSizeLogger())
	}
	if cfg.EmbedGen {
		exts = append(exts, extension.NewEmbedGen(cfg.EmbedPackage))
	}
	return exts
}

func readTarget(value string) (compiler.Target, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "spirv", "spv":
		return compiler.TargetSPIRV, nil
	case "msl", "metal":
		return compiler.TargetMSL, nil
	case "glsl":
		return compiler.TargetGLSL, nil
	default:
		return "", fmt.Errorf("unsupported target: %s (supported: spirv, msl, glsl)", value)
	}
}

func init() {
	buildCmd.Flags().String("out", "", "artifact output directory (default from wesl.toml or target/shaders)")
	buildCmd.Flags().String("target", "", "artifact format: spirv, msl, glsl (default from wesl.toml or spirv)")
	buildCmd.Flags().String("ui", "auto", "user interface (auto|on|off)")
	buildCmd.Flags().Bool("debug-info", false, "include debug info in artifacts")
	buildCmd.Flags().Bool("no-validate", false, "skip IR validation before code generation")
}
