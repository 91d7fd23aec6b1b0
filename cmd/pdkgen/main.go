package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/wippyai/wasm-pdk/bindgen"
)

func main() {
	var (
		dir      = flag.String("dir", ".", "Package directory to scan for //pdk:export declarations")
		out      = flag.String("out", "", "Generated file path (default <dir>/pdk_exports.gen.go)")
		manifest = flag.String("manifest", "", "Also write a YAML export manifest to this path")
		pkgName  = flag.String("pkg", "", "Package name for the generated file (default: scanned package)")
		cfgFile  = flag.String("config", "", "Config file (default <dir>/pdkgen.yaml if present)")
		strict   = flag.Bool("strict", false, "Exit nonzero when any export is rejected")
		noColor  = flag.Bool("no-color", false, "Disable colored diagnostics")
		verbose  = flag.Bool("v", false, "Verbose logging")
	)
	flag.Parse()

	if err := run(*dir, *out, *manifest, *pkgName, *cfgFile, *strict, *noColor, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(dir, out, manifestPath, pkgName, cfgFile string, strict, noColor, verbose bool) error {
	cfg, err := loadConfig(dir, cfgFile)
	if err != nil {
		return err
	}
	if out == "" {
		out = cfg.GetString("out")
	}
	if out == "" {
		out = filepath.Join(dir, "pdk_exports.gen.go")
	}
	if manifestPath == "" {
		manifestPath = cfg.GetString("manifest")
	}
	if !strict {
		strict = cfg.GetBool("strict")
	}

	if verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		defer logger.Sync()
		bindgen.SetLogger(logger)
	}

	descs, err := bindgen.Discover(dir)
	if err != nil {
		return err
	}
	if len(descs) == 0 {
		fmt.Printf("no //pdk:export declarations found in %s\n", dir)
		return nil
	}

	valid, diags := bindgen.Validate(descs)
	printDiagnostics(os.Stderr, diags, noColor)
	if strict && len(diags) > 0 {
		return fmt.Errorf("%d export(s) rejected", len(descs)-len(valid))
	}

	name := pkgName
	if name == "" {
		name = packageName(dir)
	}

	src, err := bindgen.Synthesize(name, valid)
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, src, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	fmt.Printf("wrote %s (%d export(s))\n", out, len(valid))

	if manifestPath != "" {
		module := ""
		if len(valid) > 0 {
			module = valid[0].PkgPath
		}
		data, err := bindgen.BuildManifest(module, valid).Encode()
		if err != nil {
			return err
		}
		if err := os.WriteFile(manifestPath, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", manifestPath, err)
		}
		fmt.Printf("wrote %s\n", manifestPath)
	}
	return nil
}

// loadConfig reads pdkgen.yaml style defaults. A missing file is fine;
// a named file that cannot be read is not.
func loadConfig(dir, cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		return v, nil
	}

	v.SetConfigName("pdkgen")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}
