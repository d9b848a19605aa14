// Command apigen generates Go declarations from an upstream API schema.
//
// Usage:
//
//	apigen -schema api.json -out bindings.gen.go -package bindings
//
// The schema is a JSON description of interfaces and members; type
// expressions that do not map cleanly to Go are resolved through the
// built-in override registry.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/hazyhaar/tabctl/apigen"
)

func main() {
	var (
		schemaPath = flag.String("schema", "", "path to the API schema JSON (required)")
		outPath    = flag.String("out", "", "output file (default: stdout)")
		pkgName    = flag.String("package", "bindings", "package name for the generated file")
		logLevel   = flag.String("log-level", "info", "log level: debug, info, warn, error")
	)
	flag.Parse()

	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if *schemaPath == "" {
		fmt.Fprintln(os.Stderr, "apigen: -schema is required")
		flag.Usage()
		os.Exit(2)
	}

	if err := run(logger, *schemaPath, *outPath, *pkgName); err != nil {
		logger.Error("apigen failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, schemaPath, outPath, pkgName string) error {
	schema, err := apigen.LoadSchema(schemaPath)
	if err != nil {
		return fmt.Errorf("load schema: %w", err)
	}
	logger.Info("apigen: schema loaded", "path", schemaPath, "interfaces", len(schema.Interfaces))

	g := &apigen.Generator{
		Package:   pkgName,
		Overrides: apigen.Defaults(),
	}
	src, err := g.Generate(schema)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}

	if outPath == "" {
		_, err = os.Stdout.Write(src)
		return err
	}
	if err := os.WriteFile(outPath, src, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	logger.Info("apigen: generated", "out", outPath, "bytes", len(src))
	return nil
}
