// catalog_schema 为 data/ 下的 YAML 目录和保存的规则集生成 JSON Schema
//
// 用法：
//
//	go run ./cmd/catalog_schema -out schemas
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/decker502/transmog/pkg/config"
	"github.com/decker502/transmog/pkg/game"
	"github.com/invopop/jsonschema"
)

// schemaTarget 一个输出文件
type schemaTarget struct {
	file        string
	title       string
	description string
	value       interface{}
}

var targets = []schemaTarget{
	{
		file:        "animation_sets.schema.json",
		title:       "Animation Sets",
		description: "Validates data/animation_sets.yaml",
		value:       new(config.AnimationSetsFile),
	},
	{
		file:        "projectile_casts.schema.json",
		title:       "Projectile Casts",
		description: "Validates data/projectile_casts.yaml",
		value:       new(config.ProjectileCastsFile),
	},
	{
		file:        "transmog_sets.schema.json",
		title:       "Transmog Sets",
		description: "Validates stored transmog sets and data/default_transmog_sets.yaml",
		value:       new(game.TransmogSetsFile),
	},
}

func main() {
	var outDir string
	flag.StringVar(&outDir, "out", "", "directory to write the JSON schemas")
	flag.Parse()

	if outDir == "" {
		fmt.Fprintln(os.Stderr, "--out is required")
		os.Exit(1)
	}

	for _, target := range targets {
		path := filepath.Join(outDir, target.file)
		if err := writeSchema(path, buildSchema(target)); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write schema: %v\n", err)
			os.Exit(1)
		}
		log.Printf("[catalog_schema] wrote %s", path)
	}
}

func buildSchema(target schemaTarget) *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
	}
	schema := reflector.Reflect(target.value)
	schema.Title = target.title
	schema.Description = target.description
	return schema
}

func writeSchema(outPath string, schema *jsonschema.Schema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create schema directory: %w", err)
	}

	tmpPath := outPath + ".tmp"
	if err := os.WriteFile(tmpPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write temp schema: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("replace schema: %w", err)
	}

	return nil
}
