// Package schema validates bucket manifest documents against the JSON
// Schema grammar wenget's buckets must conform to before their packages and
// scripts enter the manifest cache.
package schema

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const manifestSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "packages": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "repo", "platforms"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "repo": {"type": "string", "minLength": 1},
          "description": {"type": "string"},
          "homepage": {"type": "string"},
          "license": {"type": "string"},
          "platforms": {
            "type": "object",
            "patternProperties": {
              "^(windows|linux|macos|freebsd)-(x86_64|i686|aarch64|armv7)(-(gnu|musl|msvc))?$": {
                "type": "array",
                "items": {
                  "type": "object",
                  "required": ["url"],
                  "properties": {
                    "url": {"type": "string", "minLength": 1},
                    "size": {"type": "integer", "minimum": 0},
                    "asset_name": {"type": "string"},
                    "checksum": {"type": "string"}
                  }
                }
              }
            },
            "additionalProperties": false
          }
        }
      }
    },
    "scripts": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "url", "script_type"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "description": {"type": "string"},
          "url": {"type": "string", "minLength": 1},
          "script_type": {"enum": ["powershell", "bash", "batch", "python"]},
          "repo": {"type": "string"},
          "homepage": {"type": "string"},
          "license": {"type": "string"}
        }
      }
    }
  }
}`

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func manifestSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader([]byte(manifestSchemaJSON)))
		if err != nil {
			compileErr = fmt.Errorf("parse embedded manifest schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("wenget-manifest.json", doc); err != nil {
			compileErr = fmt.Errorf("register manifest schema: %w", err)
			return
		}
		compiled, compileErr = c.Compile("wenget-manifest.json")
	})
	return compiled, compileErr
}

// ValidateManifest checks raw bucket-manifest JSON bytes against the
// package/script grammar before it is unmarshaled into model types.
func ValidateManifest(raw []byte) error {
	sch, err := manifestSchema()
	if err != nil {
		return err
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("parse manifest as JSON: %w", err)
	}
	if err := sch.Validate(inst); err != nil {
		return fmt.Errorf("manifest failed schema validation: %w", err)
	}
	return nil
}
