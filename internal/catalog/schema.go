// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package catalog

import (
	"encoding/json"
	"sync"

	"github.com/invopop/jsonschema"
	"github.com/samber/oops"
	jschema "github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// SchemaID is the $id of the seed schema.
const SchemaID = "https://holomush.dev/schemas/linkguard-catalog.schema.json"

var (
	compiledOnce   sync.Once
	compiledSchema *jschema.Schema
	compiledErr    error
)

// GenerateSchema generates the JSON Schema of the seed format.
func GenerateSchema() ([]byte, error) {
	r := jsonschema.Reflector{
		DoNotReference: true,
	}
	schema := r.Reflect(&Seed{})
	schema.ID = jsonschema.ID(SchemaID)
	schema.Title = "linkguard catalog seed"
	schema.Description = "Items, quests, spells and other records that chat links may reference"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, oops.With("operation", "marshal seed schema").Wrap(err)
	}
	return data, nil
}

// ValidateSchema validates YAML seed data against the seed schema.
func ValidateSchema(data []byte) error {
	if len(data) == 0 {
		return oops.Errorf("seed data is empty")
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return oops.With("operation", "parse seed yaml").Wrap(err)
	}

	sch, err := seedSchema()
	if err != nil {
		return err
	}
	if err := sch.Validate(toJSONTypes(doc)); err != nil {
		return oops.With("operation", "validate seed schema").Wrap(err)
	}
	return nil
}

func seedSchema() (*jschema.Schema, error) {
	compiledOnce.Do(func() {
		raw, err := GenerateSchema()
		if err != nil {
			compiledErr = err
			return
		}
		var doc any
		if err := json.Unmarshal(raw, &doc); err != nil {
			compiledErr = oops.With("operation", "parse seed schema").Wrap(err)
			return
		}
		c := jschema.NewCompiler()
		if err := c.AddResource("seed.schema.json", doc); err != nil {
			compiledErr = oops.With("operation", "add seed schema").Wrap(err)
			return
		}
		compiledSchema, compiledErr = c.Compile("seed.schema.json")
		if compiledErr != nil {
			compiledErr = oops.With("operation", "compile seed schema").Wrap(compiledErr)
		}
	})
	return compiledSchema, compiledErr
}

// toJSONTypes normalizes yaml.v3 output so the schema validator sees JSON values.
func toJSONTypes(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = toJSONTypes(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = toJSONTypes(item)
		}
		return out
	case string, int, int64, float64, bool, nil:
		return val
	default:
		if b, err := json.Marshal(val); err == nil {
			var out any
			if err := json.Unmarshal(b, &out); err == nil {
				return out
			}
		}
		return val
	}
}
