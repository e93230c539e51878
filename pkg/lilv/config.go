package lilv

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
)

// Config describes what a freshly created world should load before it is
// handed to the caller. The zero value creates an empty world.
type Config struct {
	// LoadAll scans the LV2 search path, as lilv_world_load_all does.
	LoadAll bool `json:"load_all,omitempty" jsonschema:"description=Load every bundle found on the LV2 search path"`

	// Bundles lists bundle directories loaded one by one after LoadAll.
	Bundles []string `json:"bundles,omitempty" validate:"dive,required" jsonschema:"description=Bundle directories to load explicitly"`

	// Preload names identifiers, by prefixed name or URI, whose nodes are
	// materialized during construction instead of on first use.
	Preload []string `json:"preload,omitempty" validate:"dive,lv2id" jsonschema:"description=Identifiers materialized eagerly (e.g. lv2:AudioPort)"`
}

// validate is a package-level singleton; building a validator is expensive.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("lv2id", func(fl validator.FieldLevel) bool {
		_, ok := LookupIdentifier(fl.Field().String())
		return ok
	})
	return v
}

// Validate checks the struct tags above, rejecting empty bundle paths and
// unknown preload identifiers.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("lilv: invalid config: %w", err)
	}
	return nil
}

func (c Config) preloadIdentifiers() []Identifier {
	ids := make([]Identifier, 0, len(c.Preload))
	for _, name := range c.Preload {
		if id, ok := LookupIdentifier(name); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// ConfigSchema returns the JSON schema (Draft 2020-12) describing Config.
func ConfigSchema() ([]byte, error) {
	reflector := jsonschema.Reflector{
		ExpandedStruct: true,
	}
	schema := reflector.Reflect(&Config{})

	out, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return out, nil
}
