package store

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed state.schema.json
var stateSchemaJSON []byte

var loadStateSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(stateSchemaJSON))
})

// StateSchema returns the JSON schema every serialized state tree satisfies.
func StateSchema() []byte { return stateSchemaJSON }

// validateDocument checks a serialized state tree against the state schema.
func validateDocument(doc []byte) error {
	schema, err := loadStateSchema()
	if err != nil {
		return fmt.Errorf("state schema: %w", err)
	}
	res, err := schema.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return err
	}
	if !res.Valid() {
		var msgs []string
		for i, e := range res.Errors() {
			if i >= 5 {
				break
			}
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("%s", strings.Join(msgs, "; "))
	}
	return nil
}
