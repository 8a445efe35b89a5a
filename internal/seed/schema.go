package seed

import (
	_ "embed"
	"encoding/json"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// checkShape validates the raw document against #Seed.
//
// The YAML is decoded generically and re-encoded as JSON, which CUE
// compiles directly.
func checkShape(name string, data []byte) []ValidationError {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return []ValidationError{{Code: ErrDecode, Message: err.Error()}}
	}
	if doc == nil {
		return []ValidationError{{Code: ErrEmpty, Message: "seed is empty"}}
	}

	asJSON, err := json.Marshal(doc)
	if err != nil {
		return []ValidationError{{Code: ErrDecode, Message: err.Error()}}
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return []ValidationError{{Code: ErrSchema, Message: "compile schema: " + err.Error()}}
	}

	value := ctx.CompileBytes(asJSON, cue.Filename(name))
	if err := value.Err(); err != nil {
		return []ValidationError{{Code: ErrDecode, Message: err.Error()}}
	}

	unified := schema.LookupPath(cue.ParsePath("#Seed")).Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		var out []ValidationError
		for _, e := range cueerrors.Errors(err) {
			format, args := e.Msg()
			out = append(out, ValidationError{
				Field:   strings.Join(e.Path(), "."),
				Message: sprintf(format, args...),
				Code:    ErrSchema,
			})
		}
		return out
	}

	return nil
}
