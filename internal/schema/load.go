package schema

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
)

//go:embed schema.cue
var schemaCUE []byte

// Error codes for definition loading.
const (
	ErrCodeCompile           = "SCHEMA_COMPILE"
	ErrCodeInvalidDefinition = "SCHEMA_INVALID"
	ErrCodeOverlayRead       = "SCHEMA_OVERLAY_READ"
)

// LoadError represents a failure to load or validate the table definition.
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Load compiles the embedded table definition and returns the decoded
// Definition. The result is validated; a repository whose embedded document
// is broken fails at startup, not mid-request.
func Load() (*Definition, error) {
	return load(schemaCUE, nil)
}

// LoadWithOverlay compiles the embedded definition unified with an
// operator-supplied CUE document. The overlay can replace the header set,
// add renames, or swap the table name; the merged result is validated the
// same way as the built-in one.
func LoadWithOverlay(path string) (*Definition, error) {
	overlay, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeOverlayRead, Message: fmt.Sprintf("read overlay %s: %v", path, err)}
	}
	return load(schemaCUE, overlay)
}

func load(base, overlay []byte) (*Definition, error) {
	ctx := cuecontext.New()

	v := ctx.CompileBytes(base, cue.Filename("schema.cue"))
	if err := v.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeCompile, Message: errors.Details(err, nil)}
	}

	if overlay != nil {
		ov := ctx.CompileBytes(overlay, cue.Filename("overlay.cue"))
		if err := ov.Err(); err != nil {
			return nil, &LoadError{Code: ErrCodeCompile, Message: errors.Details(err, nil)}
		}
		v = v.Unify(ov)
		if err := v.Err(); err != nil {
			return nil, &LoadError{Code: ErrCodeCompile, Message: errors.Details(err, nil)}
		}
	}

	def := v.LookupPath(cue.ParsePath("definition"))
	if err := def.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeCompile, Message: errors.Details(err, nil)}
	}
	if err := def.Validate(cue.Concrete(true)); err != nil {
		return nil, &LoadError{Code: ErrCodeInvalidDefinition, Message: errors.Details(err, nil)}
	}

	var d Definition
	if err := def.Decode(&d); err != nil {
		return nil, &LoadError{Code: ErrCodeInvalidDefinition, Message: fmt.Sprintf("decode definition: %v", err)}
	}
	if err := d.validate(); err != nil {
		return nil, err
	}

	return &d, nil
}
