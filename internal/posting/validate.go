package posting

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"jobparser/internal/errors"
	"jobparser/internal/types"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "posting.schema.json"

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	return compiler.Compile(schemaURL)
})

// Validate checks p against the posting schema. Constraints the schema cannot
// express across fields are checked here as well.
func Validate(p types.Posting) error {
	schema, err := compileSchema()
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeInvalidPosting, "failed to compile posting schema", err)
	}

	data, err := json.Marshal(p)
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeInvalidPosting, "failed to encode posting", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return errors.NewInternalError(errors.ErrCodeInvalidPosting, "failed to decode posting", err)
	}

	if err := schema.Validate(doc); err != nil {
		return errors.NewValidationError(errors.ErrCodeInvalidPosting, "posting does not match schema", err).
			WithContext("job_code", p.JobCode)
	}
	if p.Salary.Min > p.Salary.Max {
		return errors.NewValidationError(errors.ErrCodeInvalidPosting,
			fmt.Sprintf("salary min %d exceeds max %d", p.Salary.Min, p.Salary.Max), nil).
			WithContext("job_code", p.JobCode)
	}
	return nil
}
