package task

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// taskSchemaJSON is the contract the remote store's payloads are expected to
// follow. Extra fields are tolerated; id, title, and completed are required.
//
//go:embed task.schema.json
var taskSchemaJSON string

var (
	listSchema *jsonschema.Schema
	itemSchema *jsonschema.Schema
)

func init() {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource("task.schema.json", strings.NewReader(taskSchemaJSON)); err != nil {
		panic(fmt.Sprintf("task: adding embedded schema: %v", err))
	}
	listSchema = compiler.MustCompile("task.schema.json")
	itemSchema = compiler.MustCompile("task.schema.json#/$defs/task")
}

// ContractError describes one way a payload deviates from the task contract.
type ContractError struct {
	Path string // JSON path to the error location
	Err  error  // Underlying error
}

func (e *ContractError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ContractError) Unwrap() error {
	return e.Err
}

// ContractResult contains the outcome of validating a raw store payload.
type ContractResult struct {
	Valid  bool
	Errors []error
}

// ValidateListPayload checks raw bytes from a LIST response against the task
// contract: a JSON array of objects each carrying id, title, and completed.
func ValidateListPayload(data []byte) *ContractResult {
	return validatePayload(data, listSchema)
}

// ValidateTaskPayload checks raw bytes holding a single task record, as
// returned by create and replace calls.
func ValidateTaskPayload(data []byte) *ContractResult {
	return validatePayload(data, itemSchema)
}

func validatePayload(data []byte, schema *jsonschema.Schema) *ContractResult {
	result := &ContractResult{
		Valid:  true,
		Errors: make([]error, 0),
	}

	var payload interface{}
	if err := json.Unmarshal(data, &payload); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ContractError{
			Err: fmt.Errorf("payload is not valid JSON: %w", err),
		})
		return result
	}

	if err := schema.Validate(payload); err != nil {
		result.Valid = false
		appendSchemaErrors(result, err)
	}

	return result
}

func appendSchemaErrors(result *ContractResult, err error) {
	if err == nil {
		return
	}

	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		result.Errors = append(result.Errors, err)
		return
	}

	collectSchemaErrors(result, ve)
}

func collectSchemaErrors(result *ContractResult, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}

	if len(err.Causes) == 0 {
		result.Errors = append(result.Errors, &ContractError{
			Path: jsonPointerToPath(err.InstanceLocation),
			Err:  fmt.Errorf("%s", err.Message),
		})
		return
	}

	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}

// jsonPointerToPath converts a JSON Pointer like "/0/title" to "[0].title".
func jsonPointerToPath(ptr string) string {
	if ptr == "" {
		return ""
	}
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	parts := strings.Split(ptr, "/")
	path := ""
	for _, part := range parts {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			path += fmt.Sprintf("[%d]", idx)
			continue
		}
		if path == "" {
			path = part
		} else {
			path += "." + part
		}
	}

	return path
}
