package analytics

import (
	"encoding/json"
	"fmt"

	"github.com/lorepath/insight-api/internal/domain"
)

// Coordinate range bounds.
const (
	minLatitude  = -90.0
	maxLatitude  = 90.0
	minLongitude = -180.0
	maxLongitude = 180.0
)

// Config holds the validator's construction-time configuration.
type Config struct {
	// StrictMode has no observable effect under the current rule set.
	// It is an extension point for stricter rules (timestamp format,
	// domain whitelists) and is threaded through the API so adding
	// such rules later does not change the contract.
	StrictMode bool
}

// Validator checks experience records for required fields and semantic
// range constraints. Its only held state is the read-only Config, so a
// single Validator is safe for concurrent use.
type Validator struct {
	cfg Config
}

// NewValidator creates a Validator with the given configuration.
func NewValidator(cfg Config) *Validator {
	return &Validator{cfg: cfg}
}

// Validate runs every check against the record, in a fixed order,
// accumulating a message per violation. It never short-circuits:
// the result lists all violations, and Valid is true exactly when no
// check failed.
func (v *Validator) Validate(exp *domain.Experience) domain.ValidationResult {
	errs := make([]string, 0)

	if exp.ID == "" {
		errs = append(errs, "id is required")
	}
	if exp.Timestamp == "" {
		errs = append(errs, "timestamp is required")
	}
	if exp.Learner.ID == "" {
		errs = append(errs, "learner.id is required")
	}
	if exp.Context.Location.Name == "" {
		errs = append(errs, "context.location.name is required")
	}
	if exp.Data.Type == "" {
		errs = append(errs, "experience.type is required")
	}
	if exp.Data.Description == "" {
		errs = append(errs, "experience.description is required")
	}

	// Coordinates are optional; absent coordinates produce no error.
	if coords := exp.Context.Location.Coordinates; coords != nil {
		if coords.Latitude < minLatitude || coords.Latitude > maxLatitude {
			errs = append(errs, "latitude must be between -90 and 90")
		}
		if coords.Longitude < minLongitude || coords.Longitude > maxLongitude {
			errs = append(errs, "longitude must be between -180 and 180")
		}
	}

	return domain.ValidationResult{
		Valid:  len(errs) == 0,
		Errors: errs,
	}
}

// ValidateJSON validates a raw experience document and returns the
// encoded ValidationResult. It never fails: input that cannot be
// decoded into the experience shape yields a result with Valid=false
// and a single "Parse error: ..." message, so the caller always
// receives a well-formed encoding.
func (v *Validator) ValidateJSON(input []byte) []byte {
	var exp domain.Experience
	if err := json.Unmarshal(input, &exp); err != nil {
		return mustEncodeResult(ParseFailure(err))
	}

	return mustEncodeResult(v.Validate(&exp))
}

// ParseFailure builds the ValidationResult reported for a document that
// could not be decoded into the experience shape.
func ParseFailure(err error) domain.ValidationResult {
	return domain.ValidationResult{
		Valid:  false,
		Errors: []string{fmt.Sprintf("Parse error: %v", err)},
	}
}

// mustEncodeResult marshals a ValidationResult. The type contains only
// booleans and strings, so marshaling cannot fail; the fallback exists
// to honor the always-valid-encoding contract regardless.
func mustEncodeResult(result domain.ValidationResult) []byte {
	out, err := json.Marshal(result)
	if err != nil {
		return []byte(`{"valid":false,"errors":["Parse error: failed to encode result"]}`)
	}
	return out
}
