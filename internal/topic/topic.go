package topic

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
)

// validatorInstance is a package-level validator instance.
// Using a single instance is more efficient as it caches struct information.
var validatorInstance = validator.New()

// EventSchema describes one event type a topic accepts. The schema document
// is declarative only: nothing validates published events against it.
type EventSchema struct {
	EventType string          `json:"eventType" validate:"required"`
	Schema    json.RawMessage `json:"schema"`
}

// Topic is the immutable metadata record for one named event log. Instances
// are only produced by New, which guarantees the invariants below hold.
type Topic struct {
	Name         string        `json:"name" validate:"required,max=255"`
	Description  string        `json:"description" validate:"required"`
	Version      int           `json:"version"`
	CreatedAt    time.Time     `json:"createdAt"`
	EventSchemas []EventSchema `json:"eventSchemas" validate:"required,min=1,dive"`
}

// New validates the given fields and returns a Topic with Version fixed at 1
// and CreatedAt set to the current UTC time. There is no update path: topics
// are create-only. On any invariant violation a *ValidationError naming the
// offending field is returned and the zero Topic is discarded.
func New(name, description string, eventSchemas []EventSchema) (Topic, error) {
	t := Topic{
		Name:         name,
		Description:  description,
		Version:      1,
		CreatedAt:    time.Now().UTC(),
		EventSchemas: eventSchemas,
	}

	if err := validatorInstance.Struct(t); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return Topic{}, &ValidationError{
				Field:   fe.Field(),
				Rule:    fe.Tag(),
				Message: fe.Error(),
			}
		}
		return Topic{}, &ValidationError{Field: "Topic", Message: err.Error()}
	}

	return t, nil
}
