package domain

import (
	"encoding/json"
	"fmt"
)

// Experience represents a single structured learning experience record:
// who learned (Learner), where (Context), and what happened (Data).
// Records are constructed from external input and are never mutated by
// the analytics core.
type Experience struct {
	ID        string         `json:"id"`
	Timestamp string         `json:"timestamp"`
	Learner   Learner        `json:"learner"`
	Context   Context        `json:"context"`
	Data      ExperienceData `json:"experience"`
}

// Learner identifies the person the experience belongs to.
type Learner struct {
	ID string `json:"id"`
}

// Context describes the setting an experience occurred in.
type Context struct {
	Location Location `json:"location"`
}

// Location is a named place with optional geographic coordinates.
type Location struct {
	Name        string       `json:"name"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

// Coordinates is a latitude/longitude pair. Valid ranges are [-90,90]
// for latitude and [-180,180] for longitude; range checking is the
// validator's job, not the decoder's.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ExperienceData holds the free-form detail of an experience. The wire
// key for Type is literally "type"; the tag must not be changed even
// though the name is a reserved word in other ecosystems that consume
// this format.
type ExperienceData struct {
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Domains     []string `json:"domains,omitempty"`
}

// Wire shadows used during decoding. Pointer fields let us distinguish
// an absent required object from a present-but-zero one, which plain
// struct decoding cannot do.
type experienceWire struct {
	ID         string              `json:"id"`
	Timestamp  string              `json:"timestamp"`
	Learner    *Learner            `json:"learner"`
	Context    *contextWire        `json:"context"`
	Experience *experienceDataWire `json:"experience"`
}

type contextWire struct {
	Location *locationWire `json:"location"`
}

type locationWire struct {
	Name        string           `json:"name"`
	Coordinates *coordinatesWire `json:"coordinates"`
}

type coordinatesWire struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type experienceDataWire struct {
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Domains     []string `json:"domains"`
}

// UnmarshalJSON decodes an experience record, requiring the nested
// learner, context, context.location and experience objects to be
// present. Missing or mistyped structure is a decode error; empty
// string fields are not; those are semantic violations reported by the
// validator instead.
func (e *Experience) UnmarshalJSON(data []byte) error {
	var wire experienceWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	if wire.Learner == nil {
		return fmt.Errorf("missing required field `learner`")
	}
	if wire.Context == nil {
		return fmt.Errorf("missing required field `context`")
	}
	if wire.Context.Location == nil {
		return fmt.Errorf("missing required field `context.location`")
	}
	if wire.Experience == nil {
		return fmt.Errorf("missing required field `experience`")
	}

	e.ID = wire.ID
	e.Timestamp = wire.Timestamp
	e.Learner = *wire.Learner
	e.Context = Context{
		Location: Location{Name: wire.Context.Location.Name},
	}

	// Coordinates are optional, but when the object is present both
	// numbers must be.
	if coords := wire.Context.Location.Coordinates; coords != nil {
		if coords.Latitude == nil {
			return fmt.Errorf("missing required field `latitude`")
		}
		if coords.Longitude == nil {
			return fmt.Errorf("missing required field `longitude`")
		}
		e.Context.Location.Coordinates = &Coordinates{
			Latitude:  *coords.Latitude,
			Longitude: *coords.Longitude,
		}
	}

	e.Data = ExperienceData{
		Type:        wire.Experience.Type,
		Description: wire.Experience.Description,
		Domains:     wire.Experience.Domains,
	}

	return nil
}

// ValidationResult reports the outcome of validating a single
// experience record. Valid is true exactly when Errors is empty.
// Errors accumulates every violated check in a fixed order, so the
// result is deterministic for a given input.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}
