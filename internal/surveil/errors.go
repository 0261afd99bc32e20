package surveil

import "fmt"

// ConfigError reports a problem parsing or validating a deployment config:
// unknown sensor type, missing required field, or unparseable YAML.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("config: %v", e.Err)
	}
	return fmt.Sprintf("config: %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// MapError reports a problem with the map raster: unreadable, empty, or
// fully occupied (no free cells).
type MapError struct {
	Path string
	Err  error
}

func (e *MapError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("map: %v", e.Err)
	}
	return fmt.Sprintf("map %q: %v", e.Path, e.Err)
}

func (e *MapError) Unwrap() error { return e.Err }

// GraphError reports a problem building or loading the reduced graph:
// reduction produced zero hallway nodes while line sensors are required,
// or a persisted graph blob doesn't match the map it's keyed to.
type GraphError struct {
	Err error
}

func (e *GraphError) Error() string { return fmt.Sprintf("graph: %v", e.Err) }
func (e *GraphError) Unwrap() error { return e.Err }

// PlacementError reports a sensor of unknown kind reaching a pipeline stage
// that does not consume it.
type PlacementError struct {
	SensorName string
	Kind       SensorKind
}

func (e *PlacementError) Error() string {
	return fmt.Sprintf("placement: sensor %q has unplaceable kind %v", e.SensorName, e.Kind)
}

// PoseError is an internal programming fault: a sensor was queried before
// being placed. It is never returned as an error value — see requirePlaced.
type PoseError struct {
	SensorName string
}

func (e *PoseError) Error() string {
	return fmt.Sprintf("surveil: sensor %q queried before placement", e.SensorName)
}

// requirePlaced panics with a PoseError if the sensor has not been placed.
// PoseError is a programming fault (spec: "should be unreachable"), so it
// surfaces as a panic rather than a returned error.
func requirePlaced(name string, placed bool) {
	if !placed {
		panic(&PoseError{SensorName: name})
	}
}
