package domain

import "fmt"

// ParamLocation is where a parameter is supplied in a request.
type ParamLocation string

const (
	// LocationQuery marks a URL query parameter.
	LocationQuery ParamLocation = "query"
	// LocationPath marks a URL path placeholder parameter.
	LocationPath ParamLocation = "path"
	// LocationBody marks a request body field.
	LocationBody ParamLocation = "body"
	// LocationHeader marks an HTTP header parameter.
	LocationHeader ParamLocation = "header"
)

// ParseParamLocation validates a parameter location from the corpus file.
// An empty value defaults to query.
func ParseParamLocation(s string) (ParamLocation, error) {
	switch ParamLocation(s) {
	case "":
		return LocationQuery, nil
	case LocationQuery, LocationPath, LocationBody, LocationHeader:
		return ParamLocation(s), nil
	default:
		return "", fmt.Errorf("unknown parameter location %q", s)
	}
}

// ParamType is the declared value type of a parameter.
type ParamType string

const (
	// TypeString is a string parameter.
	TypeString ParamType = "string"
	// TypeInteger is an integer parameter.
	TypeInteger ParamType = "integer"
	// TypeNumber is a floating-point parameter.
	TypeNumber ParamType = "number"
	// TypeBoolean is a boolean parameter.
	TypeBoolean ParamType = "boolean"
	// TypeArray is an array parameter.
	TypeArray ParamType = "array"
	// TypeObject is an object parameter.
	TypeObject ParamType = "object"
)

// ParseParamType validates a parameter type from the corpus file.
// An empty value defaults to string.
func ParseParamType(s string) (ParamType, error) {
	switch ParamType(s) {
	case "":
		return TypeString, nil
	case TypeString, TypeInteger, TypeNumber, TypeBoolean, TypeArray, TypeObject:
		return ParamType(s), nil
	default:
		return "", fmt.Errorf("unknown parameter type %q", s)
	}
}

// Parameter describes one documented request parameter.
type Parameter struct {
	Name        string
	Location    ParamLocation
	Type        ParamType
	Required    bool
	Description string
	Default     string
}

// Endpoint is one documented API operation.
type Endpoint struct {
	Name        string
	Method      string
	Path        string
	Description string
	Parameters  []Parameter
	Example     string
	Tags        []string
}

// Key returns the uniqueness key of the endpoint within a corpus.
func (e *Endpoint) Key() string {
	return e.Method + " " + e.Path
}

// DisplayName returns the endpoint name, falling back to "METHOD path"
// when the source documentation carried no label.
func (e *Endpoint) DisplayName() string {
	if e.Name != "" {
		return e.Name
	}
	return e.Method + " " + e.Path
}
