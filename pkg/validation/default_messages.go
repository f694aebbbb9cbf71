package validation

import (
	"fmt"
	"strings"
)

func DefaultMessage(field, tag string) string {
	field = strings.ToLower(field)

	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "numeric":
		return fmt.Sprintf("%s must be numeric", field)
	case "min":
		return fmt.Sprintf("%s is below the minimum length or value", field)
	case "max":
		return fmt.Sprintf("%s exceeds the maximum length or value", field)
	case "len":
		return fmt.Sprintf("%s has the wrong length", field)
	case "gte", "gt":
		return fmt.Sprintf("%s is below the minimum value", field)
	case "lte", "lt":
		return fmt.Sprintf("%s exceeds the maximum value", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "alphanum":
		return fmt.Sprintf("%s may only contain letters and digits", field)
	case "boolean":
		return fmt.Sprintf("%s must be true or false", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of the allowed values", field)
	case "lowercase":
		return fmt.Sprintf("%s must be lowercase", field)
	default:
		return fmt.Sprintf("%s is not valid", field)
	}
}

// Messages turns validator field errors into readable lines, custom text first.
func Messages(fields []FieldError) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if custom := CustomMessage(f.Field); custom != nil {
			if msg, ok := custom[f.Tag]; ok {
				out = append(out, msg)
				continue
			}
		}
		out = append(out, DefaultMessage(f.Field, f.Tag))
	}
	return out
}

// FieldError is the part of a validator error the messages depend on.
type FieldError struct {
	Field string
	Tag   string
}
