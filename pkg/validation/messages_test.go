package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessages(t *testing.T) {
	got := Messages([]FieldError{
		{Field: "Email", Tag: "email"},
		{Field: "Email", Tag: "max"},
		{Field: "Name", Tag: "required"},
	})

	assert.Equal(t, []string{
		"email is not valid",
		"email exceeds the maximum length or value",
		"name is required",
	}, got)
}

func TestDefaultMessage_Unknown(t *testing.T) {
	assert.Equal(t, "tags is not valid", DefaultMessage("Tags", "dive"))
}
