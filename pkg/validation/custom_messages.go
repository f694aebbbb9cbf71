package validation

func CustomMessage(field string) map[string]string {
	var customValidationMessages = map[string]map[string]string{
		"Email": {
			"required": "email is required",
			"email":    "email is not valid",
		},
		"Password": {
			"required": "password is required",
			"min":      "password must be at least 6 characters",
		},
		"OldPassword": {
			"required": "old password is required",
		},
		"NewPassword": {
			"required": "new password is required",
			"min":      "new password must be at least 6 characters",
			"max":      "new password must be at most 100 characters",
		},
		"Title": {
			"required": "title is required",
			"max":      "title is too long",
		},
		"Thumbnail": {
			"url": "thumbnail must be a valid url",
		},
	}
	return customValidationMessages[field]
}
