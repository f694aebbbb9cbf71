package constants

// Field Length Limits
const (
	MinPasswordLength = 6
	MaxPasswordLength = 100
	MinUsernameLength = 3
	MaxUsernameLength = 30
	MaxFullnameLength = 80
	MaxTitleLength    = 200
	MaxDescLength     = 5000
	MaxCommentLength  = 2000
	MaxPlaylistName   = 120
)
