package constants

// HTTP Header Names
const (
	HeaderContentType    = "Content-Type"
	HeaderAuthorization  = "Authorization"
	HeaderUserAgent      = "User-Agent"
	HeaderXRequestID     = "X-Request-Id"
	HeaderXCorrelationID = "X-Correlation-ID"
	HeaderXForwardedFor  = "X-Forwarded-For"
	HeaderXRealIP        = "X-Real-IP"
)

const BearerPrefix = "Bearer "

// Session cookies
const (
	CookieAccessToken  = "accessToken"
	CookieRefreshToken = "refreshToken"
)

// HTTP Content Types
const (
	ContentTypeJSON      = "application/json"
	ContentTypeMultipart = "multipart/form-data"
)

// Multipart form fields
const (
	FormFieldAvatar     = "avatar"
	FormFieldCoverImage = "coverImage"
	FormFieldVideoFile  = "videoFile"
	FormFieldThumbnail  = "thumbnail"
)

// Common HTTP Error Messages
const (
	MsgUnauthorized    = "Unauthorized request"
	MsgForbidden       = "Access forbidden"
	MsgNotFound        = "Resource not found"
	MsgBadRequest      = "Invalid request"
	MsgInternalError   = "Internal server error"
	MsgTooManyRequests = "Too many requests"
	MsgTimeout         = "Request timeout"
	MsgInvalidID       = "Invalid id"
	MsgBodyTooLarge    = "Request body too large"
)

// Auth messages
const (
	MsgUserRegistered  = "User registered Successfully"
	MsgUserLoggedIn    = "User logged in successfully"
	MsgUserLoggedOut   = "User logged out"
	MsgTokenRefreshed  = "Access token refreshed"
	MsgPasswordChanged = "Password changed successfully"
	MsgCurrentUser     = "Current user fetched successfully"
	MsgAccountUpdated  = "Account details updated successfully"
	MsgAvatarUpdated   = "Avatar image updated successfully"
	MsgCoverUpdated    = "Cover image updated successfully"
	MsgChannelFetched  = "User channel fetched successfully"
	MsgHistoryFetched  = "Watch history fetched successfully"
)

// Video messages
const (
	MsgVideosFetched        = "Videos fetched successfully."
	MsgVideoPublished       = "Video uploaded and published successfully"
	MsgVideoFetched         = "Video fetched successfully"
	MsgVideoUpdated         = "Video details are updated successfully"
	MsgVideoDeleted         = "The video has been deleted."
	MsgVideoPublishToggled  = "Video publish status toggled"
	MsgVideoViewed          = "The view has been increased."
	MsgRandomVideos         = "Random videos fetched successfully."
	MsgTrendingVideos       = "Trending videos fetched successfully."
	MsgSubscribedVideos     = "Subscribed channels videos fetched successfully."
	MsgTagVideos            = "Videos fetched by tags successfully."
	MsgSearchResults        = "Search results fetched successfully."
	MsgVideoDetailsRequired = "Video details are required"
	MsgVideoUpdateForbidden = "You can update only your video"
	MsgVideoDeleteForbidden = "You can delete only your video"
	MsgTagsRequired         = "Tags are required"
	MsgSearchRequired       = "Search query is required"
)

// Comment messages
const (
	MsgCommentsFetched        = "Comments fetched successfully."
	MsgCommentAdded           = "Comment added successfully."
	MsgCommentUpdated         = "Comment updated successfully."
	MsgCommentDeleted         = "The comment has been deleted successfully."
	MsgCommentContentRequired = "Comment content is required"
	MsgCommentUpdateForbidden = "You can only update your own comment"
	MsgCommentDeleteForbidden = "You can only delete your own comment!"
)

// Like messages
const (
	MsgVideoLiked       = "The video has been liked successfully."
	MsgVideoUnliked     = "The video has been unliked successfully."
	MsgVideoDisliked    = "The video has been disliked successfully."
	MsgCommentLiked     = "Comment liked successfully."
	MsgCommentUnliked   = "Like removed from comment."
	MsgLikedVideosFound = "Liked videos fetched successfully."
)

// Subscription messages
const (
	MsgSubscribed         = "Subscribed successfully"
	MsgUnsubscribed       = "Unsubscribed successfully"
	MsgSubscribersFound   = "Subscribers retrieved successfully"
	MsgSubscribedChannels = "Subscribed channels retrieved successfully"
)

// Playlist messages
const (
	MsgPlaylistCreated       = "Playlist created successfully"
	MsgPlaylistsFound        = "Playlists retrieved successfully"
	MsgPlaylistFound         = "Playlist retrieved successfully"
	MsgPlaylistUpdated       = "Playlist updated successfully"
	MsgPlaylistDeleted       = "Playlist deleted successfully"
	MsgPlaylistVideoAdded    = "Video added to playlist successfully"
	MsgPlaylistVideoRemoved  = "Video removed from playlist successfully"
	MsgPlaylistFieldsMissing = "Name and description are required"
	MsgPlaylistForbidden     = "You can only modify your own playlist"
)

const MsgHealthy = "OK"
