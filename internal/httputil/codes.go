package httputil

// Machine-readable error codes. Clients match on these, so they never change.
const (
	CodeMissingCredentials = "MISSING_CREDENTIALS"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeMalformedClaims    = "MALFORMED_CLAIMS"
	CodeUnknownUser        = "UNKNOWN_USER"
	CodeTokenRevoked       = "TOKEN_REVOKED"

	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeUsernameTaken      = "USERNAME_TAKEN"
	CodeUsernameRequired   = "USERNAME_REQUIRED"
	CodeUsernameTooLong    = "USERNAME_TOO_LONG"
	CodePasswordRequired   = "PASSWORD_REQUIRED"

	CodeInvalidRequestBody = "INVALID_REQUEST_BODY"
	CodeInvalidUserID      = "INVALID_USER_ID"
	CodeQueryRequired      = "QUERY_REQUIRED"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeCannotFollowSelf   = "CANNOT_FOLLOW_SELF"
	CodeNotFollowing       = "NOT_FOLLOWING"
	CodeInvalidRating      = "INVALID_RATING"
	CodeBookNotFound       = "BOOK_NOT_FOUND"
	CodeRatingNotFound     = "RATING_NOT_FOUND"
	CodeInvalidID          = "INVALID_ID"

	CodeOpenLibraryIDRequired = "OPEN_LIBRARY_ID_REQUIRED"
	CodeTitleRequired         = "TITLE_REQUIRED"
	CodeEntryTextRequired     = "ENTRY_TEXT_REQUIRED"
	CodeDiaryEntryExists      = "DIARY_ENTRY_EXISTS"
	CodeDiaryEntryNotFound    = "DIARY_ENTRY_NOT_FOUND"

	CodeTooManyRequests = "TOO_MANY_REQUESTS"
	CodeInternalError   = "INTERNAL_ERROR"
)
