package utils

const (
	// FileIdParamKey is the key for the file ID used in routing parameters.
	FileIdParamKey = "fileId"

	// UserIdParamKey is the key for the user ID used in routing parameters.
	UserIdParamKey = "userId"

	// UidParamKey is the key for the base64 encoded user ID of an activation link.
	UidParamKey = "uid"

	// TokenParamKey is the key for the signed token of an activation link.
	TokenParamKey = "token"

	// OffsetParamKey is the key for offset used in pagination query parameters.
	OffsetParamKey = "offset"

	// LimitParamKey is the key for limit used in pagination query parameters.
	LimitParamKey = "limit"

	// QueryParamKey is the key for a generic query used in query parameters.
	QueryParamKey = "q"
)
