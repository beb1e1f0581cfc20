package common

// AuthorizationHeaderName carries the bearer credential on outbound requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the token value in AuthorizationHeaderName.
const BearerPrefix = "Bearer "

// DefaultServerURL is the backend base URL used when nothing else is configured.
const DefaultServerURL = "http://localhost:3000"
