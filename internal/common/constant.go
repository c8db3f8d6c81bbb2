package common

// TokenHeaderName is the HTTP header carrying the session token.
const TokenHeaderName = "X-Token"

// PageSize is the number of records returned per listing page.
const PageSize = 20
