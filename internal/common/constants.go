package common

// AuthHeaderName is the HTTP header used to carry the bearer access token
// on outbound requests.
const AuthHeaderName = "Authorization"

// AuthErrorHeaderName is set by the server on 401 responses so clients can
// distinguish an expired access token from an outright invalid one.
const AuthErrorHeaderName = "X-Auth-Error"
