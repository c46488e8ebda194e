package middleware

const AuthCookieName = authCookieName

var ExtractToken = extractToken
