package auth

import "errors"

// ErrTokenExpired indicates the token's exp claim has passed.
var ErrTokenExpired = errors.New("token expired")
