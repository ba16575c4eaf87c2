// Package common contains shared constants, sentinel errors and small helpers
// used across the moodtrack client and server.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// LocalTokenPrefix marks keychain secrets that were minted on the device
// because the remote profile service could not be reached.
const LocalTokenPrefix = "local."
