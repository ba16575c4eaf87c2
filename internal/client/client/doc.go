// Package client talks to the remote profile service.
//
// Client is the transport-agnostic contract used by the auth service;
// GRPCClient implements it over the JSON-coded gRPC API in profileapi. The
// access token obtained from Login (or restored from the keychain with
// SetAccessToken) is attached to every call by a unary interceptor, and gRPC
// status codes are mapped back to sentinel errors: ErrUnavailable,
// ErrUnauthorized, common.ErrDuplicateAccount and common.ErrNotFound.
package client
