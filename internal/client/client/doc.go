// Package client is the client side of AuthorityService.
//
// Client is the transport-agnostic contract the CLI works against and
// GRPCClient its gRPC implementation. GRPCClient attaches the access token
// to every call through a unary interceptor and maps gRPC status codes to
// the sentinel errors in errors.go, so callers can match them with
// errors.Is.
package client
