// Package proto defines the AuthorityService gRPC contract.
//
// The service carries protobuf well-known types only, so no generated
// message code is needed: scalar arguments travel as wrapperspb values and
// composite ones as structpb.Struct with the field names listed next to
// each method. The helpers in messages.go build and read those structs.
package proto
