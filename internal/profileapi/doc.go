// Package profileapi is the wire contract of the remote profile service:
// request/response messages, the gRPC service descriptor and a typed client.
//
// Messages travel as JSON through a codec registered with grpc's encoding
// registry under CodecName. Clients select it per call with
// grpc.CallContentSubtype; the server resolves it from the request's
// content-type, so no protobuf stubs are involved.
package profileapi
