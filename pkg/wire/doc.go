// Package wire defines the collector protocol messages and their encoding.
//
// Every frame exchanged with a collector is a single Message whose "msg"
// field is the sole dispatch key:
//
//	client -> server: {msg:"connect"}
//	server -> client: {msg:"connected"}
//	server -> client: {msg:"ping", id:<opaque>}
//	client -> server: {msg:"pong", id:<opaque>}
//	client -> server: {msg:"log", type:<level>, data:<payload>}
//
// Encoding is pluggable through the Serializer interface. JSONSerializer is
// the default; CBORSerializer is available for compact binary transport.
package wire
