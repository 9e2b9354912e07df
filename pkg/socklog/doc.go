// Package socklog provides a resilient logging client that delivers
// structured log records over a persistent socket connection to a remote
// collector.
//
// Records are level-tagged and queued; the queue flushes in FIFO order once
// the collector has acknowledged the session handshake. Connection loss is
// tolerated transparently: buffered records are dropped, the status falls
// back to Disconnected, and a fixed-interval reconnect timer re-establishes
// the session. Keepalive probes from the collector are answered
// immediately, outside the queue.
//
// # Concurrency
//
// All state transitions and queue operations execute on a single internal
// goroutine fed by an event channel; transport callbacks and the reconnect
// timer post into it. Connected/disconnected notifications are delivered
// from a separate dispatch goroutine, so a listener can never be re-entered
// synchronously from inside the transition that produced the event.
//
// # Failure model
//
// Logging is best-effort fire-and-forget. No per-record delivery error is
// reported; the only recognized failure is "connection not usable", and the
// client never lets logging crash or block the host application.
package socklog
