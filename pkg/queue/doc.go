// Package queue provides the ordered buffer of messages awaiting
// transmission to a collector.
//
// Messages are held while the link is unusable and released in arrival
// order once it is. Flush stops at the first message the caller's transmit
// predicate rejects, so relative order is preserved under partial
// connectivity. The queue is unbounded: losing the link never makes a
// logging call fail or block.
package queue
