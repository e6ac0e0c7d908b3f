// Package wire encodes and decodes the browser protocol.
//
// Inbound event envelopes are read with gjson so malformed payloads fail
// fast without reflection into intermediate structs. Outbound messages are
// assembled with sjson around the JSON the tree and patch types already
// marshal to, keeping prop order intact.
//
// Three message types cross the wire: an event (client to server), a patch
// (server to client, version plus op stream), and a resync (server to
// client, version plus full tree). Patch and resync both carry any queued
// notifications.
package wire
