// Package server exposes the engine over HTTP.
//
// A page GET creates a session, runs the first render, and answers with an
// HTML shell: the server-rendered markup of the tree plus a bootstrap blob
// (session ID, version, tree JSON) the embedded client script takes over
// from. Interactions arrive as POSTs to the event endpoint and are answered
// with patch, resync, or error messages from the dispatcher.
//
// An event naming a session the manager no longer holds answers with a
// fresh session and a full resync; the client adopts the new session ID
// from the response.
package server
