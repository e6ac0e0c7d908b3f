// Package dispatch runs the event-to-patch cycle of one session.
//
// A dispatch resolves the handler for (node, event) against the session's
// committed tree, runs it, rebuilds the page if any state changed, diffs the
// new tree against the committed one, validates the patch stream, commits,
// and answers with patches. Everything runs under the session lock, so two
// dispatches for the same session never interleave.
//
// Failure modes map to distinct results. A handler addressing a node that no
// longer exists in the committed tree means the client is rendering a stale
// tree; the answer is a full resync, never an error. A handler panic is
// recovered and logged with a stack, but the rebuild still runs and commits,
// since the handler may have mutated state before failing; the client sees
// the patches plus an error notification. A handler exceeding the configured
// timeout has its render discarded whole; the handler's state writes, if
// any, land in the next dispatch's rebuild. A diff validation failure
// answers with a resync, since a patch stream the client cannot apply is
// worse than a full redraw. A session destroyed mid-dispatch never commits;
// its render is discarded.
package dispatch
