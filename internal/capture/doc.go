// Package capture records a tab's XHR traffic, console output and browser log
// entries for the length of one debugging session.
//
// A Session owns all per-attach state: the tab id, an append-only entry log
// and a context that bounds in-flight follow-up commands. The Dispatcher
// classifies protocol events into log / request / response entries, issuing
// Network.getResponseBody or Runtime.getProperties where the event alone is
// not enough. The Runner wires a Session to an attached tab, waits for the
// session to end and flushes the entries to a downloaded JSON file.
//
// Ordering: entries that need no follow-up are recorded in protocol order;
// entries behind a follow-up are recorded when the follow-up completes, so the
// buffer reflects completion order. Follow-ups still running at detach are
// dropped without an entry.
package capture
