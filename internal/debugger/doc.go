// Package debugger is netlog's bridge to Chrome's remote debugging protocol.
//
// It finds debuggable tabs through the DevTools HTTP endpoint (/json/version,
// /json/list), attaches to one tab with chromedp, enables protocol domains,
// forwards typed cdproto events to a listener, runs on-demand commands
// (Network.getResponseBody, Runtime.getProperties, Page.getResourceTree) and
// reports when the debugging session detaches.
//
// chromedp delivers a target's events on a single goroutine, in protocol
// order. Listeners must not block: any follow-up command issued from a
// listener has to run on its own goroutine.
package debugger
