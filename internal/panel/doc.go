// Package panel implements the observational side of netlog: a one-shot
// resource-type tally of the inspected page and a live summary of finished
// XHR exchanges. Nothing here feeds the capture buffer.
package panel
