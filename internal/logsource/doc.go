// Package logsource is the event source the bridge subscribes to.
//
// A Reader fans published Entry values out to registered Listeners
// synchronously on the publishing goroutine. Producers either build entries
// themselves (see DecodeEntries for the JSON-lines wire form) or log through
// the Logger facade, which stamps time, thread, and call-site location.
package logsource
