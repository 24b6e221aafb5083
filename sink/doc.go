// Package sink defines where formatted code units go.
//
// A Sink is generic over its unit width: Sink[byte] receives host multibyte
// text, Sink[uint16] receives UTF-16. Buffer collects units in memory,
// Writer and UTF16Writer forward them to an io.Writer.
package sink
