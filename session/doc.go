// Package session implements the client side of an FTP control/data
// channel pair.
//
// A Session owns one control connection for its whole lifetime and opens a
// data connection per transfer. Commands and replies strictly alternate:
// after Send the caller reads exactly one reply before issuing the next
// command. Replies are framed by a decoder owned by each connection, so two
// Sessions never share a buffer.
//
// Blocking writes (commands and uploads) run in a short-lived goroutine
// bounded by the write timeout; the calling flow always waits for it.
package session
