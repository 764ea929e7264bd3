/*
Package ws streams workspace events to the front end and accepts ink over
the same connection.

# Protocol

Server to client messages are workspace events:

	{"type": "desktop_changed", "payload": [...], "timestamp": 1730000000}

The first message on a connection is "welcome" carrying the client id and
the full workspace state. Client to server messages:

	{"type": "stroke", "stroke": {"points": [{"x": 1, "y": 2}]}}
	{"type": "frame", "frame": "<base64 image>"}
	{"type": "ping"}

Each connection has one reader and one writer goroutine; only the writer
touches the socket for output.
*/
package ws
