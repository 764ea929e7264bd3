/*
Package http serves the shell's REST API.

Routes:

	GET    /                      service info
	GET    /health                readiness, dispatcher and breaker state
	GET    /desktop               entity forest (weak ETag)
	POST   /desktop/folders       create "New Folder", optionally inside parent_id
	PATCH  /desktop/items/:id     rename; bound windows are retitled
	POST   /desktop/sort          sort top-level entities
	GET    /desktop/wallpaper     current wallpaper image
	POST   /desktop/wallpaper     generate a wallpaper from a sketch
	GET    /windows               open windows
	POST   /windows               launch an entity
	POST   /windows/:id/focus     bring to front
	DELETE /windows/:id           close
	GET    /mail                  inbox
	POST   /ink/strokes           feed completed strokes to the dispatcher
	DELETE /ink/strokes           drop strokes not yet dispatched
	POST   /ink/frame             upload the latest screen frame
	GET    /ink/status            dispatcher state and last cycle
	GET    /metrics               Prometheus exposition

Dispatch itself is asynchronous: POST /ink/strokes answers 202 and the
outcome arrives on the WebSocket stream as a cycle_complete event.
*/
package http
