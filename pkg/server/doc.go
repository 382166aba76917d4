// Package server exposes editing sessions over HTTP.
//
// The API is JSON over REST, routed with chi. Each storyline id maps to one
// live [editor.Session]: the first request for an id opens it from the
// store, later requests edit it in memory, and POST /storylines/{id}/submit
// validates and persists it.
//
// # Routes
//
//	GET    /healthz
//	GET    /storylines
//	POST   /storylines                               {"name"}
//	GET    /storylines/{id}
//	DELETE /storylines/{id}
//	PUT    /storylines/{id}/start                    {"event_id"}
//	POST   /storylines/{id}/events                   {"kind", "name"}
//	PATCH  /storylines/{id}/events/{eventID}         {"name", "text", "node_type", "action_points"}
//	DELETE /storylines/{id}/events/{eventID}?confirm=true
//	PUT    /storylines/{id}/events/{eventID}/kind    {"kind"}
//	PUT    /storylines/{id}/events/{eventID}/enemy   {"enemy_id"}
//	PUT    /storylines/{id}/events/{eventID}/rewards {"handle", "rewards"}
//	POST   /storylines/{id}/events/{eventID}/options {"text"}
//	PATCH  /storylines/{id}/events/{eventID}/options/{optionID} {"text", "condition"}
//	DELETE /storylines/{id}/events/{eventID}/options/{optionID}
//	POST   /storylines/{id}/connect                  {"source", "handle", "target"}
//	POST   /storylines/{id}/disconnect               {"source", "handle"}
//	POST   /storylines/{id}/edges/remove             {"ids"}
//	GET    /storylines/{id}/validation
//	GET    /storylines/{id}/layout
//	GET    /storylines/{id}/diagram
//	GET    /storylines/{id}/render?format=svg
//	POST   /storylines/{id}/submit
//	GET    /catalog/enemies
//
// # Errors
//
// Failures are rendered as {"code": ..., "message": ...} using the codes of
// pkg/errors. A submit with blocking validation issues answers 422 and adds
// the report; a store failure answers 502. Connecting to a missing target is
// not an error: the response says "connected": false and the storyline is
// unchanged.
package server
