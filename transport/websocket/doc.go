// Package websocket pushes plan events to browser and CLI subscribers.
//
// Clients connect to /ws?network=<name> and receive one JSON frame per event
// for that network:
//
//	{"network": "sample", "event": "plan_created", "plan": {...}, "timestamp": "..."}
//
// The first frame is always "subscribed". Clients never send commands; the
// read side only keeps the connection alive with ping/pong.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//
//	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("network"))
//	})
//	hub.PublishPlanEvent(service.PlanEvent{Type: service.EventPlanCreated, Network: "sample", Plan: plan})
//
// A single Run goroutine owns the subscriber map; registration, removal and
// broadcasts are all channel messages to it.
package websocket
