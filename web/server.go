package web

import (
	"log"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/mogaika/unity2o3de/convert"
)

var serverConverter *convert.Converter

// StartServer serves the run's progress and results over http: summary and
// missing-reference JSON endpoints, converted document downloads, and a
// websocket stream of status events. Blocks until the listener fails.
func StartServer(addr string, c *convert.Converter) error {
	serverConverter = c

	r := mux.NewRouter()
	r.HandleFunc("/json/summary", HandlerAjaxSummary)
	r.HandleFunc("/json/missing", HandlerAjaxMissing)
	r.HandleFunc("/dump/prefab/{name}", HandlerDumpPrefab)
	r.HandleFunc("/ws/status", HandlerWebsocketStatus)

	h := handlers.RecoveryHandler()(r)
	h = handlers.LoggingHandler(os.Stdout, h)

	log.Printf("[web] Starting server %v", addr)

	return http.ListenAndServe(addr, h)
}
