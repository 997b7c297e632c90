package web

import (
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/mogaika/unity2o3de/status"
	"github.com/mogaika/unity2o3de/webutils"
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

func HandlerAjaxSummary(w http.ResponseWriter, r *http.Request) {
	webutils.WriteJson(w, serverConverter.Summary())
}

func HandlerAjaxMissing(w http.ResponseWriter, r *http.Request) {
	webutils.WriteJson(w, serverConverter.Prefabs.Missing())
}

func HandlerDumpPrefab(w http.ResponseWriter, r *http.Request) {
	name := filepath.Base(mux.Vars(r)["name"])
	path, ok := serverConverter.Prefabs.FindByName(name)
	if !ok {
		webutils.WriteError(w, errors.Errorf("Unknown prefab %q", name))
		return
	}

	f, err := os.Open(path)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	defer f.Close()
	webutils.WriteFile(w, f, name+".prefab")
}

func HandlerWebsocketStatus(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[web] ws upgrade error: %v", err)
		return
	}
	status.NewClient(conn)
}
