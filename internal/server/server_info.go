package server

import (
	"net/http"
	"os"
	"strings"

	"github.com/izzyreal/owltest/internal/protocol"
	"github.com/izzyreal/owltest/internal/server/httpx"
	"github.com/izzyreal/owltest/internal/version"
)

const apiVersion = protocol.APIVersion

func currentVersion() string {
	return version.Current()
}

func serverInfoHandler(w http.ResponseWriter, r *http.Request) {
	host, _ := os.Hostname()
	httpx.WriteJSON(w, http.StatusOK, protocol.ServerInfoResponse{
		Name:       "owltest",
		APIVersion: apiVersion,
		Version:    currentVersion(),
		Hostname:   strings.TrimSpace(host),
	})
}

func healthzHandler(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, protocol.HealthResponse{Status: "ok"})
}
