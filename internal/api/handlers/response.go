// Package handlers exposes translation, configuration and history over HTTP.
package handlers

import (
	"encoding/json"
	"log"
	"net/http"
)

// CodeOK marks a successful response; any other code carries an error message.
const CodeOK = 0

// R is the response envelope shared by every endpoint.
type R struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body R) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("[api] encode response: %v", err)
	}
}

func success(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, R{Code: CodeOK, Msg: "success", Data: data})
}

// fail writes an error envelope. The envelope code mirrors the HTTP status.
func fail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, R{Code: status, Msg: msg})
}
