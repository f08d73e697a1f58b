package app

import (
	"net/http"
	"strings"

	json "github.com/goccy/go-json"
)

// Response is a full HTML page response.
type Response struct {
	Title       string
	Description string
	HTML        string
}

// WantsJSON reports whether the client asked for a JSON response.
func WantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// SendsJSON reports whether the request body is JSON.
func SendsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Content-Type"), "application/json")
}

// Respond writes a page wrapped in the site template.
func Respond(w http.ResponseWriter, r *http.Request, resp Response) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(RenderHTML(resp.Title, resp.Description, resp.HTML)))
}

// RespondJSON writes v as JSON with status 200.
func RespondJSON(w http.ResponseWriter, v interface{}) {
	RespondJSONStatus(w, http.StatusOK, v)
}

// RespondJSONStatus writes v as JSON with the given status.
func RespondJSONStatus(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		Log("app", "json encode: %v", err)
	}
}

// RespondError writes {"error": msg} with the given status.
func RespondError(w http.ResponseWriter, status int, msg string) {
	RespondJSONStatus(w, status, map[string]string{"error": msg})
}

// BadRequest responds 400 in the format the client asked for.
func BadRequest(w http.ResponseWriter, r *http.Request, msg string) {
	if WantsJSON(r) || SendsJSON(r) {
		RespondError(w, http.StatusBadRequest, msg)
		return
	}
	http.Error(w, msg, http.StatusBadRequest)
}

// MethodNotAllowed responds 405.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	if WantsJSON(r) || SendsJSON(r) {
		RespondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
}

// ServerError responds 500.
func ServerError(w http.ResponseWriter, r *http.Request, msg string) {
	if WantsJSON(r) || SendsJSON(r) {
		RespondError(w, http.StatusInternalServerError, msg)
		return
	}
	http.Error(w, msg, http.StatusInternalServerError)
}
