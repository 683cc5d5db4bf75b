/*
Microcd exposes the compiler pipeline over HTTP as a stateless
request/response service.

Usage:

	microcd [flags]

The flags are:

	-v, --version
		Give the current version and exit.

	-l, --listen ADDRESS
		Listen on the given address, in ADDRESS:PORT or :PORT format.
		Defaults to localhost:8080.

There is exactly one endpoint:

	POST /api/v1/compile
		Request body: {"code": "<source text>"}
		Response body: the compiler's report.CompileReport, JSON-encoded.

Every response carries an X-Request-Id header (a freshly generated UUID)
for log correlation. No authentication, CORS handling, or persisted
state is implemented; none of the three applies to a stateless compiler
endpoint.
*/
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"runtime/debug"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/dekarrin/microc/internal/compiler"
	"github.com/dekarrin/microc/internal/report"
	"github.com/dekarrin/microc/internal/version"
)

const pathPrefix = "/api/v1"

var (
	flagVersion = pflag.BoolP("version", "v", false, "Give the current version and exit")
	flagListen  = pflag.StringP("listen", "l", "localhost:8080", "Listen on the given address")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("microcd %s\n", version.Current)
		return
	}

	r := chi.NewRouter()
	r.Route(pathPrefix, func(r chi.Router) {
		r.Post("/compile", httpCompile)
	})

	log.Printf("INFO  microcd listening on %s", *flagListen)
	if err := http.ListenAndServe(*flagListen, r); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		os.Exit(1)
	}
}

type compileRequest struct {
	Code string `json:"code"`
}

func httpCompile(w http.ResponseWriter, req *http.Request) {
	requestID := uuid.New()
	w.Header().Set("X-Request-Id", requestID.String())

	defer panicTo500(w, req, requestID)

	var body compileRequest
	if err := parseJSON(req, &body); err != nil {
		logHTTPResponse(requestID, req, http.StatusBadRequest, err.Error())
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	orch := compiler.NewOrchestrator()
	rep := orch.Compile(body.Code)

	writeJSON(w, req, requestID, http.StatusOK, rep)
}

// parseJSON requires an application/json content type and decodes the
// request body into v, the way server/api.parseJSON does for the
// teacher's own handlers.
func parseJSON(req *http.Request, v interface{}) error {
	contentType := req.Header.Get("Content-Type")
	if strings.ToLower(contentType) != "application/json" {
		return fmt.Errorf("request content-type is not application/json")
	}

	dec := json.NewDecoder(req.Body)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("malformed JSON in request: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, req *http.Request, requestID uuid.UUID, status int, rep report.CompileReport) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(rep); err != nil {
		logHTTPResponse(requestID, req, http.StatusInternalServerError, "could not marshal JSON response: "+err.Error())
		return
	}

	msg := fmt.Sprintf("compiled %d tokens, success=%t", len(rep.Tokens), rep.Success)
	logHTTPResponse(requestID, req, status, msg)
}

func panicTo500(w http.ResponseWriter, req *http.Request, requestID uuid.UUID) {
	if panicErr := recover(); panicErr != nil {
		msg := fmt.Sprintf("panic: %v\nSTACK TRACE: %s", panicErr, string(debug.Stack()))
		logHTTPResponse(requestID, req, http.StatusInternalServerError, msg)
		http.Error(w, "An internal server error occurred", http.StatusInternalServerError)
	}
}

func logHTTPResponse(requestID uuid.UUID, req *http.Request, status int, msg string) {
	remoteAddrParts := strings.SplitN(req.RemoteAddr, ":", 2)
	remoteIP := remoteAddrParts[0]
	log.Printf("%-5s %s %s %s %s: HTTP-%d %s", levelFor(status), requestID, remoteIP, req.Method, req.URL.Path, status, msg)
}

func levelFor(status int) string {
	if status >= 500 {
		return "ERROR"
	}
	if status >= 400 {
		return "WARN"
	}
	return "INFO"
}
