package endpoints

import (
	"bytes"
	"embed"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/yuin/goldmark"

	"github.com/certmint/certmint/pkg/server"
)

//go:embed docs
var docFiles embed.FS

// RegisterDocsEndpoints serves the API documentation. The markdown
// sources are embedded in the binary and rendered to HTML on request.
func RegisterDocsEndpoints(s *server.Server) {
	s.Router.HandleFunc("/docs", func(w http.ResponseWriter, r *http.Request) {
		renderDocPage(w, r, "index")
	}).Methods("GET")

	s.Router.HandleFunc("/docs/{page}", func(w http.ResponseWriter, r *http.Request) {
		renderDocPage(w, r, mux.Vars(r)["page"])
	}).Methods("GET")
}

func renderDocPage(w http.ResponseWriter, r *http.Request, page string) {
	// Page names map straight to embedded file names; anything that
	// could traverse is rejected outright
	if page == "" || strings.ContainsAny(page, "./\\") {
		http.NotFound(w, r)
		return
	}

	source, err := docFiles.ReadFile("docs/" + page + ".md")
	if err != nil {
		http.NotFound(w, r)
		return
	}

	var body bytes.Buffer
	if err := goldmark.Convert(source, &body); err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to render documentation")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte("<!DOCTYPE html>\n<html>\n<head><meta charset=\"utf-8\"><title>CertMint API</title></head>\n<body>\n"))
	_, _ = w.Write(body.Bytes())
	_, _ = w.Write([]byte("\n</body>\n</html>\n"))
}
