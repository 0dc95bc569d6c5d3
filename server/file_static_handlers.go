package server

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static/*
var staticFiles embed.FS

func StaticFilesFS() fs.FS {
	subFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic("Failed to create static sub filesystem: " + err.Error())
	}
	return subFS
}

// StaticFileHandler serves the embedded assets under RouteStatic
func StaticFileHandler() http.HandlerFunc {
	fileServer := http.StripPrefix(RouteStatic, http.FileServer(http.FS(StaticFilesFS())))

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		fileServer.ServeHTTP(w, r)
	}
}
