package ui

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"raincloud/domain/core"
	"raincloud/domain/table"
)

// handleUpload accepts one CSV or Excel file and replaces the active dataset.
// Rejections re-render the page with a banner; nothing about the previous
// dataset changes on a failed upload.
func (a *App) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, a.cfg.MaxUploadBytes)

	file, header, err := r.FormFile("dataset")
	if err != nil {
		var maxErr *http.MaxBytesError
		if stderrors.As(err, &maxErr) {
			a.log.Warn("upload rejected, body too large")
			a.renderIndex(w, fmt.Sprintf("File exceeds the %d MB upload limit", a.cfg.MaxUploadBytes/(1024*1024)))
			return
		}
		a.renderIndex(w, "No file uploaded")
		return
	}
	defer file.Close()

	if !a.reader.Supports(header.Filename) {
		a.log.Warn("upload rejected, unsupported extension: %s", header.Filename)
		a.renderIndex(w, "Unsupported file type: please upload a .csv, .xlsx, or .xls file")
		return
	}

	tbl, err := a.reader.Read(file, header.Filename)
	if err != nil {
		a.log.Warn("upload rejected: %v", err)
		a.renderIndex(w, err.Error())
		return
	}

	a.store.Put(table.Dataset{
		ID:         core.NewDatasetID(),
		Name:       header.Filename,
		Table:      tbl,
		UploadedAt: time.Now(),
		SizeBytes:  header.Size,
	})

	if err := a.refresh(r.Context()); err != nil {
		a.renderIndex(w, err.Error())
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleClear drops the active dataset and the cached figure.
func (a *App) handleClear(w http.ResponseWriter, r *http.Request) {
	a.store.Clear()
	a.mu.Lock()
	a.last = nil
	a.mu.Unlock()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
