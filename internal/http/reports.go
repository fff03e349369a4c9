package http

import (
	"context"
	"net/http"
	"path"
	"time"

	"github.com/gin-gonic/gin"

	"jobboard/internal/domain"
	"jobboard/internal/storage"
)

const (
	downloadURLTTL = 15 * time.Minute
	snapshotFile   = "snapshot.json"
)

// companyReport returns the monthly series of the caller's company. Other accounts get 404.
func (h *Handler) companyReport(c *gin.Context) {
	account := currentAccount(c)
	if !account.IsCompany() {
		notFound(c)
		return
	}
	snapshot, err := h.reports.Snapshot(c.Request.Context(), account.Company.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func (h *Handler) jobsPerMonth(c *gin.Context) {
	h.series(c, h.reports.JobsPerMonth)
}

func (h *Handler) appsPerMonth(c *gin.Context) {
	h.series(c, h.reports.ApplicationsPerMonth)
}

func (h *Handler) candidatesPerMonth(c *gin.Context) {
	h.series(c, h.reports.CandidatesPerMonth)
}

func (h *Handler) series(c *gin.Context, load func(context.Context) (domain.ChartSeries, error)) {
	series, err := load(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, series)
}

func (h *Handler) createExport(c *gin.Context) {
	account := currentAccount(c)
	if !account.IsCompany() {
		notFound(c)
		return
	}
	if h.exporter == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "report exports are disabled"})
		return
	}

	export, err := h.exports.Create(c.Request.Context(), account.Company.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if err := h.exporter.Enqueue(c.Request.Context(), export.ID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, exportToResponse(*export))
}

func (h *Handler) listExports(c *gin.Context) {
	account := currentAccount(c)
	if !account.IsCompany() {
		notFound(c)
		return
	}
	exports, err := h.exports.ListForCompany(c.Request.Context(), account.Company.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	resp := make([]ExportResponse, len(exports))
	for i := range exports {
		resp[i] = exportToResponse(exports[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getExport(c *gin.Context) {
	account := currentAccount(c)
	if !account.IsCompany() {
		notFound(c)
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	export, err := h.exports.GetForCompany(c.Request.Context(), account.Company.ID, id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := exportToResponse(*export)
	resp.Files, resp.DownloadURL = h.exportFiles(c, export)
	c.JSON(http.StatusOK, resp)
}

// deleteExport cancels an export if it is still running and removes its files.
func (h *Handler) deleteExport(c *gin.Context) {
	account := currentAccount(c)
	if !account.IsCompany() {
		notFound(c)
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if _, err := h.exports.GetForCompany(ctx, account.Company.ID, id); err != nil {
		h.respondError(c, err)
		return
	}

	var err error
	if h.exporter != nil {
		err = h.exporter.Discard(ctx, id)
	} else {
		err = h.exports.Delete(ctx, id)
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// exportFiles lists the uploaded objects of a completed export with presigned links.
// The second value is the link to the snapshot document.
func (h *Handler) exportFiles(c *gin.Context, export *domain.ReportExport) ([]ExportFileResponse, string) {
	if h.storage == nil || export.Status != domain.ExportStatusCompleted {
		return nil, ""
	}
	bucket, prefix, ok := storage.SplitLocation(export.Location)
	if !ok {
		return nil, ""
	}
	logger := requestLog(c, h.logger).WithField("export_id", export.ID)

	objects, err := h.storage.ListObjects(c.Request.Context(), bucket, prefix+"/")
	if err != nil {
		logger.Warnf("list export objects: %v", err)
		return nil, ""
	}

	var (
		files       []ExportFileResponse
		downloadURL string
	)
	for _, obj := range objects {
		url, err := h.storage.GetObjectURL(c.Request.Context(), bucket, obj.Key, downloadURLTTL)
		if err != nil {
			logger.Warnf("presign %s: %v", obj.Key, err)
			continue
		}
		files = append(files, ExportFileResponse{Name: path.Base(obj.Key), Size: obj.Size, URL: url})
		if path.Base(obj.Key) == snapshotFile {
			downloadURL = url
		}
	}
	return files, downloadURL
}
