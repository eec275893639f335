package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"parking-reservation-backend/internal/jobs"
	"parking-reservation-backend/internal/mw"
)

// ExportUserData enqueues the caller's reservation-history export and
// returns a job handle immediately (202 accepted pattern).
func (h *Handler) ExportUserData(c *gin.Context) {
	claims := mw.Identity(c)

	handle := h.queue.Enqueue(&jobs.ExportUserData{
		Store:  h.store,
		Mail:   h.mail,
		UserID: claims.UserID,
	})

	c.JSON(http.StatusAccepted, gin.H{
		"job_id": handle.ID,
		"job":    handle.JobName,
	})
}

// JobStatus reports the current status of a background job by handle ID.
func (h *Handler) JobStatus(c *gin.Context) {
	handle, ok := h.queue.Lookup(c.Param("job_id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}

	status, result := handle.Status()
	c.JSON(http.StatusOK, gin.H{
		"job_id": handle.ID,
		"job":    handle.JobName,
		"status": status,
		"result": result,
	})
}
