package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/necroledger/necroledger-api/internal/services"
)

type JobHandler struct {
	jobService *services.JobService
}

func NewJobHandler(jobSvc *services.JobService) *JobHandler {
	return &JobHandler{
		jobService: jobSvc,
	}
}

// Status returns the current worker status
// @Summary Get background job status
// @Description Get statistics about background jobs (active, completed, failed, queue length)
// @Tags Jobs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /jobs/status [get]
func (h *JobHandler) Status(c *gin.Context) {
	status := h.jobService.GetStatus()
	c.JSON(http.StatusOK, status)
}

// @Summary Run integrity check
// @Description Queues a check that every stored entry is still balanced
// @Tags Jobs
// @Produce json
// @Security BearerAuth
// @Success 202 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /jobs/integrity_check [post]
func (h *JobHandler) RunIntegrityCheck(c *gin.Context) {
	if !h.jobService.RunIntegrityCheck() {
		fail(c, http.StatusServiceUnavailable, "Los trabajos en segundo plano no están disponibles")
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"success": true, "message": "Verificación de integridad en cola"})
}
