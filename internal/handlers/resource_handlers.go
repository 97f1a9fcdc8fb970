package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/necroledger/necroledger-api/internal/services"
)

type AccountHandler struct {
	accountService *services.AccountService
}

func NewAccountHandler(accountService *services.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// @Summary List Accounts
// @Description Active accounts of the chart, ordered by code
// @Tags Accounts
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /accounts [get]
func (h *AccountHandler) Index(c *gin.Context) {
	accounts, err := h.accountService.ListActive(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"accounts": accounts, "total": len(accounts)})
}

// @Summary Show Account
// @Description Code and name of an account
// @Tags Accounts
// @Produce json
// @Param account_id path int true "Account ID"
// @Success 200 {object} models.AccountRef
// @Failure 404 {object} map[string]interface{}
// @Security BearerAuth
// @Router /accounts/{account_id} [get]
func (h *AccountHandler) Show(c *gin.Context) {
	id, ok := parseID(c, "account_id")
	if !ok {
		return
	}
	ref, err := h.accountService.Resolve(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ref)
}

type AuditHandler struct {
	auditService *services.AuditService
}

func NewAuditHandler(auditService *services.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

const maxAuditPageSize = 200

// @Summary List Audit Logs
// @Description Get a paginated list of audit logs, newest first
// @Tags Audit
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(50)
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /audits [get]
func (h *AuditHandler) Index(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "50"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > maxAuditPageSize {
		perPage = 50
	}
	offset := (page - 1) * perPage

	logs, total, err := h.auditService.List(c.Request.Context(), perPage, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"audits": logs, "pagination": gin.H{"total": total, "page": page, "per_page": perPage}})
}
