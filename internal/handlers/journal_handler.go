package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/necroledger/necroledger-api/internal/middleware"
	"github.com/necroledger/necroledger-api/internal/models"
	"github.com/necroledger/necroledger-api/internal/services"
	"github.com/shopspring/decimal"
)

type JournalHandler struct {
	journalService *services.JournalService
}

func NewJournalHandler(journalService *services.JournalService) *JournalHandler {
	return &JournalHandler{journalService: journalService}
}

type JournalLineRequest struct {
	AccountID   uint            `json:"account_id"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

type CreateEntryRequest struct {
	Number      string               `json:"number"`
	Date        string               `json:"date"`
	Description string               `json:"description"`
	Lines       []JournalLineRequest `json:"lines"`
}

// @Summary List Journal Entries
// @Description Entries with their lines, newest date first. Both bounds are inclusive days.
// @Tags Journal
// @Produce json
// @Param from query string false "First day (YYYY-MM-DD)"
// @Param to query string false "Last day (YYYY-MM-DD)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Security BearerAuth
// @Router /journal/entries [get]
func (h *JournalHandler) Index(c *gin.Context) {
	from, ok := optionalDateQuery(c, "from")
	if !ok {
		return
	}
	to, ok := optionalDateQuery(c, "to")
	if !ok {
		return
	}

	entries, err := h.journalService.ListEntries(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.JournalEntryResponse, 0, len(entries))
	for i := range entries {
		responses = append(responses, entries[i].ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"entries": responses, "total": len(responses)})
}

// @Summary Create Journal Entry
// @Description Validates and stores a balanced entry. The number defaults to the next one of the day.
// @Tags Journal
// @Accept json
// @Produce json
// @Param request body CreateEntryRequest true "Entry"
// @Success 201 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Security BearerAuth
// @Router /journal/entries [post]
func (h *JournalHandler) Create(c *gin.Context) {
	var req CreateEntryRequest
	if err := BindNestedOrFlat(c, "entry", &req); err != nil {
		fail(c, http.StatusBadRequest, "Cuerpo de la solicitud inválido")
		return
	}

	ctx := c.Request.Context()
	date := services.DayStart(time.Now())
	if req.Date != "" {
		parsed, err := parseDate(req.Date)
		if err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}
		date = parsed
	}

	lines := make([]services.LineItem, 0, len(req.Lines))
	for i, l := range req.Lines {
		item, err := services.NewLineItem(l.AccountID, l.Debit, l.Credit, l.Description)
		if err != nil {
			fail(c, http.StatusUnprocessableEntity, fmt.Sprintf("Línea %d: %s", i+1, err.Error()))
			return
		}
		lines = append(lines, item)
	}

	number := req.Number
	if number == "" {
		generated, err := h.journalService.GenerateEntryNumber(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		number = generated
	}

	userID := middleware.GetUserID(c)
	proposal := &services.EntryProposal{
		Number:      number,
		Date:        date,
		Description: req.Description,
		Lines:       lines,
	}
	if userID != 0 {
		proposal.CreatedBy = &userID
	}

	result, err := h.journalService.CreateEntry(ctx, proposal)
	if err != nil {
		respondError(c, err)
		return
	}

	body := gin.H{
		"success":    true,
		"message":    result.Message,
		"number":     result.Number,
		"total":      result.Total,
		"line_count": result.LineCount,
	}
	if entry, err := h.journalService.FindEntry(ctx, result.Entry.ID); err == nil {
		body["entry"] = entry.ToResponse()
	}
	c.JSON(http.StatusCreated, body)
}

// @Summary Delete Journal Entry
// @Description Removes an entry and its lines
// @Tags Journal
// @Produce json
// @Param entry_id path int true "Entry ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Security BearerAuth
// @Router /journal/entries/{entry_id} [delete]
func (h *JournalHandler) Delete(c *gin.Context) {
	entryID, ok := parseID(c, "entry_id")
	if !ok {
		return
	}

	result, err := h.journalService.DeleteEntry(c.Request.Context(), entryID, middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": result.Message})
}

// @Summary Next Entry Number
// @Description Number the next entry created today would receive
// @Tags Journal
// @Produce json
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /journal/next_number [get]
func (h *JournalHandler) NextNumber(c *gin.Context) {
	number, err := h.journalService.GenerateEntryNumber(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"number": number})
}

// @Summary Daily Summary
// @Description Totals of the entries of one day (today by default)
// @Tags Journal
// @Produce json
// @Param date query string false "Day (YYYY-MM-DD)"
// @Success 200 {object} models.JournalSummary
// @Security BearerAuth
// @Router /journal/summary/daily [get]
func (h *JournalHandler) DailySummary(c *gin.Context) {
	date, ok := optionalDateQuery(c, "date")
	if !ok {
		return
	}
	day := services.DayStart(time.Now())
	if date != nil {
		day = *date
	}

	summary, err := h.journalService.DailySummary(c.Request.Context(), day)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// @Summary Period Summary
// @Description Totals of the entries between two days, both included
// @Tags Journal
// @Produce json
// @Param from query string true "First day (YYYY-MM-DD)"
// @Param to query string true "Last day (YYYY-MM-DD)"
// @Success 200 {object} models.JournalSummary
// @Failure 400 {object} map[string]interface{}
// @Security BearerAuth
// @Router /journal/summary/period [get]
func (h *JournalHandler) PeriodSummary(c *gin.Context) {
	from, ok := optionalDateQuery(c, "from")
	if !ok {
		return
	}
	to, ok := optionalDateQuery(c, "to")
	if !ok {
		return
	}
	if from == nil || to == nil {
		fail(c, http.StatusBadRequest, "Los parámetros from y to son requeridos")
		return
	}

	summary, err := h.journalService.PeriodSummary(c.Request.Context(), *from, *to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
