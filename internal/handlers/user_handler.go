package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/necroledger/necroledger-api/internal/services"
)

type UserHandler struct {
	authService *services.AuthService
}

func NewUserHandler(authService *services.AuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

type ChangePasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required"`
}

// @Summary Change Password
// @Description Change the authenticated user's password
// @Tags Users
// @Accept json
// @Produce json
// @Param user_id path int true "User ID"
// @Param request body ChangePasswordRequest true "Password Data"
// @Success 200 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Security BearerAuth
// @Router /users/{user_id}/change_password [patch]
func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, ok := parseID(c, "user_id")
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if err := BindNestedOrFlat(c, "user", &req); err != nil || req.NewPassword == "" {
		fail(c, http.StatusBadRequest, "La nueva contraseña es requerida")
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), userID, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Contraseña actualizada exitosamente"})
}
