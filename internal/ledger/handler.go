package ledger

import (
	"net/http"

	"samamatroh/internal/api"
	"samamatroh/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetBalance godoc
// @Summary      Get balance
// @Description  Returns the current balance of the authenticated user.
// @Tags         ledger
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  BalanceResponse
// @Failure      401  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /reservations/my-balance [get]
// @Router       /wallet/balance [get]
func (h *Handler) GetBalance(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	balance, err := h.service.GetBalance(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, BalanceResponse{Balance: balance.StringFixed(MoneyScale)})
}

// TopUp godoc
// @Summary      Top up account
// @Description  Credits the account of the given user. Admin only.
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        userID  path      int           true  "User ID"
// @Param        input   body      TopUpRequest  true  "Amount"
// @Success      200     {object}  TopUpResponse
// @Failure      400     {object}  api.ErrorResponse
// @Failure      404     {object}  api.ErrorResponse
// @Failure      409     {object}  api.ErrorResponse
// @Failure      500     {object}  api.ErrorResponse
// @Router       /admin/users/{userID}/top-up [post]
func (h *Handler) TopUp(c *gin.Context) {
	userID, ok := api.PathID(c, "userID")
	if !ok {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid user id"})
		return
	}

	var req TopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindError(c, err)
		return
	}

	acc, err := h.service.TopUp(c.Request.Context(), userID, req.Amount)
	if err != nil {
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, TopUpResponse{Message: "balance topped up", Account: acc})
}
