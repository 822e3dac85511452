package transfer

import (
	"net/http"

	"samamatroh/internal/api"
	"samamatroh/internal/auth"
	"samamatroh/internal/ledger"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Send godoc
// @Summary      Send money
// @Description  Transfers money from the authenticated user to another user.
// @Tags         transactions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        input  body      SendRequest  true  "Transfer"
// @Success      200    {object}  SendResponse
// @Failure      400    {object}  api.ErrorResponse
// @Failure      404    {object}  api.ErrorResponse
// @Failure      409    {object}  api.ErrorResponse
// @Failure      500    {object}  api.ErrorResponse
// @Router       /transactions/send [post]
func (h *Handler) Send(c *gin.Context) {
	senderID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	var req SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindError(c, err)
		return
	}

	tx, sender, err := h.service.Transfer(c.Request.Context(), senderID, req)
	if err != nil {
		ledger.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SendResponse{
		Message:     "transfer completed",
		Transaction: tx,
		Balance:     sender.Balance.StringFixed(ledger.MoneyScale),
	})
}

// ListMine godoc
// @Summary      List my transactions
// @Description  Transactions the authenticated user sent or received, newest first.
// @Tags         transactions
// @Security     BearerAuth
// @Produce      json
// @Param        limit   query     int  false  "Page size"
// @Param        offset  query     int  false  "Offset"
// @Success      200     {array}   Transaction
// @Failure      401     {object}  api.ErrorResponse
// @Router       /transactions/my-transactions [get]
func (h *Handler) ListMine(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	limit, offset := api.Page(c)
	txs, err := h.service.ListForUser(c.Request.Context(), userID, limit, offset)
	if err != nil {
		ledger.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, txs)
}

// List godoc
// @Summary      List all transactions
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        limit   query     int  false  "Page size"
// @Param        offset  query     int  false  "Offset"
// @Success      200     {array}   Transaction
// @Router       /transactions [get]
func (h *Handler) List(c *gin.Context) {
	limit, offset := api.Page(c)
	txs, err := h.service.List(c.Request.Context(), limit, offset)
	if err != nil {
		ledger.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, txs)
}

// Get godoc
// @Summary      Get transaction
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Transaction ID"
// @Success      200  {object}  Transaction
// @Failure      404  {object}  api.ErrorResponse
// @Router       /transactions/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := api.PathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid transaction id"})
		return
	}

	tx, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		ledger.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tx)
}

// Reverse godoc
// @Summary      Reverse transaction
// @Description  Undoes a transfer and deletes its record. Admin only.
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Transaction ID"
// @Success      200  {object}  ReverseResponse
// @Failure      400  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Failure      409  {object}  api.ErrorResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /transactions/{id} [delete]
func (h *Handler) Reverse(c *gin.Context) {
	id, ok := api.PathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid transaction id"})
		return
	}

	rev, err := h.service.Reverse(c.Request.Context(), id)
	if err != nil {
		ledger.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ReverseResponse{Message: "transaction reversed", Warning: rev.Warning})
}
