package reservation

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

func actorFrom(c *gin.Context) (Actor, bool) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return Actor{}, false
	}
	return Actor{UserID: userID, Admin: auth.IsAdmin(c)}, true
}

// Create godoc
// @Summary      Create reservation
// @Description  Books a trip and debits the reservation total from the client balance.
// @Tags         reservations
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        input  body      CreateRequest  true  "Reservation"
// @Success      201    {object}  Reservation
// @Failure      400    {object}  api.ErrorResponse
// @Failure      404    {object}  api.ErrorResponse
// @Failure      409    {object}  api.ErrorResponse
// @Failure      500    {object}  api.ErrorResponse
// @Router       /reservations [post]
func (h *Handler) Create(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindError(c, err)
		return
	}

	res, err := h.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		ledger.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

// Update godoc
// @Summary      Update reservation
// @Description  Replaces the money components and moves the difference against the client balance.
// @Tags         reservations
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id     path      int            true  "Reservation ID"
// @Param        input  body      UpdateRequest  true  "New values"
// @Success      200    {object}  Reservation
// @Failure      400    {object}  api.ErrorResponse
// @Failure      403    {object}  api.ErrorResponse
// @Failure      404    {object}  api.ErrorResponse
// @Failure      409    {object}  api.ErrorResponse
// @Failure      500    {object}  api.ErrorResponse
// @Router       /reservations/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	id, ok := api.PathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid reservation id"})
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindError(c, err)
		return
	}

	res, err := h.service.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		ledger.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// Delete godoc
// @Summary      Delete reservation
// @Description  Cancels a reservation and refunds its total to the client.
// @Tags         reservations
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Reservation ID"
// @Success      200  {object}  DeleteResponse
// @Failure      403  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Failure      409  {object}  api.ErrorResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /reservations/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	id, ok := api.PathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid reservation id"})
		return
	}

	res, err := h.service.Delete(c.Request.Context(), actor, id)
	if err != nil {
		ledger.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, DeleteResponse{
		Message: "reservation deleted",
		Refund:  res.TotalAmount.StringFixed(ledger.MoneyScale),
	})
}

// Get godoc
// @Summary      Get reservation
// @Tags         reservations
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Reservation ID"
// @Success      200  {object}  Reservation
// @Failure      403  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /reservations/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	id, ok := api.PathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid reservation id"})
		return
	}

	res, err := h.service.Get(c.Request.Context(), actor, id)
	if err != nil {
		ledger.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// ListMine godoc
// @Summary      List my reservations
// @Tags         reservations
// @Security     BearerAuth
// @Produce      json
// @Param        limit   query     int  false  "Page size"
// @Param        offset  query     int  false  "Offset"
// @Success      200     {array}   Reservation
// @Failure      401     {object}  api.ErrorResponse
// @Router       /reservations [get]
func (h *Handler) ListMine(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	limit, offset := api.Page(c)
	reservations, err := h.service.ListByClient(c.Request.Context(), actor.UserID, limit, offset)
	if err != nil {
		ledger.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reservations)
}
