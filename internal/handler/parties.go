package handler

import (
	"net/http"

	"github.com/wali1264/ketabestan2/internal/apierror"
	"github.com/wali1264/ketabestan2/internal/dto"
	"github.com/wali1264/ketabestan2/internal/model"
	"github.com/wali1264/ketabestan2/internal/service"

	"github.com/gin-gonic/gin"
)

type PartyHandler struct {
	parties service.PartyService
}

func NewPartyHandler(parties service.PartyService) *PartyHandler {
	return &PartyHandler{parties: parties}
}

// partyType validates the :type path segment. Routes are registered under
// /v1/parties/:type so one handler serves customers, suppliers and employees.
func partyType(c *gin.Context) (string, bool) {
	t := c.Param("type")
	switch t {
	case model.PartyCustomer, model.PartySupplier, model.PartyEmployee:
		return t, true
	}
	c.JSON(http.StatusBadRequest, apierror.New("party type must be customer, supplier or employee"))
	return "", false
}

// Create
// @Summary      Create a customer, supplier or employee
// @Tags         parties
// @Accept       json
// @Produce      json
// @Param        type path string true "customer | supplier | employee"
// @Param        body body dto.CreatePartyRequest true "Party"
// @Success      201 {object} dto.PartyResponse
// @Router       /v1/parties/{type} [post]
func (h *PartyHandler) Create(c *gin.Context) {
	t, ok := partyType(c)
	if !ok {
		return
	}
	var req dto.CreatePartyRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.parties.CreateParty(c.Request.Context(), t, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Get
// @Summary      Fetch one party
// @Tags         parties
// @Produce      json
// @Param        type path string true "customer | supplier | employee"
// @Param        id   path string true "Party ID"
// @Success      200 {object} dto.PartyResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/parties/{type}/{id} [get]
func (h *PartyHandler) Get(c *gin.Context) {
	t, ok := partyType(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	resp, err := h.parties.GetParty(c.Request.Context(), t, id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List
// @Summary      List parties of one type
// @Tags         parties
// @Produce      json
// @Param        type             path  string true  "customer | supplier | employee"
// @Param        include_inactive query bool   false "Include deactivated parties"
// @Success      200 {array} dto.PartyResponse
// @Router       /v1/parties/{type} [get]
func (h *PartyHandler) List(c *gin.Context) {
	t, ok := partyType(c)
	if !ok {
		return
	}
	includeInactive := c.Query("include_inactive") == "true"
	resp, err := h.parties.ListParties(c.Request.Context(), t, includeInactive)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update
// @Summary      Update party fields
// @Tags         parties
// @Accept       json
// @Produce      json
// @Param        type path string true "customer | supplier | employee"
// @Param        id   path string true "Party ID"
// @Param        body body dto.UpdatePartyRequest true "Fields to change"
// @Success      200 {object} dto.PartyResponse
// @Router       /v1/parties/{type}/{id} [patch]
func (h *PartyHandler) Update(c *gin.Context) {
	t, ok := partyType(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.UpdatePartyRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.parties.UpdateParty(c.Request.Context(), t, id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete
// @Summary      Delete a party with no ledger history and zero balance
// @Tags         parties
// @Param        type path string true "customer | supplier | employee"
// @Param        id   path string true "Party ID"
// @Success      204
// @Failure      409 {object} apierror.APIError
// @Router       /v1/parties/{type}/{id} [delete]
func (h *PartyHandler) Delete(c *gin.Context) {
	t, ok := partyType(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.parties.DeleteParty(c.Request.Context(), t, id); err != nil {
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
