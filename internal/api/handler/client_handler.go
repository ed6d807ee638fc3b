package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/client-registry/internal/core/domain"
	"github.com/99minutos/client-registry/internal/core/ports"
)

// ClientHandler handles HTTP requests for client operations. Errors are
// returned to Echo and rendered by api.NewHTTPErrorHandler.
type ClientHandler struct {
	service ports.ClientService
}

func NewClientHandler(service ports.ClientService) *ClientHandler {
	return &ClientHandler{service: service}
}

// List handles GET /clients.
//
// @Summary      List every client, active or not
// @Tags         clients
// @Produce      json
// @Success      200  {array}   clientResponse
// @Failure      500  {object}  errorResponse
// @Router       /clients [get]
func (h *ClientHandler) List(c echo.Context) error {
	clients, err := h.service.ListClients(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toClientListResponse(clients))
}

// Get handles GET /clients/:id.
//
// @Summary      Get a client by id
// @Tags         clients
// @Produce      json
// @Param        id   path      string  true  "Client id"
// @Success      200  {object}  clientResponse
// @Failure      404  {object}  errorResponse
// @Router       /clients/{id} [get]
func (h *ClientHandler) Get(c echo.Context) error {
	client, err := h.service.GetClient(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toClientResponse(client))
}

// Create handles POST /clients.
//
// @Summary      Register a client
// @Description  Creates the client, provisions its user account and publishes a user.created event.
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        body  body      createClientRequest  true  "Client details"
// @Success      201   {object}  createClientResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  partialSuccessResponse
// @Router       /clients [post]
func (h *ClientHandler) Create(c echo.Context) error {
	var req createClientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	result, err := h.service.RegisterClient(c.Request().Context(), toCreateInput(req))
	if err != nil {
		var partial *domain.PartialSuccessError
		if errors.As(err, &partial) && result != nil && result.Client != nil {
			return c.JSON(http.StatusInternalServerError, partialSuccessResponse{
				Error:   partialMessage(partial.Stage),
				Partial: true,
				Data:    toClientResponse(result.Client),
			})
		}
		return err
	}

	return c.JSON(http.StatusCreated, toCreateResponse(result))
}

// Update handles PATCH /clients/:id.
//
// @Summary      Partially update a client
// @Description  Only the fields present in the body are written. An empty string is stored as given.
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        id    path      string               true  "Client id"
// @Param        body  body      updateClientRequest  true  "Fields to change"
// @Success      200   {object}  clientMessageResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /clients/{id} [patch]
func (h *ClientHandler) Update(c echo.Context) error {
	var req updateClientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	client, err := h.service.UpdateClient(c.Request().Context(), c.Param("id"), toUpdateInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, clientMessageResponse{
		Message: "client updated",
		Data:    toClientResponse(client),
	})
}

// Delete handles DELETE /clients/:id. The client is deactivated, not removed.
//
// @Summary      Deactivate a client
// @Tags         clients
// @Produce      json
// @Param        id   path      string  true  "Client id"
// @Success      200  {object}  clientMessageResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /clients/{id} [delete]
func (h *ClientHandler) Delete(c echo.Context) error {
	client, err := h.service.DeactivateClient(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, clientMessageResponse{
		Message: "client deactivated",
		Data:    toClientResponse(client),
	})
}

// partialMessage names the stage that failed after the client was committed.
func partialMessage(stage string) string {
	switch stage {
	case domain.StageProvisionUser:
		return "client created but user provisioning failed"
	case domain.StagePublishEvent:
		return "client created but event publication failed"
	default:
		return "client created but " + stage + " failed"
	}
}
