package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nimeshabuddhika/account-service/internal/services"
	"github.com/nimeshabuddhika/account-service/internal/views"
	"github.com/nimeshabuddhika/account-service/pkg"
	"github.com/nimeshabuddhika/account-service/pkg/utils"
	"go.uber.org/zap"
)

type AccountHandler struct {
	logger  *zap.Logger
	service services.AccountService
}

func NewAccountHandler(logger *zap.Logger, svc services.AccountService) *AccountHandler {
	return &AccountHandler{logger: logger, service: svc}
}

// RegisterRoutes registers account routes on the provided Gin group.
func (h *AccountHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/accounts", h.CreateAccount)
	r.GET("/accounts", h.ListAccounts)
	r.GET("/accounts/:id", h.GetAccount)
	r.PATCH("/accounts/:id", h.UpdateAccount)
	r.DELETE("/accounts/:id", h.DeleteAccount)
}

func (h *AccountHandler) CreateAccount(c *gin.Context) {
	traceID, ok := h.traceID(c)
	if !ok {
		return
	}

	if c.ContentType() != "application/json" {
		c.JSON(http.StatusUnsupportedMediaType, pkg.ErrorResponse{
			Code:    pkg.ErrUnsupportedMediaCode.Code,
			Message: fmt.Sprintf("content type must be application/json, got %q", c.ContentType()),
		})
		return
	}

	var req views.AccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, pkg.ErrorResponse{
			Code:    pkg.ErrInvalidInputCode.Code,
			Message: "invalid request body",
			Details: err.Error(),
		})
		return
	}

	account, err := h.service.Create(c.Request.Context(), traceID, req)
	if err != nil {
		h.respondError(c, traceID, err)
		return
	}

	c.Header("Location", fmt.Sprintf("/accounts/%d", account.ID))
	c.JSON(http.StatusCreated, account)
}

func (h *AccountHandler) ListAccounts(c *gin.Context) {
	traceID, ok := h.traceID(c)
	if !ok {
		return
	}

	accounts, err := h.service.List(c.Request.Context(), traceID)
	if err != nil {
		h.respondError(c, traceID, err)
		return
	}
	c.JSON(http.StatusOK, accounts)
}

func (h *AccountHandler) GetAccount(c *gin.Context) {
	traceID, ok := h.traceID(c)
	if !ok {
		return
	}

	id, ok := h.accountID(c)
	if !ok {
		return
	}

	account, err := h.service.Get(c.Request.Context(), traceID, id)
	if err != nil {
		h.respondError(c, traceID, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	traceID, ok := h.traceID(c)
	if !ok {
		return
	}

	id, ok := h.accountID(c)
	if !ok {
		return
	}

	var upd views.AccountUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, pkg.ErrorResponse{
			Code:    pkg.ErrInvalidInputCode.Code,
			Message: "invalid request body",
			Details: err.Error(),
		})
		return
	}

	account, err := h.service.Update(c.Request.Context(), traceID, id, upd)
	if err != nil {
		h.respondError(c, traceID, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	traceID, ok := h.traceID(c)
	if !ok {
		return
	}

	id, ok := h.accountID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), traceID, id); err != nil {
		h.respondError(c, traceID, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AccountHandler) traceID(c *gin.Context) (string, bool) {
	traceID, err := utils.GetTraceID(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, pkg.ErrorResponse{
			Code:    pkg.ErrServerCode.Code,
			Message: err.Error(),
		})
		return "", false
	}
	return traceID, true
}

func (h *AccountHandler) accountID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, pkg.ErrorResponse{
			Code:    pkg.ErrInvalidInputCode.Code,
			Message: "account id must be an integer",
		})
		return 0, false
	}
	return id, true
}

func (h *AccountHandler) respondError(c *gin.Context, traceID string, err error) {
	resp := pkg.ToErrorResponse(h.logger, traceID, err)
	c.JSON(resp.Status, resp)
}
