package handler

import (
	"log"

	"github.com/labstack/echo/v4"

	"tradevault/internal/usecase"
	"tradevault/pkg/response"
	"tradevault/pkg/utils"
)

type TradeHandler struct {
	tradeUseCase *usecase.TradeUseCase
}

func NewTradeHandler(tradeUseCase *usecase.TradeUseCase) *TradeHandler {
	return &TradeHandler{
		tradeUseCase: tradeUseCase,
	}
}

type reserveRequest struct {
	ListingID string `json:"listing_id" validate:"required"`
}

type cancelTradeRequest struct {
	Note string `json:"note" validate:"required,min=3,max=500"`
}

func (h *TradeHandler) ReserveTrade(c echo.Context) error {
	var req reserveRequest
	if err := c.Bind(&req); err != nil {
		log.Printf("Error binding request: %v", err)
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	buyerID, err := getUserID(c)
	if err != nil {
		return err
	}

	trade, err := h.tradeUseCase.Reserve(c.Request().Context(), buyerID, req.ListingID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, trade)
}

func (h *TradeHandler) ConfirmTrade(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	trade, err := h.tradeUseCase.Confirm(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, trade)
}

func (h *TradeHandler) CancelTrade(c echo.Context) error {
	var req cancelTradeRequest
	if err := c.Bind(&req); err != nil {
		log.Printf("Error binding request: %v", err)
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	trade, err := h.tradeUseCase.Cancel(c.Request().Context(), userID, c.Param("id"), req.Note)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, trade)
}

func (h *TradeHandler) GetTrade(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	trade, err := h.tradeUseCase.Get(c.Request().Context(), userID, isAdmin(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, trade)
}

func (h *TradeHandler) ListTrades(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	p := utils.GetPagination(c)
	role := c.QueryParam("role")
	if role == "" {
		role = "buyer"
	}
	status := c.QueryParam("status")

	trades, total, err := h.tradeUseCase.ListMine(c.Request().Context(), userID, role, status, p.Limit, p.Offset())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, trades, total, p.Page, p.Limit)
}

func (h *TradeHandler) GetTradeLogs(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	logs, err := h.tradeUseCase.ListLogs(c.Request().Context(), userID, isAdmin(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, logs)
}
