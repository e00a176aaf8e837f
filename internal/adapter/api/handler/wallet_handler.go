package handler

import (
	"log"

	"github.com/labstack/echo/v4"

	"tradevault/internal/usecase"
	"tradevault/pkg/response"
	"tradevault/pkg/utils"
)

type WalletHandler struct {
	walletUseCase *usecase.WalletUseCase
}

func NewWalletHandler(walletUseCase *usecase.WalletUseCase) *WalletHandler {
	return &WalletHandler{
		walletUseCase: walletUseCase,
	}
}

type depositRequest struct {
	Amount int64 `json:"amount" validate:"required,min=1"`
}

type withdrawRequest struct {
	Amount      int64  `json:"amount" validate:"required,min=1"`
	Destination string `json:"destination" validate:"required,min=3"`
}

func (h *WalletHandler) GetWallet(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	wallet, err := h.walletUseCase.GetWallet(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, wallet)
}

func (h *WalletHandler) GetWalletEntries(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	p := utils.GetPagination(c)

	entries, err := h.walletUseCase.ListEntries(c.Request().Context(), userID, p.Limit, p.Offset())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, entries)
}

func (h *WalletHandler) CreateDepositRequest(c echo.Context) error {
	var req depositRequest
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

	request, err := h.walletUseCase.CreateDepositRequest(c.Request().Context(), userID, req.Amount)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, request)
}

func (h *WalletHandler) GetDepositRequests(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	p := utils.GetPagination(c)

	requests, err := h.walletUseCase.ListDepositRequests(c.Request().Context(), userID, p.Limit, p.Offset())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, requests)
}

func (h *WalletHandler) CreateWithdrawRequest(c echo.Context) error {
	var req withdrawRequest
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

	request, err := h.walletUseCase.CreateWithdrawRequest(c.Request().Context(), userID, req.Amount, req.Destination)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, request)
}

func (h *WalletHandler) GetWithdrawRequests(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	p := utils.GetPagination(c)

	requests, err := h.walletUseCase.ListWithdrawRequests(c.Request().Context(), userID, p.Limit, p.Offset())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, requests)
}
