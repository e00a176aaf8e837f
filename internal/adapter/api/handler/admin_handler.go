package handler

import (
	"log"

	"github.com/labstack/echo/v4"

	"tradevault/internal/usecase"
	"tradevault/pkg/response"
	"tradevault/pkg/utils"
)

// AdminHandler groups the operations reserved for marketplace staff:
// deposit and withdrawal processing, dispute arbitration, manual escrow
// release, and fraud review.
type AdminHandler struct {
	userUseCase    *usecase.UserUseCase
	disputeUseCase *usecase.DisputeUseCase
	releaseUseCase *usecase.EscrowReleaseUseCase
	walletUseCase  *usecase.WalletUseCase
}

func NewAdminHandler(
	userUseCase *usecase.UserUseCase,
	disputeUseCase *usecase.DisputeUseCase,
	releaseUseCase *usecase.EscrowReleaseUseCase,
	walletUseCase *usecase.WalletUseCase,
) *AdminHandler {
	return &AdminHandler{
		userUseCase:    userUseCase,
		disputeUseCase: disputeUseCase,
		releaseUseCase: releaseUseCase,
		walletUseCase:  walletUseCase,
	}
}

type processRequest struct {
	Approve bool   `json:"approve"`
	Notes   string `json:"notes" validate:"omitempty,max=1000"`
}

type resolveDisputeRequest struct {
	Winner    string `json:"winner" validate:"required,oneof=buyer seller"`
	AdminNote string `json:"admin_note" validate:"required,min=3,max=1000"`
}

type flagFraudRequest struct {
	Note string `json:"note" validate:"required,min=3,max=1000"`
}

func (h *AdminHandler) ProcessDepositRequest(c echo.Context) error {
	var req processRequest
	if err := c.Bind(&req); err != nil {
		log.Printf("Error binding request: %v", err)
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	adminID, err := getUserID(c)
	if err != nil {
		return err
	}

	request, err := h.walletUseCase.ProcessDepositRequest(c.Request().Context(), adminID, c.Param("id"), req.Approve, req.Notes)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, request)
}

func (h *AdminHandler) ProcessWithdrawRequest(c echo.Context) error {
	var req processRequest
	if err := c.Bind(&req); err != nil {
		log.Printf("Error binding request: %v", err)
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	adminID, err := getUserID(c)
	if err != nil {
		return err
	}

	request, err := h.walletUseCase.ProcessWithdrawRequest(c.Request().Context(), adminID, c.Param("id"), req.Approve, req.Notes)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, request)
}

func (h *AdminHandler) GetPendingDepositRequests(c echo.Context) error {
	p := utils.GetPagination(c)

	requests, err := h.walletUseCase.ListPendingDepositRequests(c.Request().Context(), p.Limit, p.Offset())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, requests)
}

func (h *AdminHandler) GetPendingWithdrawRequests(c echo.Context) error {
	p := utils.GetPagination(c)

	requests, err := h.walletUseCase.ListPendingWithdrawRequests(c.Request().Context(), p.Limit, p.Offset())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, requests)
}

func (h *AdminHandler) ListOpenDisputes(c echo.Context) error {
	p := utils.GetPagination(c)

	trades, total, err := h.disputeUseCase.ListOpen(c.Request().Context(), p.Limit, p.Offset())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, trades, total, p.Page, p.Limit)
}

func (h *AdminHandler) ResolveDispute(c echo.Context) error {
	var req resolveDisputeRequest
	if err := c.Bind(&req); err != nil {
		log.Printf("Error binding request: %v", err)
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	adminID, err := getUserID(c)
	if err != nil {
		return err
	}

	trade, err := h.disputeUseCase.Resolve(c.Request().Context(), adminID, usecase.ResolveInput{
		TradeID:   c.Param("id"),
		Winner:    req.Winner,
		AdminNote: req.AdminNote,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, trade)
}

func (h *AdminHandler) ReleaseTrade(c echo.Context) error {
	adminID, err := getUserID(c)
	if err != nil {
		return err
	}

	trade, err := h.releaseUseCase.ReleaseTrade(c.Request().Context(), adminID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, trade)
}

func (h *AdminHandler) FlagFraud(c echo.Context) error {
	var req flagFraudRequest
	if err := c.Bind(&req); err != nil {
		log.Printf("Error binding request: %v", err)
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	adminID, err := getUserID(c)
	if err != nil {
		return err
	}

	user, err := h.userUseCase.FlagFraud(c.Request().Context(), adminID, c.Param("id"), req.Note)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

func (h *AdminHandler) ClearFraudFlag(c echo.Context) error {
	adminID, err := getUserID(c)
	if err != nil {
		return err
	}

	user, err := h.userUseCase.ClearFraudFlag(c.Request().Context(), adminID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}
