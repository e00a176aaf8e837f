package handler

import (
	"log"

	"github.com/labstack/echo/v4"

	"tradevault/internal/usecase"
	"tradevault/pkg/response"
)

type DisputeHandler struct {
	disputeUseCase *usecase.DisputeUseCase
}

func NewDisputeHandler(disputeUseCase *usecase.DisputeUseCase) *DisputeHandler {
	return &DisputeHandler{
		disputeUseCase: disputeUseCase,
	}
}

type fileReportRequest struct {
	Reason      string `json:"reason" validate:"required,min=10,max=2000"`
	Urgency     string `json:"urgency" validate:"required,oneof=low medium high"`
	EvidenceURL string `json:"evidence_url" validate:"omitempty,url"`
}

func (h *DisputeHandler) FileReport(c echo.Context) error {
	var req fileReportRequest
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

	trade, err := h.disputeUseCase.FileReport(c.Request().Context(), userID, usecase.FileReportInput{
		TradeID:     c.Param("id"),
		Reason:      req.Reason,
		Urgency:     req.Urgency,
		EvidenceURL: req.EvidenceURL,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, trade)
}
