package handler

import (
	"log"

	"github.com/labstack/echo/v4"

	"tradevault/internal/usecase"
	"tradevault/pkg/response"
	"tradevault/pkg/utils"
)

type ListingHandler struct {
	listingUseCase *usecase.ListingUseCase
}

func NewListingHandler(listingUseCase *usecase.ListingUseCase) *ListingHandler {
	return &ListingHandler{
		listingUseCase: listingUseCase,
	}
}

type createListingRequest struct {
	GameTitle   string `json:"game_title" validate:"required,min=2"`
	Title       string `json:"title" validate:"required,min=3"`
	Description string `json:"description" validate:"omitempty,max=2000"`
	Price       int64  `json:"price" validate:"required,min=1"`
}

type updateListingRequest struct {
	Price       *int64  `json:"price" validate:"omitempty,min=1"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

func (h *ListingHandler) CreateListing(c echo.Context) error {
	var req createListingRequest
	if err := c.Bind(&req); err != nil {
		log.Printf("Error binding request: %v", err)
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	sellerID, err := getUserID(c)
	if err != nil {
		return err
	}

	listing, err := h.listingUseCase.Create(c.Request().Context(), sellerID, usecase.CreateListingInput{
		GameTitle:   req.GameTitle,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, listing)
}

func (h *ListingHandler) GetListing(c echo.Context) error {
	listing, err := h.listingUseCase.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, listing)
}

func (h *ListingHandler) ListListings(c echo.Context) error {
	p := utils.GetPagination(c)

	listings, total, err := h.listingUseCase.ListAvailable(c.Request().Context(), p.Limit, p.Offset())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, listings, total, p.Page, p.Limit)
}

func (h *ListingHandler) ListMyListings(c echo.Context) error {
	sellerID, err := getUserID(c)
	if err != nil {
		return err
	}

	p := utils.GetPagination(c)

	listings, total, err := h.listingUseCase.ListMine(c.Request().Context(), sellerID, p.Limit, p.Offset())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, listings, total, p.Page, p.Limit)
}

func (h *ListingHandler) UpdateListing(c echo.Context) error {
	var req updateListingRequest
	if err := c.Bind(&req); err != nil {
		log.Printf("Error binding request: %v", err)
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	sellerID, err := getUserID(c)
	if err != nil {
		return err
	}

	listing, err := h.listingUseCase.Update(c.Request().Context(), sellerID, c.Param("id"), usecase.UpdateListingInput{
		Price:       req.Price,
		Description: req.Description,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, listing)
}

func (h *ListingHandler) DeleteListing(c echo.Context) error {
	sellerID, err := getUserID(c)
	if err != nil {
		return err
	}

	if err := h.listingUseCase.Delete(c.Request().Context(), sellerID, c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"status": "deleted"})
}
