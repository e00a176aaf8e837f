package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"tradevault/internal/domain/entity"
	"tradevault/internal/domain/repository"
	"tradevault/pkg/errors"
)

type ListingUseCase struct {
	listingRepo repository.ListingRepository
	store       repository.AtomicStore
}

func NewListingUseCase(listingRepo repository.ListingRepository, store repository.AtomicStore) *ListingUseCase {
	return &ListingUseCase{
		listingRepo: listingRepo,
		store:       store,
	}
}

type CreateListingInput struct {
	GameTitle   string
	Title       string
	Description string
	Price       int64
}

func (uc *ListingUseCase) Create(ctx context.Context, sellerID string, input CreateListingInput) (*entity.Listing, error) {
	if input.Price <= 0 {
		return nil, errors.BadRequest("Listing price must be positive", nil)
	}

	listing := &entity.Listing{
		ID:          uuid.New().String(),
		SellerID:    sellerID,
		GameTitle:   input.GameTitle,
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		Available:   true,
		TradeStatus: entity.TradeStatusAvailable,
	}
	if err := uc.listingRepo.Create(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

func (uc *ListingUseCase) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	return uc.listingRepo.GetByID(ctx, id)
}

func (uc *ListingUseCase) ListAvailable(ctx context.Context, limit, offset int) ([]*entity.Listing, int64, error) {
	return uc.listingRepo.ListAvailable(ctx, limit, offset)
}

func (uc *ListingUseCase) ListMine(ctx context.Context, sellerID string, limit, offset int) ([]*entity.Listing, int64, error) {
	return uc.listingRepo.ListBySellerID(ctx, sellerID, limit, offset)
}

// UpdateListingInput carries the editable fields. Nil means leave the field
// unchanged; price and description are the only fields a seller may edit
// after creation.
type UpdateListingInput struct {
	Price       *int64
	Description *string
}

// Update edits a listing's price or description. Edits run in an atomic unit
// against the trade status so a reservation racing the edit cannot see a
// half-applied listing, and only available listings can be edited.
func (uc *ListingUseCase) Update(ctx context.Context, sellerID, listingID string, input UpdateListingInput) (*entity.Listing, error) {
	if input.Price != nil && *input.Price <= 0 {
		return nil, errors.BadRequest("Listing price must be positive", nil)
	}

	var listing *entity.Listing
	err := uc.store.Atomic(ctx, func(ops repository.Ops) error {
		var err error
		listing, err = ops.GetListing(listingID)
		if err != nil {
			return err
		}
		if listing.SellerID != sellerID {
			return errors.Forbidden("Only the seller can edit this listing", nil)
		}
		if listing.TradeStatus != entity.TradeStatusAvailable {
			return errors.ListingNotAvailable("Listing cannot be edited while a trade is in progress")
		}

		if input.Price != nil {
			listing.Price = *input.Price
		}
		if input.Description != nil {
			listing.Description = *input.Description
		}
		listing.UpdatedAt = time.Now()
		return ops.PutListing(listing)
	})
	if err != nil {
		return nil, err
	}
	return listing, nil
}

// Delete soft-deletes a listing. A listing with a trade in progress cannot
// be deleted.
func (uc *ListingUseCase) Delete(ctx context.Context, sellerID, listingID string) error {
	return uc.store.Atomic(ctx, func(ops repository.Ops) error {
		listing, err := ops.GetListing(listingID)
		if err != nil {
			return err
		}
		if listing.SellerID != sellerID {
			return errors.Forbidden("Only the seller can delete this listing", nil)
		}
		if listing.TradeInProgress() {
			return errors.ListingNotAvailable("Listing cannot be deleted while a trade is in progress")
		}
		// The trade record is authoritative: a disputed trade keeps the
		// listing alive even when the listing status alone looks terminal.
		trade, err := ops.GetActiveTradeByListingID(listingID)
		if err != nil {
			return err
		}
		if trade != nil {
			return errors.ListingNotAvailable("Listing cannot be deleted while a trade is in progress")
		}

		now := time.Now()
		listing.Available = false
		listing.DeletedAt = &now
		listing.UpdatedAt = now
		return ops.PutListing(listing)
	})
}
