package domain

import "errors"

var (
	ErrInvalidBarcode   = errors.New("invalid barcode")
	ErrProductNotFound  = errors.New("product not found")
	ErrLookupFailed     = errors.New("product lookup failed")
	ErrReviewNotFound   = errors.New("review not found")
	ErrReviewExists     = errors.New("review already exists for this product")
	ErrInvalidStarCount = errors.New("star count must be between 1 and 5")
	ErrReviewEmpty      = errors.New("please write a review")
	ErrReviewTooShort   = errors.New("review must be at least 10 characters")
	ErrReviewTooLong    = errors.New("review must be less than 500 characters")
)
