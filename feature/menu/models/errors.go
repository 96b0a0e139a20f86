package models

import "errors"

// Not-found errors name the missing level so the API can surface it directly.
var (
	ErrMenuNotFound    = errors.New("menu not found")
	ErrSubmenuNotFound = errors.New("submenu not found")
	ErrDishNotFound    = errors.New("dish not found")
)

// Conflict errors identify the violated uniqueness constraint.
var (
	ErrMenuExists    = errors.New("menu with this title already exists")
	ErrSubmenuExists = errors.New("submenu with this title already exists in the menu")
	ErrDishExists    = errors.New("dish with this title and description already exists in the submenu")
)

// Validation errors.
var (
	ErrDiscountRange = errors.New("discount must be between 0 and 100")
	ErrInvalidPrice  = errors.New("invalid price value")
)

// IsNotFound reports whether err is one of the not-found sentinels.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrMenuNotFound) ||
		errors.Is(err, ErrSubmenuNotFound) ||
		errors.Is(err, ErrDishNotFound)
}

// IsConflict reports whether err is one of the uniqueness sentinels.
func IsConflict(err error) bool {
	return errors.Is(err, ErrMenuExists) ||
		errors.Is(err, ErrSubmenuExists) ||
		errors.Is(err, ErrDishExists)
}

// IsValidation reports whether err is a payload validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrDiscountRange) || errors.Is(err, ErrInvalidPrice)
}
