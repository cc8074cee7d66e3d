package domain

import "errors"

// Not-found outcomes
var (
	ErrCharacterNotFound = errors.New("character not found")
	ErrSessionNotFound   = errors.New("roll session not found")
	ErrProposalNotFound  = errors.New("marriage proposal not found")
	ErrUnknownSlot       = errors.New("roll session has no such slot")
	ErrPolicyNotFound    = errors.New("guild policy not found")
)

// Conflicts: the operation raced or duplicates existing state
var (
	ErrCharacterClaimed  = errors.New("character is already claimed")
	ErrCharacterNotOwned = errors.New("character is not claimed by this user")
	ErrSessionClosed     = errors.New("roll session is no longer open")
	ErrAlreadyMarried    = errors.New("already married to this target")
	ErrNotMarried        = errors.New("not married to this target")
	ErrWishlistDuplicate = errors.New("character is already on the wishlist")
	ErrProposalResolved  = errors.New("proposal has already been resolved")
	ErrNotProposalTarget = errors.New("only the proposal target can answer it")
)

// Policy violations: rejected before any state mutation
var (
	ErrFeatureDisabled   = errors.New("collection system is disabled in this guild")
	ErrOnCooldown        = errors.New("roll cooldown is active")
	ErrMarriageLimit     = errors.New("maximum number of marriages reached")
	ErrInsufficientFunds = errors.New("insufficient balance")
)
