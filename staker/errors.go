package staker

import "errors"

var (
	ErrAlreadyInitialized = errors.New("already initialized")
	ErrNotInitialized     = errors.New("not initialized")

	ErrOnlyOwner          = errors.New("only the owner can call this function")
	ErrNoPendingOwnerSet  = errors.New("no pending owner set")
	ErrNotPendingOwner    = errors.New("caller is not the pending owner")
	ErrCallerIsNotAgent   = errors.New("caller is not an agent")
	ErrUserNotWhitelisted = errors.New("user not whitelisted")
	ErrContractPaused     = errors.New("contract is paused")
	ErrNotPaused          = errors.New("contract is not paused")
	ErrUnauthorized       = errors.New("unauthorized")

	ErrFeeTooLarge             = errors.New("fee cannot be larger than fee precision")
	ErrMinimumDepositTooSmall  = errors.New("minimum deposit must be at least 1 INJ")
	ErrDepositBelowMinDeposit  = errors.New("deposit amount is below the minimum deposit")
	ErrNoFundsAttached         = errors.New("no INJ attached")
	ErrInsufficientInjAttached = errors.New("insufficient INJ attached")

	ErrValidatorAlreadyExists   = errors.New("validator already exists")
	ErrValidatorDoesNotExist    = errors.New("validator does not exist")
	ErrValidatorAlreadyEnabled  = errors.New("validator already enabled")
	ErrValidatorAlreadyDisabled = errors.New("validator already disabled")
	ErrValidatorNotEnabled      = errors.New("validator not enabled")
	ErrNotInValidatorSet        = errors.New("validator is not in the validator set")

	ErrOwnerCannotBeAdded       = errors.New("owner cannot be added as an agent")
	ErrOwnerCannotBeRemoved     = errors.New("owner cannot be removed as an agent")
	ErrAgentAlreadyExists       = errors.New("agent already exists")
	ErrAgentDoesNotExist        = errors.New("agent does not exist")
	ErrUserAlreadyWhitelisted   = errors.New("user already whitelisted")
	ErrUserAlreadyBlacklisted   = errors.New("user already blacklisted")
	ErrUserStatusAlreadyCleared = errors.New("user status already cleared")

	ErrInsufficientTruINJBalance  = errors.New("insufficient TruINJ balance")
	ErrUnstakeAmountTooLow        = errors.New("unstake amount too low")
	ErrSharesAmountTooLow         = errors.New("shares amount too low")
	ErrInsufficientValidatorFunds = errors.New("insufficient validator funds")
	ErrInsufficientStakerFunds    = errors.New("insufficient staker funds")

	ErrInvalidRecipient        = errors.New("invalid recipient")
	ErrAllocationUnderOneInj   = errors.New("allocation amount must be at least 1 INJ")
	ErrNoAllocationToRecipient = errors.New("no allocation to recipient")
	ErrExcessiveDeallocation   = errors.New("deallocation exceeds allocated amount")
	ErrNoAllocations           = errors.New("no allocations")
	ErrNothingToClaim          = errors.New("nothing to claim")

	ErrDivideByZero    = errors.New("division by zero")
	ErrNumericOverflow = errors.New("numeric overflow")
)
