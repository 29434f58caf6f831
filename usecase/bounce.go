package usecase

import "sender/domain"

// BounceToAccount decides the bounce flag of an outbound transfer. A
// bounceable-encoded address is always honored. A non-bounceable-encoded
// address is still forced to bounce when the destination account is already
// active on-chain, so a failed execution refunds instead of leaving the
// funds there; only inactive or unknown destinations may stay
// non-bounceable, e.g. to let a new contract be deployed.
func BounceToAccount(address domain.TransferAddress, status string) bool {
	if address.Bounceable {
		return true
	}
	return status == domain.AccountStatusActive
}

// ShouldBounce applies the bounce rule against a resolved accounts map. An
// address missing from the map counts as an unknown destination.
func ShouldBounce(accounts map[string]domain.AccountSnapshot, address domain.TransferAddress) bool {
	status := domain.AccountStatusNonexist
	if account, found := accounts[address.ID.ToRaw()]; found {
		status = account.Status
	}
	return BounceToAccount(address, status)
}
