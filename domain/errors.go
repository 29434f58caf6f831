package domain

import "fmt"

// Failure taxonomy of the transfer pipeline. Every stage maps its failures
// onto one of these values; money-affecting fields are never defaulted on
// error, the error always propagates to the caller.
var (
	ErrorServiceUnavailable   = fmt.Errorf("chain service unavailable")
	ErrorInsufficientFunds    = fmt.Errorf("insufficient funds")
	ErrorAuthenticationFailed = fmt.Errorf("authentication failed")
	ErrorNetwork              = fmt.Errorf("network failure")
	ErrorBroadcastRejected    = fmt.Errorf("broadcast rejected")
)

var (
	ErrorAssetMismatch  = fmt.Errorf("amounts belong to different assets")
	ErrorInvalidAmount  = fmt.Errorf("invalid amount value")
	ErrorInvalidAddress = fmt.Errorf("invalid address")
	ErrorInvalidPayload = fmt.Errorf("invalid transfer payload")
)
