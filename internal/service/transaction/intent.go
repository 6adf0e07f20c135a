// Package transaction orchestrates the write path: intent validation, wallet
// submission, confirmation tracking, and the session ledger.
package transaction

// Kind identifies an operation against the token contract.
type Kind string

// Operation kinds.
const (
	KindTransfer     Kind = "transfer"
	KindTransferAll  Kind = "transfer_all"
	KindApprove      Kind = "approve"
	KindTransferFrom Kind = "transfer_from"
	KindFaucetClaim  Kind = "faucet_claim"
)

// Intent is a user's request to perform an operation, before validation.
// Amount is a decimal string as entered; it stays empty for transfer_all
// (resolved from the live balance at submission) and faucet_claim.
type Intent struct {
	Kind   Kind
	To     string // recipient, or spender for approve
	Owner  string // transfer_from only: the account funds move out of
	Amount string
}
