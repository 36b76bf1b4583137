// Package escrow implements the fund-holding ledger for marketplace orders.
//
// Every checkout opens one Transaction per order, locking the buyer's payment
// in Held status with an automatic release deadline. Funds leave escrow in
// exactly one of two terminal states: Released to the merchant (delivery
// confirmed, dispute resolved in the merchant's favour, or the release window
// elapsed undisputed) or Refunded to the buyer (cancellation or dispute
// resolution). Raising a dispute stops the automatic release timer; a disputed
// transaction is only ever settled by an explicit operator decision.
package escrow
