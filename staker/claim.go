package staker

import (
	sdkmath "cosmossdk.io/math"

	"inj-staker/db"
	"inj-staker/types"
)

// Claim settles all of the caller's matured unbonding claims. Settlement is
// capped by the staker account's INJ balance net of the reward float, so the
// float is never paid out as principal; a slashing shortfall fails the whole
// claim and the entries stay for a later retry.
func (e *Engine) Claim(sender string) (*Response, error) {
	res := &Response{}
	err := e.run(func(txn *db.Txn, cmds *[]command) error {
		if err := checkNotPaused(txn); err != nil {
			return err
		}
		if err := checkWhitelisted(txn, sender); err != nil {
			return err
		}

		now := e.now().Unix()
		claimed := sdkmath.ZeroInt()
		var matured []*types.Claim
		err := txn.IteratePrefix((&types.Claim{User: sender}).Prefix(), func(key string, value []byte) error {
			claim := &types.Claim{}
			if err := unmarshalRecord(value, claim); err != nil {
				return err
			}
			if claim.ReleaseAt <= now {
				claimed = claimed.Add(claim.Amount)
				matured = append(matured, claim)
			}
			return nil
		})
		if err != nil {
			return err
		}
		if !claimed.IsPositive() {
			return ErrNothingToClaim
		}

		balance, err := e.backend.BankBalance(e.addr)
		if err != nil {
			return err
		}
		contractRewards, err := getContractRewards(txn)
		if err != nil {
			return err
		}
		available := balance.Sub(contractRewards)
		if available.IsNegative() {
			available = sdkmath.ZeroInt()
		}
		if available.LT(claimed) {
			return ErrInsufficientStakerFunds
		}

		for _, claim := range matured {
			if err := txn.DeleteRecord(claim); err != nil {
				return err
			}
		}

		amount := claimed
		*cmds = append(*cmds, func() error {
			return e.backend.Send(sender, amount)
		})

		res.addEvent(types.NewEvent("claimed").
			Add("user", sender).
			Add("amount", claimed.String()))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
