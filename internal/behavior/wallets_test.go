package behavior

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/ringwatch/ringwatch/internal/model"
)

func hexAddr(n int) string {
	return fmt.Sprintf("0x%040x", n)
}

func decimalPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func transfer(from, to string) model.Event {
	return model.Event{Actor: from, Action: "transfer", Target: to}
}

func TestDetectSharedWalletsMarksCoFundedRecipients(t *testing.T) {
	funder := hexAddr(0xfa)
	r1, r2, r3 := hexAddr(1), hexAddr(2), hexAddr(3)
	lone := hexAddr(0xbb)

	logs := []model.Event{
		transfer(funder, r1),
		transfer(funder, r2),
		transfer(funder, r3),
		transfer(lone, hexAddr(9)), // single recipient, below the pair minimum
	}
	out := DetectSharedWallets(logs)

	assert.Equal(t, []string{funder}, out[r1])
	assert.Equal(t, []string{funder}, out[r2])
	assert.Equal(t, []string{funder}, out[r3])
	assert.NotContains(t, out, hexAddr(9))
	// the funder itself is not marked
	assert.NotContains(t, out, funder)
}

func TestDetectSharedWalletsIgnoresNonHexEndpoints(t *testing.T) {
	logs := []model.Event{
		transfer("alice", hexAddr(1)),
		transfer("alice", hexAddr(2)),
		{Actor: hexAddr(5), Action: "follow", Target: hexAddr(6)},
	}
	out := DetectSharedWallets(logs)
	assert.Empty(t, out)
}

func TestDetectSharedWalletsSortsFunders(t *testing.T) {
	f1, f2 := hexAddr(0xff), hexAddr(0xaa)
	shared := hexAddr(1)
	logs := []model.Event{
		transfer(f1, shared),
		transfer(f1, hexAddr(2)),
		transfer(f2, shared),
		transfer(f2, hexAddr(3)),
	}
	out := DetectSharedWallets(logs)
	assert.Equal(t, []string{f2, f1}, out[shared]) // 0xaa sorts before 0xff
}

func TestDetectSharedWalletsFoldsAddressCase(t *testing.T) {
	// checksum-cased and lowercase spellings are the same funder
	logs := []model.Event{
		transfer("0x00000000000000000000000000000000000000FA", hexAddr(1)),
		transfer(hexAddr(0xfa), "0x00000000000000000000000000000000000000AB"),
	}
	out := DetectSharedWallets(logs)

	assert.Equal(t, []string{hexAddr(0xfa)}, out[hexAddr(1)])
	assert.Equal(t, []string{hexAddr(0xfa)}, out[hexAddr(0xab)])
	assert.NotContains(t, out, "0x00000000000000000000000000000000000000AB")
}

func TestDetectCrossAppLinking(t *testing.T) {
	logs := []model.Event{
		{Actor: "a", Platform: "farcaster", Action: "follow"},
		{Actor: "a", Platform: "base", Action: "tap"},
		{Actor: "a", Platform: "base", Action: "tap"},
		{Actor: "b", Platform: "web", Action: "like"},
	}
	out := DetectCrossAppLinking(logs)
	assert.Equal(t, []string{"base", "farcaster"}, out["a"])
	assert.NotContains(t, out, "b")
}

func TestDetectFraudulentTransactions(t *testing.T) {
	steady := decimalPtr("1.0")
	logs := []model.Event{
		{Actor: "steady", Action: "transfer", Amount: steady},
		{Actor: "steady", Action: "transfer", Amount: steady},
		{Actor: "steady", Action: "transfer", Amount: steady},
		{Actor: "erratic", Action: "transfer", Amount: decimalPtr("0.01")},
		{Actor: "erratic", Action: "transfer", Amount: decimalPtr("50")},
		{Actor: "erratic", Action: "transfer", Amount: decimalPtr("0.02")},
		{Actor: "single", Action: "transfer", Amount: decimalPtr("5")},
	}
	out := DetectFraudulentTransactions(logs)

	assert.Equal(t, 0.0, out["steady"])
	assert.Greater(t, out["erratic"], 0.5)
	assert.NotContains(t, out, "single")
}
