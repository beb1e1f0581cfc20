package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/assignhub/internal/common"
)

func validRegistration() HelperRegistration {
	return HelperRegistration{
		Username:              "helper1",
		Password:              "secret1",
		ConfirmPassword:       "secret1",
		Region:                RegionLocal,
		SpecializedCategories: []string{"Essay Writing", "Physics", "Statistics"},
		PayoutDestination:     PayoutDestination{AccountNumber: "0123", AccountName: "H One"},
	}
}

func TestHelperRegistration_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(h *HelperRegistration)
		wantMsg string
	}{
		{name: "valid local", mutate: func(h *HelperRegistration) {}},
		{name: "password mismatch", mutate: func(h *HelperRegistration) { h.ConfirmPassword = "other" }, wantMsg: "Passwords do not match."},
		{name: "no region", mutate: func(h *HelperRegistration) { h.Region = "" }, wantMsg: "Please select your region."},
		{name: "local missing account", mutate: func(h *HelperRegistration) { h.AccountName = "" },
			wantMsg: "Account Number and Account Name are required for local region."},
		{name: "foreign no wallet", mutate: func(h *HelperRegistration) { h.Region = RegionForeign },
			wantMsg: "Please select a foreign wallet type."},
		{name: "foreign paypal missing", mutate: func(h *HelperRegistration) {
			h.Region, h.WalletType = RegionForeign, WalletPayPal
		}, wantMsg: "PayPal Email is required."},
		{name: "foreign crypto missing network", mutate: func(h *HelperRegistration) {
			h.Region, h.WalletType, h.CryptoWalletAddress = RegionForeign, WalletCrypto, "bc1q"
		}, wantMsg: "Crypto Wallet Address and Network are required."},
		{name: "foreign crypto ok", mutate: func(h *HelperRegistration) {
			h.Region, h.WalletType, h.CryptoWalletAddress, h.CryptoNetwork = RegionForeign, WalletCrypto, "bc1q", "BTC"
		}},
		{name: "too few categories", mutate: func(h *HelperRegistration) { h.SpecializedCategories = h.SpecializedCategories[:2] },
			wantMsg: "specializedCategories needs at least 3 entries"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := validRegistration()
			tt.mutate(&h)
			err := h.Validate()
			if tt.wantMsg == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrorValidation)
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestHelperRegistration_PayloadDropsStaleFields(t *testing.T) {
	h := validRegistration()
	h.Region = RegionForeign
	h.WalletType = WalletCashApp
	h.CashAppTag = "$helper"

	p := h.Payload()
	assert.Empty(t, p.ConfirmPassword)
	assert.Empty(t, p.AccountNumber)
	assert.Empty(t, p.AccountName)
	assert.Equal(t, "$helper", p.CashAppTag)
}

func TestNewAssignment_Validate(t *testing.T) {
	n := NewAssignment{
		Title:         "  Lab report ",
		Description:   "Write up the pendulum lab",
		Category:      "Physics",
		Complexity:    ComplexityMedium,
		Deadline:      time.Now().Add(48 * time.Hour),
		PaymentAmount: 30,
		OwnerID:       "o-1",
	}
	require.NoError(t, n.Validate())
	assert.Equal(t, "Lab report", n.Title)

	n.PaymentAmount = 0
	err := n.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "paymentAmount must be greater than 0")

	n.PaymentAmount = 30
	n.Category = ""
	assert.ErrorIs(t, n.Validate(), common.ErrorValidation)
}
