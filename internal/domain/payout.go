package domain

import "strings"

// WalletType is how a foreign helper receives payouts.
type WalletType string

const (
	WalletPayPal  WalletType = "paypal"
	WalletCashApp WalletType = "cashapp"
	WalletCrypto  WalletType = "crypto"
)

// CryptoNetworks are the networks accepted for crypto payouts.
var CryptoNetworks = []string{"BTC", "USDT", "ETH", "LTC"}

// PayoutDestination is where a helper's earnings are sent.
type PayoutDestination struct {
	WalletType          WalletType `json:"walletType,omitempty"`
	WalletAddress       string     `json:"walletAddress,omitempty"`
	AccountNumber       string     `json:"accountNumber,omitempty"`
	AccountName         string     `json:"accountName,omitempty"`
	PaypalEmail         string     `json:"paypalEmail,omitempty"`
	CashAppTag          string     `json:"cashAppTag,omitempty"`
	CryptoWalletAddress string     `json:"cryptoWalletAddress,omitempty"`
	CryptoNetwork       string     `json:"cryptoNetwork,omitempty"`
}

// Validate checks that the fields required for region are present.
// Local helpers are paid by bank or mobile money and need an account number
// and name. Foreign helpers pick one wallet type and fill in its fields.
func (p PayoutDestination) Validate(region Region) error {
	switch region {
	case RegionLocal:
		if strings.TrimSpace(p.AccountNumber) == "" || strings.TrimSpace(p.AccountName) == "" {
			return NewValidationError("accountNumber", "Account Number and Account Name are required for local region.")
		}
		return nil

	case RegionForeign:
		switch p.WalletType {
		case WalletPayPal:
			if strings.TrimSpace(p.PaypalEmail) == "" {
				return NewValidationError("paypalEmail", "PayPal Email is required.")
			}
		case WalletCashApp:
			if strings.TrimSpace(p.CashAppTag) == "" {
				return NewValidationError("cashAppTag", "CashApp Tag is required.")
			}
		case WalletCrypto:
			if strings.TrimSpace(p.CryptoWalletAddress) == "" || p.CryptoNetwork == "" {
				return NewValidationError("cryptoWalletAddress", "Crypto Wallet Address and Network are required.")
			}
			if !validCryptoNetwork(p.CryptoNetwork) {
				return NewValidationError("cryptoNetwork", "Unsupported crypto network.")
			}
		default:
			return NewValidationError("walletType", "Please select a foreign wallet type.")
		}
		return nil

	default:
		return NewValidationError("region", "Please select your region.")
	}
}

// ForRegion returns a copy holding only the fields relevant to region and
// wallet type, so stale inputs from a previous choice are not submitted.
func (p PayoutDestination) ForRegion(region Region) PayoutDestination {
	switch region {
	case RegionLocal:
		return PayoutDestination{AccountNumber: p.AccountNumber, AccountName: p.AccountName}
	case RegionForeign:
		out := PayoutDestination{WalletType: p.WalletType}
		switch p.WalletType {
		case WalletPayPal:
			out.PaypalEmail = p.PaypalEmail
		case WalletCashApp:
			out.CashAppTag = p.CashAppTag
		case WalletCrypto:
			out.CryptoWalletAddress = p.CryptoWalletAddress
			out.CryptoNetwork = p.CryptoNetwork
		}
		return out
	}
	return PayoutDestination{}
}

func validCryptoNetwork(n string) bool {
	for _, known := range CryptoNetworks {
		if n == known {
			return true
		}
	}
	return false
}
