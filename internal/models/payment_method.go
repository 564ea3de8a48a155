package models

import (
	"fmt"
	"strings"
)

type PaymentMethod uint8

// Declaration order is the output order of per-method aggregates.
const (
	PaymentMethodUnknown PaymentMethod = iota
	Cash
	CreditCardOnsite
	QRCodeOnsite
	CreditCardOnline
	PayPay
	LinePay
	RakutenPay
)

// PaymentMethods lists every valid method.
var PaymentMethods = []PaymentMethod{
	Cash, CreditCardOnsite, QRCodeOnsite,
	CreditCardOnline, PayPay, LinePay, RakutenPay,
}

var paymentMethodCodes = map[PaymentMethod]string{
	Cash:             "CASH",
	CreditCardOnsite: "CREDIT_CARD_ONSITE",
	QRCodeOnsite:     "QR_CODE_ONSITE",
	CreditCardOnline: "CREDIT_CARD_ONLINE",
	PayPay:           "PAYPAY",
	LinePay:          "LINE_PAY",
	RakutenPay:       "RAKUTEN_PAY",
}

type Channel string

const (
	ChannelUnknown Channel = ""
	ChannelOnsite  Channel = "onsite"
	ChannelOnline  Channel = "online"
)

// Channel reports whether the method settles in the restaurant or remotely.
func (m PaymentMethod) Channel() Channel {
	switch m {
	case Cash, CreditCardOnsite, QRCodeOnsite:
		return ChannelOnsite
	case CreditCardOnline, PayPay, LinePay, RakutenPay:
		return ChannelOnline
	default:
		return ChannelUnknown
	}
}

func (m PaymentMethod) Valid() bool {
	_, ok := paymentMethodCodes[m]
	return ok
}

// String returns the export code, e.g. "CREDIT_CARD_ONLINE".
func (m PaymentMethod) String() string {
	if code, ok := paymentMethodCodes[m]; ok {
		return code
	}
	return "UNKNOWN"
}

// Label is the display name: "credit card online".
func (m PaymentMethod) Label() string {
	return strings.ToLower(strings.ReplaceAll(m.String(), "_", " "))
}

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	code := strings.ToUpper(strings.TrimSpace(s))
	for m, c := range paymentMethodCodes {
		if c == code {
			return m, nil
		}
	}
	return PaymentMethodUnknown, fmt.Errorf("unknown payment method %q", s)
}

func (m PaymentMethod) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("invalid payment method %d", uint8(m))
	}
	return []byte(m.String()), nil
}

func (m *PaymentMethod) UnmarshalText(b []byte) error {
	parsed, err := ParsePaymentMethod(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
