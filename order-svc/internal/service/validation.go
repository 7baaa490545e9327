package service

import (
	"regexp"
	"strings"

	"tablebook/order-svc/internal/domain"
)

var (
	phonePattern   = regexp.MustCompile(`^\+?[0-9]{9,15}$`)
	phoneSeparator = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "")

	paymentMethods = map[string]bool{
		"cash":   true,
		"card":   true,
		"online": true,
	}
)

func ValidateCheckout(req domain.CheckoutRequest) error {
	if strings.TrimSpace(req.DeliveryAddress) == "" {
		return domain.ValidationError{Field: "delivery_address", Message: "delivery address is required"}
	}
	if len(req.DeliveryAddress) > 500 {
		return domain.ValidationError{Field: "delivery_address", Message: "delivery address must be at most 500 characters"}
	}
	if strings.TrimSpace(req.ContactPhone) == "" {
		return domain.ValidationError{Field: "contact_phone", Message: "contact phone is required"}
	}
	if !phonePattern.MatchString(phoneSeparator.Replace(strings.TrimSpace(req.ContactPhone))) {
		return domain.ValidationError{Field: "contact_phone", Message: "contact phone is not a valid phone number"}
	}
	if !paymentMethods[strings.ToLower(req.PaymentMethod)] {
		return domain.ValidationError{Field: "payment_method", Message: "payment method must be one of cash, card, online"}
	}
	return nil
}

func validateMenuItem(item *domain.MenuItem) error {
	if strings.TrimSpace(item.Name) == "" {
		return domain.ValidationError{Field: "name", Message: "name is required"}
	}
	if item.Price.IsNegative() {
		return domain.ValidationError{Field: "price", Message: "price must not be negative"}
	}
	return nil
}

func validateVendor(vendor *domain.Vendor) error {
	if strings.TrimSpace(vendor.Name) == "" {
		return domain.ValidationError{Field: "name", Message: "name is required"}
	}
	if len(vendor.Name) > 200 {
		return domain.ValidationError{Field: "name", Message: "name must be at most 200 characters"}
	}
	return nil
}
