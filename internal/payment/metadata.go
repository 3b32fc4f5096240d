// Package payment defines the metadata contract shared with the checkout
// session producer: the storefront sets these keys on the payment intent at
// session creation, and the webhook decodes them here.
package payment

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/DiwanMalla/brainix-checkout/internal/domain"
)

const (
	metaUserID         = "user_id"
	metaCourseIDs      = "course_ids"
	metaPromoCode      = "promo_code"
	metaBillingAddress = "billing_address"
)

// CheckoutMetadata is the decoded form of a payment intent's metadata bag.
type CheckoutMetadata struct {
	UserID         string
	CourseIDs      []string
	PromoCode      string
	BillingAddress domain.BillingAddress
}

// DecodeMetadata validates and decodes a payment intent's metadata. A missing
// purchaser id or an empty course list is a domain.ErrMissingMetadata; a
// malformed billing address degrades to an empty one (the payment already
// succeeded, an unreadable address must not block the order).
func DecodeMetadata(meta map[string]string) (CheckoutMetadata, error) {
	userID := strings.TrimSpace(meta[metaUserID])
	if userID == "" {
		return CheckoutMetadata{}, fmt.Errorf("%w: %s", domain.ErrMissingMetadata, metaUserID)
	}

	courseIDs := splitIDs(meta[metaCourseIDs])
	if len(courseIDs) == 0 {
		return CheckoutMetadata{}, fmt.Errorf("%w: %s", domain.ErrMissingMetadata, metaCourseIDs)
	}

	out := CheckoutMetadata{
		UserID:    userID,
		CourseIDs: courseIDs,
		PromoCode: strings.TrimSpace(meta[metaPromoCode]),
	}
	if raw := meta[metaBillingAddress]; raw != "" {
		// Best effort: leave the address zero-valued on bad JSON.
		var addr domain.BillingAddress
		if err := json.Unmarshal([]byte(raw), &addr); err == nil {
			out.BillingAddress = addr
		}
	}
	return out, nil
}

// Encode renders the metadata back to the wire form the checkout session
// producer writes. The inverse of DecodeMetadata.
func (m CheckoutMetadata) Encode() map[string]string {
	out := map[string]string{
		metaUserID:    m.UserID,
		metaCourseIDs: strings.Join(m.CourseIDs, ","),
	}
	if m.PromoCode != "" {
		out[metaPromoCode] = m.PromoCode
	}
	if m.BillingAddress != (domain.BillingAddress{}) {
		if raw, err := json.Marshal(m.BillingAddress); err == nil {
			out[metaBillingAddress] = string(raw)
		}
	}
	return out
}

func splitIDs(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
