package messaging

// ConversationKey identifies the exchange between two aliases about one
// listing. Swapping a and b yields the same key.
func ConversationKey(a, b, listingID string) string {
	if b < a {
		a, b = b, a
	}
	return a + "_" + b + "_" + listingID
}
