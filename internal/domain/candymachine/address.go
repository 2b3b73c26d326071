package candymachine

// FormatAddress shortens a base58 address to "abcd...wxyz".
// Addresses too short to shorten are returned unchanged.
func FormatAddress(address string) string {
	return FormatAddressN(address, 4)
}

func FormatAddressN(address string, chars int) string {
	if chars <= 0 || len(address) <= chars*2 {
		return address
	}
	return address[:chars] + "..." + address[len(address)-chars:]
}
