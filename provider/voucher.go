package provider

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const voucherCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// voucherBlocks is the 4-4-3-4-4 redeem code shape, e.g. AB12-CD34-E5F-GH67-IJ89
var voucherBlocks = []int{4, 4, 3, 4, 4}

const userIDLength = 12

// GenerateVoucherCode returns a random uppercase alphanumeric redeem code
// in 4-4-3-4-4 blocks.
func GenerateVoucherCode() string {
	var sb strings.Builder
	for i, block := range voucherBlocks {
		if i > 0 {
			sb.WriteByte('-')
		}
		for j := 0; j < block; j++ {
			n, err := rand.Int(rand.Reader, big.NewInt(int64(len(voucherCharset))))
			if err != nil {
				// crypto/rand never fails on supported platforms
				n = big.NewInt(0)
			}
			sb.WriteByte(voucherCharset[n.Int64()])
		}
	}
	return sb.String()
}

// GenerateUserID returns a pseudo user id: 6 random bytes read as an
// unsigned big integer, rendered in decimal, truncated to 12 digits and
// left-padded with zeros when shorter.
func GenerateUserID() string {
	buf := make([]byte, 6)
	_, _ = rand.Read(buf)

	id := new(big.Int).SetBytes(buf).String()
	if len(id) > userIDLength {
		id = id[:userIDLength]
	}
	if len(id) < userIDLength {
		id = strings.Repeat("0", userIDLength-len(id)) + id
	}
	return id
}

// ExtractAfterDash returns the trimmed substring after the last '-' in the
// input, or "" when the input contains no dash. Used to derive the product
// type from an order item SKU such as PRODUCT-1-GOLD.
func ExtractAfterDash(input string) string {
	parts := strings.Split(input, "-")
	if len(parts) < 2 {
		return ""
	}
	return strings.TrimSpace(parts[len(parts)-1])
}
