package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// GenerateTransactionID produces the payment-provider join key for an
// order. The random suffix keeps ids unique across orders created in
// the same second.
func GenerateTransactionID() string {
	timestamp := time.Now().Unix()
	randomNum, _ := rand.Int(rand.Reader, big.NewInt(999999999))
	return fmt.Sprintf("TXN-%d-%09d", timestamp, randomNum.Int64())
}
