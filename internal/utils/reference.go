package utils

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

const refCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateReference generates a unique reference for payouts and other
// ledger rows, e.g. COM_20260901_7KQ2MX9A.
func GenerateReference(prefix string) string {
	result := make([]byte, 8)
	for i := range result {
		result[i] = refCharset[rand.Intn(len(refCharset))]
	}
	timestamp := time.Now().Format("20060102")
	return fmt.Sprintf("%s_%s_%s", strings.ToUpper(prefix), timestamp, string(result))
}

// GenerateJoinID generates a leader code new members hand out for
// referral attribution.
func GenerateJoinID() string {
	result := make([]byte, 8)
	for i := range result {
		result[i] = refCharset[rand.Intn(len(refCharset))]
	}
	return "UP" + string(result)
}
