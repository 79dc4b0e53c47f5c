// Package util contains small helpers shared across the application that
// don't belong to any other package
package util

import (
	"math/rand"
	"sync"
	"time"
	"unsafe"
)

const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
const (
	letterIdxBits = 6                    // 6 bits to represent a letter index
	letterIdxMask = 1<<letterIdxBits - 1 // All 1-bits, as many as letterIdxBits
	letterIdxMax  = 63 / letterIdxBits   // # of letter indices fitting in 63 bits
)

var (
	srcMu sync.Mutex
	src   = rand.NewSource(time.Now().UnixNano())
)

// RandStr generates a random alphabetic string of length n. Used for
// request IDs and other non-secret identifiers; verification codes have
// their own generator with an injectable source. Safe for concurrent use.
func RandStr(n int) string {
	b := make([]byte, n)

	srcMu.Lock()
	for i, cache, remain := n-1, src.Int63(), letterIdxMax; i >= 0; {
		if remain == 0 {
			cache, remain = src.Int63(), letterIdxMax
		}
		if idx := int(cache & letterIdxMask); idx < len(charset) {
			b[i] = charset[idx]
			i--
		}
		cache >>= letterIdxBits
		remain--
	}
	srcMu.Unlock()

	return *(*string)(unsafe.Pointer(&b))
}
