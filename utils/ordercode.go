package utils

import "crypto/rand"

// OrderCodeAlphabet excludes glyphs that are easy to confuse when a code is
// read aloud or printed on a ticket: I, L, O, 0 and 1.
const OrderCodeAlphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

// OrderCodeLength is the length of every generated order code.
const OrderCodeLength = 8

// GenerateOrderCode samples OrderCodeLength characters independently and
// uniformly from OrderCodeAlphabet. Bytes above the largest multiple of the
// alphabet size are rejected so the distribution stays uniform.
func GenerateOrderCode() (string, error) {
	n := len(OrderCodeAlphabet)
	max := byte(256 - 256%n)

	code := make([]byte, 0, OrderCodeLength)
	buf := make([]byte, 1)
	for len(code) < OrderCodeLength {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		if buf[0] >= max {
			continue
		}
		code = append(code, OrderCodeAlphabet[int(buf[0])%n])
	}
	return string(code), nil
}
