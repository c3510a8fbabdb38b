package utils

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const (
	upperChars   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowerChars   = "abcdefghijklmnopqrstuvwxyz"
	digitChars   = "0123456789"
	specialChars = "!@$%*?&"

	portalPasswordLength = 12
)

// GeneratePortalUsername derives a unique login from the patient's name.
// The exists check runs against live data, so collisions resolve with a
// numeric suffix.
func GeneratePortalUsername(ctx context.Context, firstName, lastName string, exists func(context.Context, string) (bool, error)) (string, error) {
	base := strings.ToLower(strings.ReplaceAll(firstName, " ", "")) +
		strings.ToLower(strings.ReplaceAll(lastName, " ", ""))
	username := base
	for counter := 1; ; counter++ {
		taken, err := exists(ctx, username)
		if err != nil {
			return "", fmt.Errorf("failed to check username availability: %w", err)
		}
		if !taken {
			return username, nil
		}
		username = fmt.Sprintf("%s%d", base, counter)
	}
}

// GeneratePortalPassword produces a random password with at least one
// uppercase letter, lowercase letter, digit, and special character, so it
// passes the same complexity rules applied to user-chosen passwords.
func GeneratePortalPassword() (string, error) {
	chars := make([]byte, 0, portalPasswordLength)

	for _, set := range []string{upperChars, lowerChars, digitChars, specialChars} {
		c, err := randomChar(set)
		if err != nil {
			return "", err
		}
		chars = append(chars, c)
	}

	all := upperChars + lowerChars + digitChars + specialChars
	for len(chars) < portalPasswordLength {
		c, err := randomChar(all)
		if err != nil {
			return "", err
		}
		chars = append(chars, c)
	}

	if err := shuffle(chars); err != nil {
		return "", err
	}
	return string(chars), nil
}

func randomChar(set string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
	if err != nil {
		return 0, fmt.Errorf("failed to generate random character: %w", err)
	}
	return set[n.Int64()], nil
}

func shuffle(chars []byte) error {
	for i := len(chars) - 1; i > 0; i-- {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return fmt.Errorf("failed to shuffle password: %w", err)
		}
		j := n.Int64()
		chars[i], chars[j] = chars[j], chars[i]
	}
	return nil
}
