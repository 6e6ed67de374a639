package utils

import (
	"regexp"
	"strings"

	"golang.org/x/crypto/sha3"
)

var (
	hexAddressRe = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)
	ensNameRe    = regexp.MustCompile(`(?i)^[a-z0-9-]+\.eth$`)
)

// IsWalletLike reports whether the value has the shape of a wallet
// identifier: a 0x-prefixed 40-hex-char address or an ENS name.
func IsWalletLike(val string) bool {
	return hexAddressRe.MatchString(val) || ensNameRe.MatchString(val)
}

// ChecksumValid verifies the EIP-55 checksum of a hex address. All-lowercase
// and all-uppercase addresses carry no checksum and pass; ENS names pass.
func ChecksumValid(addr string) bool {
	if ensNameRe.MatchString(addr) {
		return true
	}
	if !hexAddressRe.MatchString(addr) {
		return false
	}

	body := addr[2:]
	lower := strings.ToLower(body)
	if body == lower || body == strings.ToUpper(body) {
		return true
	}

	hash := sha3.NewLegacyKeccak256()
	hash.Write([]byte(lower))
	sum := hash.Sum(nil)

	for i := 0; i < len(body); i++ {
		ch := body[i]
		if ch >= '0' && ch <= '9' {
			continue
		}
		nibble := sum[i/2]
		if i%2 == 0 {
			nibble >>= 4
		} else {
			nibble &= 0x0f
		}
		if nibble >= 8 {
			if ch < 'A' || ch > 'F' {
				return false
			}
		} else if ch < 'a' || ch > 'f' {
			return false
		}
	}
	return true
}

// NormalizeWallet lowercases an address so lookups and membership checks are
// case-insensitive everywhere.
func NormalizeWallet(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}

// ShortAddress renders 0x1234567890…abcd style labels for display names.
func ShortAddress(addr string) string {
	const left, right = 6, 4
	if len(addr) <= left+right {
		return addr
	}
	return addr[:left] + "…" + addr[len(addr)-right:]
}

func InitialsFromName(name string) string {
	parts := strings.Fields(name)
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(strings.ToUpper(p[:1]))
		if b.Len() >= 2 {
			break
		}
	}
	if b.Len() == 0 {
		return "?"
	}
	return b.String()
}

func InitialsFromAddress(addr string) string {
	if strings.HasPrefix(addr, "0x") && len(addr) >= 4 {
		return strings.ToUpper(addr[2:4])
	}
	if addr == "" {
		return "?"
	}
	return strings.ToUpper(addr[:1])
}

// DedupeWallets normalizes, drops blanks and case-duplicates, and removes
// the creator (who is always added separately, exactly once).
func DedupeWallets(creator string, wallets []string) []string {
	creator = NormalizeWallet(creator)
	seen := map[string]bool{creator: true}

	var unique []string
	for _, w := range wallets {
		w = NormalizeWallet(w)
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true
		unique = append(unique, w)
	}
	return unique
}
