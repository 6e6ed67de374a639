package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cofondo-backend/utils"
)

func TestIsWalletLike(t *testing.T) {
	tests := []struct {
		val  string
		want bool
	}{
		{"0x1234567890abcdef1234567890abcdef1234abcd", true},
		{"0x1234567890ABCDEF1234567890ABCDEF1234ABCD", true},
		{"vitalik.eth", true},
		{"my-fund.ETH", true},
		{"0x1234", false},
		{"0x1234567890abcdef1234567890abcdef1234abcg", false}, // non-hex char
		{"1234567890abcdef1234567890abcdef1234abcd", false},   // missing 0x
		{"fund.com", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, utils.IsWalletLike(tt.val), "value=%q", tt.val)
	}
}

func TestChecksumValid(t *testing.T) {
	tests := []struct {
		name string
		addr string
		want bool
	}{
		// EIP-55 reference vectors
		{"checksummed", "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", true},
		{"checksummed 2", "0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359", true},
		{"broken checksum", "0x5Aaeb6053F3E94C9b9A09f33669435E7Ef1BeAed", false},
		{"all lowercase carries no checksum", "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", true},
		{"all uppercase carries no checksum", "0x5AAEB6053F3E94C9B9A09F33669435E7EF1BEAED", true},
		{"ens names pass", "vitalik.eth", true},
		{"not an address", "hello", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, utils.ChecksumValid(tt.addr))
		})
	}
}

func TestDedupeWallets(t *testing.T) {
	t.Run("case duplicates collapse", func(t *testing.T) {
		got := utils.DedupeWallets("0xCreator", []string{"0xAAA", "0xaaa"})
		assert.Equal(t, []string{"0xaaa"}, got)
	})

	t.Run("creator never repeated", func(t *testing.T) {
		got := utils.DedupeWallets("0xCreator", []string{"0xcreator", "0xbbb"})
		assert.Equal(t, []string{"0xbbb"}, got)
	})

	t.Run("blanks dropped", func(t *testing.T) {
		got := utils.DedupeWallets("0xc", []string{"", "  ", "0xaaa"})
		assert.Equal(t, []string{"0xaaa"}, got)
	})

	t.Run("order preserved", func(t *testing.T) {
		got := utils.DedupeWallets("0xc", []string{"0xbbb", "0xaaa", "0xBBB"})
		assert.Equal(t, []string{"0xbbb", "0xaaa"}, got)
	})
}

func TestShortAddress(t *testing.T) {
	assert.Equal(t, "0x1234…abcd", utils.ShortAddress("0x1234567890abcdef1234567890abcdef1234abcd"))
	assert.Equal(t, "vita.eth", utils.ShortAddress("vita.eth"), "short values unchanged")
}

func TestInitials(t *testing.T) {
	assert.Equal(t, "JP", utils.InitialsFromName("Juan Pérez"))
	assert.Equal(t, "SW", utils.InitialsFromName("Sarah Wilson"))
	assert.Equal(t, "M", utils.InitialsFromName("Madonna"))
	assert.Equal(t, "?", utils.InitialsFromName(""))

	assert.Equal(t, "12", utils.InitialsFromAddress("0x1234567890abcdef1234567890abcdef1234abcd"))
	assert.Equal(t, "V", utils.InitialsFromAddress("vitalik.eth"))
	assert.Equal(t, "?", utils.InitialsFromAddress(""))
}
