// Package identity derives a stable display glyph for a username.
package identity

import (
	"crypto/md5"
	"math/big"
)

var emojiList = []string{
	"🙂", "😎", "🤓", "😇", "😂", "😍", "🤡", "😃", "😅", "😎",
	"😜", "🤗", "🤔", "😴", "😱", "😡", "🤠", "😈", "😇", "👻",
}

// IconFor maps a username to a glyph: md5 the name, take the digest as
// an integer, index the emoji table modulo its length. Deterministic;
// collisions between usernames are cosmetic and fine.
func IconFor(username string) string {
	sum := md5.Sum([]byte(username))
	n := new(big.Int).SetBytes(sum[:])
	idx := new(big.Int).Mod(n, big.NewInt(int64(len(emojiList)))).Int64()
	return emojiList[idx]
}
