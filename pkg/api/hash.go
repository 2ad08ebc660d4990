package api

import (
	"encoding/hex"
	"strconv"

	"github.com/zeebo/blake3"
)

// Digest returns a BLAKE3 hash of the blog's identity and content.
// It changes whenever the content is edited and is used as a download ETag.
func (b Blog) Digest() string {
	h := blake3.New()

	h.Write([]byte(strconv.FormatInt(b.ID, 10)))
	h.Write([]byte{0})

	h.Write([]byte(b.Topic))
	h.Write([]byte{0})

	h.Write([]byte(b.Content))

	return hex.EncodeToString(h.Sum(nil))
}
