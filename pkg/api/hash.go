package api

import (
	"encoding/hex"
	"sort"
	"strconv"
	"strings"

	"github.com/zeebo/blake3"
)

// Hash returns a deterministic BLAKE3 hash of the ticket content.
// Labels are hashed in sorted order, so label order does not matter.
func (t Ticket) Hash() string {
	h := blake3.New()
	writeTicket(h, t)
	return hex.EncodeToString(h.Sum(nil))
}

// HashPage hashes an ordered page of tickets. Order matters: the same
// tickets in a different order produce a different hash.
func HashPage(tickets []Ticket) string {
	h := blake3.New()
	h.Write([]byte(strconv.Itoa(len(tickets))))
	h.Write([]byte{0})
	for _, t := range tickets {
		writeTicket(h, t)
		h.Write([]byte{1})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func writeTicket(h *blake3.Hasher, t Ticket) {
	h.Write([]byte(t.ID))
	h.Write([]byte{0})

	h.Write([]byte(t.Title))
	h.Write([]byte{0})

	h.Write([]byte(t.Content))
	h.Write([]byte{0})

	h.Write([]byte(strconv.FormatInt(t.CreationTime, 10)))
	h.Write([]byte{0})

	h.Write([]byte(strings.ToLower(t.UserEmail)))
	h.Write([]byte{0})

	sorted := append([]string(nil), t.Labels...)
	sort.Strings(sorted)
	for _, l := range sorted {
		h.Write([]byte(l))
		h.Write([]byte{0})
	}
	h.Write([]byte{0}) // end of labels
}
