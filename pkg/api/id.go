package api

// idPrefix marks ids assigned on import.
const idPrefix = "tk-"

// DeriveID returns a content-addressed id for a ticket that arrived
// without one: the first 16 hex digits of its BLAKE3 hash, with the id
// field left out. Importing the same dataset twice yields the same ids.
func DeriveID(t Ticket) string {
	t.ID = ""
	return idPrefix + t.Hash()[:16]
}
