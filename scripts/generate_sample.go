package main

import (
	"encoding/json"
	"fmt"
	mrand "math/rand"
	"os"
	"time"
)

type Ticket struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Content      string   `json:"content"`
	CreationTime int64    `json:"creationTime"`
	UserEmail    string   `json:"userEmail"`
	Labels       []string `json:"labels,omitempty"`
}

var (
	subjects = []string{"Login", "Billing", "Export", "Search", "Dashboard", "Notifications", "Profile", "Upload"}
	problems = []string{"fails intermittently", "is slow", "shows wrong data", "crashes on submit", "times out", "is missing translations"}
	labels   = []string{"Bug", "Urgent", "Billing", "UI", "Backend", "Question", "Feature", "Ops"}
	users    = []string{"alice", "bob", "carol", "dave", "erin", "frank", "grace", "heidi", "ivan", "judy"}
	domains  = []string{"example.com", "acme.io", "corp.net"}
)

func main() {
	// Deterministic seed for reproducible output
	mr := mrand.New(mrand.NewSource(42))

	const total = 500
	out := make([]Ticket, 0, total)
	base := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < total; i++ {
		subject := subjects[mr.Intn(len(subjects))]
		problem := problems[mr.Intn(len(problems))]
		user := users[mr.Intn(len(users))]
		domain := domains[i%len(domains)]

		// 0-3 unique labels
		chosen := sample(mr, labels, mr.Intn(4))

		// Spread creation times over roughly a year
		created := base.Add(time.Duration(17*i+mr.Intn(17)) * time.Hour)

		out = append(out, Ticket{
			ID:           fmt.Sprintf("t-%04d", i+1),
			Title:        fmt.Sprintf("%s %s", subject, problem),
			Content:      fmt.Sprintf("%s %s since the last release.\n\nSteps:\n1. Open %s\n2. Retry the action\n", subject, problem, subject),
			CreationTime: created.UnixMilli(),
			UserEmail:    fmt.Sprintf("%s@%s", user, domain),
			Labels:       chosen,
		})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		panic(err)
	}
}

func sample(r *mrand.Rand, pool []string, k int) []string {
	if k <= 0 {
		return nil
	}
	if k >= len(pool) {
		k = len(pool)
	}
	idx := r.Perm(len(pool))[:k]
	out := make([]string, k)
	for i, j := range idx {
		out[i] = pool[j]
	}
	return out
}
