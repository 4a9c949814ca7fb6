package store

import (
	"crypto/rand"
	"encoding/base32"
	"strings"

	"taskfocus-cli/internal/model"
)

// newRandomID returns prefix-<suffix> where suffix is 8 chars of base32
// (lowercase, no padding). 8 chars base32 ~= 40 bits of space.
func newRandomID(prefix string) string {
	var b [5]byte // 40 bits -> 8 base32 chars
	_, _ = rand.Read(b[:])
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	return prefix + "-" + strings.ToLower(enc.EncodeToString(b[:]))
}

// newPlanItemID mints an id unused within the task's plan.
func newPlanItemID(t *model.Task) string {
	for {
		id := newRandomID("pln")
		if t.FindPlanItem(id) == nil {
			return id
		}
	}
}

// newSessionID mints an id unused within the task's session log.
func newSessionID(t *model.Task) string {
	for {
		id := newRandomID("ses")
		if t.FindSession(id) == nil {
			return id
		}
	}
}
