package attachment

import (
	"encoding/json"
	"log"
	"strings"

	"gorm.io/datatypes"
)

// ===========================
// 🧹 Attachment Collector
//
// Walks an event's own file-valued configuration and every registration's
// form payload plus payment proof, and returns the deduplicated list of
// stored-file references for bulk deletion. A malformed payload is skipped
// with a warning, never fatal: cleanup must see every registration.

// Item is one registration's deletable artifacts.
type Item struct {
	UserData     datatypes.JSON
	PaymentProof string
}

var storedFileSuffixes = []string{
	".pdf", ".jpg", ".jpeg", ".png", ".gif", ".webp", ".doc", ".docx", ".xls", ".xlsx",
}

// CollectReferences gathers every stored-file reference for an event and its
// registrations, in first-seen order with duplicates removed.
func CollectReferences(eventQRImage string, items []Item) []string {
	seen := make(map[string]struct{})
	var refs []string

	add := func(candidate string) {
		if !LooksLikeStoredFile(candidate) {
			return
		}
		if _, dup := seen[candidate]; dup {
			return
		}
		seen[candidate] = struct{}{}
		refs = append(refs, candidate)
	}

	add(eventQRImage)

	for _, item := range items {
		if len(item.UserData) > 0 {
			var payload map[string]interface{}
			if err := json.Unmarshal(item.UserData, &payload); err != nil {
				log.Printf("⚠️ Skipping malformed registration payload during cleanup: %v", err)
			} else {
				for _, value := range payload {
					collectValue(value, add)
				}
			}
		}
		add(item.PaymentProof)
	}

	return refs
}

func collectValue(value interface{}, add func(string)) {
	switch v := value.(type) {
	case string:
		add(v)
	case []interface{}:
		for _, elem := range v {
			if s, ok := elem.(string); ok {
				add(s)
			}
		}
	}
}

// LooksLikeStoredFile reports whether a value has the shape of an uploaded
// file reference: a path-like string ending in a known file extension.
func LooksLikeStoredFile(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" || strings.ContainsAny(value, " \n\t") {
		return false
	}
	if !strings.Contains(value, "/") {
		return false
	}
	lower := strings.ToLower(value)
	for _, suffix := range storedFileSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}
