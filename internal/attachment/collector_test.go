package attachment

import (
	"reflect"
	"testing"

	"gorm.io/datatypes"
)

func TestLooksLikeStoredFile(t *testing.T) {
	cases := []struct {
		value string
		want  bool
	}{
		{"/uploads/proofs/abc.png", true},
		{"/uploads/docs/form.PDF", true},
		{"uploads/a.jpeg", true},
		{"", false},
		{"   ", false},
		{"just an answer", false},
		{"noslash.png", false},
		{"/uploads/archive.zip", false},
		{"/uploads/has space.png", false},
		{"https://example.com/logo.png", true},
	}
	for _, tc := range cases {
		if got := LooksLikeStoredFile(tc.value); got != tc.want {
			t.Errorf("LooksLikeStoredFile(%q) = %v, want %v", tc.value, got, tc.want)
		}
	}
}

func TestCollectReferencesDedupesInFirstSeenOrder(t *testing.T) {
	items := []Item{
		{
			UserData:     datatypes.JSON(`{"id_card": "/uploads/docs/a.pdf"}`),
			PaymentProof: "/uploads/proofs/p1.png",
		},
		{
			// same id card uploaded by a second registrant
			UserData:     datatypes.JSON(`{"id_card": "/uploads/docs/a.pdf", "note": "see you there"}`),
			PaymentProof: "/uploads/proofs/p2.png",
		},
	}

	refs := CollectReferences("/uploads/qr/event.png", items)

	want := []string{
		"/uploads/qr/event.png",
		"/uploads/docs/a.pdf",
		"/uploads/proofs/p1.png",
		"/uploads/proofs/p2.png",
	}
	if !reflect.DeepEqual(refs, want) {
		t.Errorf("CollectReferences = %v, want %v", refs, want)
	}
}

func TestCollectReferencesSkipsMalformedPayload(t *testing.T) {
	items := []Item{
		{
			UserData:     datatypes.JSON(`{not json`),
			PaymentProof: "/uploads/proofs/p1.png",
		},
		{
			UserData: datatypes.JSON(`{"files": ["/uploads/docs/a.pdf", "/uploads/docs/b.docx", 42]}`),
		},
	}

	refs := CollectReferences("", items)

	want := []string{
		"/uploads/proofs/p1.png",
		"/uploads/docs/a.pdf",
		"/uploads/docs/b.docx",
	}
	if !reflect.DeepEqual(refs, want) {
		t.Errorf("CollectReferences = %v, want %v", refs, want)
	}
}

func TestCollectReferencesIgnoresPlainAnswers(t *testing.T) {
	items := []Item{
		{
			UserData: datatypes.JSON(`{"full_name": "Asha Rao", "size": "XL", "age": 17}`),
		},
	}

	if refs := CollectReferences("", items); len(refs) != 0 {
		t.Errorf("plain answers should yield no references, got %v", refs)
	}
}
