package recognizers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecognizer struct {
	name     string
	language string
	entities []string
}

func (f *fakeRecognizer) Name() string                { return f.name }
func (f *fakeRecognizer) SupportedEntities() []string { return f.entities }
func (f *fakeRecognizer) SupportedLanguage() string   { return f.language }
func (f *fakeRecognizer) Analyze(context.Context, string, []string) ([]Finding, error) {
	return nil, nil
}

func TestRegistryRegisterDeduplicates(t *testing.T) {
	reg := NewRegistry()
	rec := &fakeRecognizer{name: "A", language: "en", entities: []string{"CREDIT_CARD"}}

	reg.Register(rec)
	reg.Register(rec)
	reg.Register(nil)

	assert.Equal(t, 1, reg.Len())
}

func TestRegistryLookupByLanguage(t *testing.T) {
	reg := NewRegistry()
	en := &fakeRecognizer{name: "EN", language: "en", entities: []string{"CREDIT_CARD"}}
	de := &fakeRecognizer{name: "DE", language: "de", entities: []string{"CREDIT_CARD"}}
	reg.Register(en)
	reg.Register(de)

	got := reg.Lookup("en", nil)
	require.Len(t, got, 1)
	assert.Equal(t, "EN", got[0].Name())
}

func TestRegistryLookupByEntity(t *testing.T) {
	reg := NewRegistry()
	card := &fakeRecognizer{name: "Card", language: "en", entities: []string{"CREDIT_CARD"}}
	email := &fakeRecognizer{name: "Email", language: "en", entities: []string{"EMAIL_ADDRESS"}}
	stat := &fakeRecognizer{name: "Stat", language: "en", entities: []string{"PERSON", "LOCATION"}}
	reg.Register(card)
	reg.Register(email)
	reg.Register(stat)

	got := reg.Lookup("en", []string{"CREDIT_CARD", "PERSON"})
	require.Len(t, got, 2)
	assert.Equal(t, "Card", got[0].Name())
	assert.Equal(t, "Stat", got[1].Name())

	assert.Empty(t, reg.Lookup("en", []string{"US_SSN"}))
}

func TestRegistryLookupPreservesRegistrationOrder(t *testing.T) {
	reg := NewRegistry()
	names := []string{"C", "A", "B"}
	for _, n := range names {
		reg.Register(&fakeRecognizer{name: n, language: "en", entities: []string{"URL"}})
	}

	got := reg.Lookup("en", nil)
	require.Len(t, got, 3)
	for i, n := range names {
		assert.Equal(t, n, got[i].Name())
	}
}

func TestRegistryAllReturnsCopy(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&fakeRecognizer{name: "A", language: "en", entities: []string{"URL"}})

	all := reg.All()
	all[0] = nil
	assert.NotNil(t, reg.All()[0])
}
