package recognizers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRecognizersParse(t *testing.T) {
	defaults, err := DefaultRecognizers()
	require.NoError(t, err)
	require.NotEmpty(t, defaults)

	byEntity := make(map[string]RecognizerConfig)
	for _, rc := range defaults {
		byEntity[rc.SupportedEntity] = rc
	}

	for _, entity := range []string{
		"CREDIT_CARD", "IBAN_CODE", "EMAIL_ADDRESS", "IP_ADDRESS",
		"PHONE_NUMBER", "CRYPTO", "DATE_TIME", "URL",
		"MEDICAL_LICENSE", "US_SSN", "NRP",
	} {
		assert.Contains(t, byEntity, entity)
	}

	assert.Equal(t, "luhn", byEntity["CREDIT_CARD"].Validation)
	assert.Equal(t, "iban", byEntity["IBAN_CODE"].Validation)
	assert.NotEmpty(t, byEntity["NRP"].DenyList)
}

func TestDefaultRecognizersCompile(t *testing.T) {
	defaults, err := DefaultRecognizers()
	require.NoError(t, err)

	compiled := Compile(defaults)
	// Every embedded recognizer must compile; a regression here means a
	// default pattern is broken.
	assert.Len(t, compiled, len(defaults))
}

func TestLoadRecognizerFileMissing(t *testing.T) {
	rf, err := LoadRecognizerFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Nil(t, rf)
}

func TestLoadRecognizerFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.yaml")
	content := `recognizers:
  - name: EmployeeIdRecognizer
    supported_entity: EMPLOYEE_ID
    patterns:
      - name: employee_id
        regex: 'EMP-\d{6}'
        score: 0.9
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	rf, err := LoadRecognizerFile(path)
	require.NoError(t, err)
	require.NotNil(t, rf)
	require.Len(t, rf.Recognizers, 1)
	assert.Equal(t, "EmployeeIdRecognizer", rf.Recognizers[0].Name)
	assert.Equal(t, 0.9, rf.Recognizers[0].Patterns[0].Score)
}

func TestParseRecognizerFileInvalid(t *testing.T) {
	_, err := ParseRecognizerFile([]byte("recognizers: [invalid"))
	require.Error(t, err)
}

func TestMergeRecognizersLayering(t *testing.T) {
	defaults := []RecognizerConfig{
		{Name: "A", SupportedEntity: "CREDIT_CARD"},
		{Name: "B", SupportedEntity: "EMAIL_ADDRESS"},
	}
	overrides := []RecognizerConfig{
		{Name: "B", SupportedEntity: "EMAIL_ADDRESS", DenyListScore: 0.9},
		{Name: "C", SupportedEntity: "URL"},
	}

	merged := MergeRecognizers(defaults, overrides)
	require.Len(t, merged, 3)
	assert.Equal(t, "A", merged[0].Name)
	assert.Equal(t, 0.9, merged[1].DenyListScore) // B overridden in place
	assert.Equal(t, "C", merged[2].Name)
}

func TestFilterByEntities(t *testing.T) {
	configs := []RecognizerConfig{
		{Name: "A", SupportedEntity: "CREDIT_CARD"},
		{Name: "B", SupportedEntity: "EMAIL_ADDRESS"},
		{Name: "C", SupportedEntity: "URL"},
	}

	whitelisted := FilterByEntities(configs, []string{"CREDIT_CARD", "URL"}, nil)
	require.Len(t, whitelisted, 2)

	blacklisted := FilterByEntities(configs, nil, []string{"URL"})
	require.Len(t, blacklisted, 2)

	both := FilterByEntities(configs, []string{"CREDIT_CARD", "URL"}, []string{"URL"})
	require.Len(t, both, 1)
	assert.Equal(t, "A", both[0].Name)
}

func TestCompileSkipsDisabledAndBroken(t *testing.T) {
	disabled := false
	configs := []RecognizerConfig{
		{Name: "Off", SupportedEntity: "URL", Enabled: &disabled,
			Patterns: []PatternConfig{{Name: "p", Regex: `x`, Score: 0.5}}},
		{Name: "Broken", SupportedEntity: "URL",
			Patterns: []PatternConfig{{Name: "p", Regex: `([`, Score: 0.5}}},
		{Name: "Ok", SupportedEntity: "URL",
			Patterns: []PatternConfig{{Name: "p", Regex: `https?://\S+`, Score: 0.5}}},
	}

	compiled := Compile(configs)
	require.Len(t, compiled, 1)
	assert.Equal(t, "Ok", compiled[0].Name())
}
