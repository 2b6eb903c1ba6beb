package roi

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSignature(t *testing.T) {
	sig, err := ParseSignature("-+*")
	require.NoError(t, err)
	assert.Equal(t, Signature{Inside, Outside, Unconstrained}, sig)
	assert.Equal(t, "-+*", sig.String())

	sig, err = ParseSignature("")
	require.NoError(t, err)
	assert.Len(t, sig, 0)

	_, err = ParseSignature("-x")
	assert.True(t, errors.Is(err, ErrInvalidSign))

	assert.Equal(t, "inside", Inside.String())
	assert.Equal(t, "outside", Outside.String())
	assert.Equal(t, "unconstrained", Unconstrained.String())
}

func TestParseLabels(t *testing.T) {
	labels, err := ParseLabels([]string{"roi2=*-", "roi1 = -*"})
	require.NoError(t, err)
	require.Len(t, labels, 2)
	assert.Equal(t, "roi2", labels[0].Name)
	assert.Equal(t, "roi1", labels[1].Name)
	assert.Equal(t, "-*", labels[1].Signature.String())

	_, err = ParseLabels([]string{"roi1"})
	assert.True(t, errors.Is(err, ErrMalformedLabel))
	_, err = ParseLabels([]string{"=-"})
	assert.True(t, errors.Is(err, ErrEmptyROIName))
	_, err = ParseLabels([]string{"roi1=-?"})
	assert.True(t, errors.Is(err, ErrInvalidSign))

	labels, err = LabelsFromMap(map[string]string{"PSD": "+-", "ER": "-*"})
	require.NoError(t, err)
	assert.Equal(t, "ER", labels[0].Name)
	assert.Equal(t, "PSD", labels[1].Name)
}

func TestValidateLabels(t *testing.T) {
	mustLabels := func(strs ...string) []Label {
		l, err := ParseLabels(strs)
		require.NoError(t, err)
		return l
	}
	tests := []struct {
		name     string
		labels   []Label
		surfaces int
		want     error
	}{
		{"ok", mustLabels("a=-*", "b=*-"), 2, nil},
		{"short", mustLabels("a=-"), 2, ErrSignatureLength},
		{"long", mustLabels("a=-*+"), 2, ErrSignatureLength},
		{"duplicate", mustLabels("a=-*", "a=*-"), 2, ErrDuplicateROI},
		{"no surfaces", mustLabels("a="), 0, ErrNoBoundaries},
		{"no labels", nil, 1, ErrNoLabels},
		{"bad sign", []Label{{Name: "a", Signature: Signature{'x'}}}, 1, ErrInvalidSign},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLabels(tt.labels, tt.surfaces)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}
