package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTag(t *testing.T) {
	t.Run("Should resolve names, aliases and codes case-insensitively", func(t *testing.T) {
		cases := map[string]Tag{
			"proper noun":    TagProperNoun,
			"Proper-Noun":    TagProperNoun,
			"PROPN":          TagProperNoun,
			"adj":            TagAdjective,
			"auxiliary_verb": TagAuxiliary,
			"conj":           TagConjunction,
			"inj":            TagInterjection,
			"number":         TagNumeral,
			"x":              TagOther,
			"  verb ":        TagVerb,
		}
		for in, want := range cases {
			got, err := ResolveTag(in)
			require.NoError(t, err, in)
			assert.Equal(t, want, got, in)
		}
	})

	t.Run("Should reject unknown names as a parse error", func(t *testing.T) {
		_, err := ResolveTag("gerund")

		assert.ErrorIs(t, err, ErrUnsupportedTag)
		assert.ErrorIs(t, err, ErrParse)
	})
}

func TestResolveLanguage(t *testing.T) {
	t.Run("Should resolve names, native names and model ids", func(t *testing.T) {
		cases := map[string]Language{
			"English":         English,
			"en_core_web_sm":  English,
			"Deutsch":         German,
			"francaise":       French,
			"it_core_news_sm": Italian,
		}
		for in, want := range cases {
			got, err := ResolveLanguage(in)
			require.NoError(t, err, in)
			assert.Equal(t, want, got, in)
		}
	})

	t.Run("Should reject unknown languages as a parse error", func(t *testing.T) {
		_, err := ResolveLanguage("xx")

		assert.ErrorIs(t, err, ErrUnsupportedLanguage)
		assert.ErrorIs(t, err, ErrParse)
	})
}

func TestNormalizeTag(t *testing.T) {
	t.Run("Should fold legacy codes and map unknown codes to other", func(t *testing.T) {
		assert.Equal(t, TagConjunction, NormalizeTag("CONJ"))
		assert.Equal(t, TagInterjection, NormalizeTag("inj"))
		assert.Equal(t, TagProperNoun, NormalizeTag(" propn "))
		assert.Equal(t, TagOther, NormalizeTag("NNP"))
	})
}

func TestTags(t *testing.T) {
	t.Run("Should hand out a copy of the vocabulary", func(t *testing.T) {
		got := Tags()
		require.Len(t, got, 17)
		assert.Equal(t, TagAdjective, got[0])
		assert.Equal(t, TagOther, got[len(got)-1])

		got[0] = "BOGUS"
		assert.Equal(t, TagAdjective, Tags()[0])
		assert.Equal(t, TagAdjective, NormalizeTag("ADJ"))
	})
}

func TestModelUnavailableError(t *testing.T) {
	t.Run("Should match the sentinel and carry the remediation", func(t *testing.T) {
		err := &ModelUnavailableError{Model: "gemini-1.5-pro", Remediation: "set GEMINI_API_KEY"}

		assert.ErrorIs(t, err, ErrModelUnavailable)
		assert.Contains(t, err.Error(), "gemini-1.5-pro")
		assert.Contains(t, err.Error(), "set GEMINI_API_KEY")
	})
}
