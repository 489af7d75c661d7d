package moderation

import (
	"log/slog"
	"testing"
	"testing/fstest"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

const replacementChar = '*'

// TestModerator_Censor
// The dictionary uses specific words to avoid partial collisions (e.g., "he" inside "The")
func TestModerator_Censor(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	dictionary := []string{"badger", "snake", "mushroom"}
	mod, err := NewModerator(dictionary, replacementChar, log)
	req.NoError(err)

	tests := []struct {
		name     string
		input    string
		expected string
		words    []string
	}{
		{
			name:     "Simple word and space preservation",
			input:    "The badger is here",
			expected: "The ****** is here",
			words:    []string{"badger"},
		},
		{
			name:     "Multiple occurrences and preserved spacing",
			input:    "badger badger badger",
			expected: "****** ****** ******",
			words:    []string{"badger", "badger", "badger"},
		},
		{
			name:     "Leet speak and internal punctuation",
			input:    "Look at B.4.d.g.€r !",
			expected: "Look at ********** !",
			words:    []string{"badger"},
		},
		{
			name:     "Uppercase and extreme noise",
			input:    "S-N-A-K-E is a B.A.D.G.E.R",
			expected: "********* is a ***********",
			words:    []string{"snake", "badger"},
		},
		{
			name:     "Accents and special characters (UTF-8)",
			input:    "Un été avec un badger",
			expected: "Un été avec un ******",
			words:    []string{"badger"},
		},
		{
			name:     "Nothing to censor",
			input:    "Chat-Hub is amazing",
			expected: "Chat-Hub is amazing",
			words:    nil,
		},
		{
			name:     "Empty string",
			input:    "",
			expected: "",
			words:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content, words := mod.Censor(tt.input)
			req.Equal(tt.expected, content, "test=%s,", tt.name)
			req.Equal(tt.words, words, "expected=%s,words=%s", tt.expected, words)
		})
	}
}

func TestModerator_CornerCases(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	// Given real noise and not Leet Speak associated
	dictionary := []string{"...", ",,,", "", "badger"}

	mod, err := NewModerator(dictionary, replacementChar, log)
	req.NoError(err)

	// Then the sentence is censored
	content, words := mod.Censor("The badger is safe")
	req.Equal("The ****** is safe", content)
	req.Equal([]string{"badger"}, words)

	// Then real noise is uncensored
	content, words = mod.Censor("Hello ...")
	req.Equal("Hello ...", content)
	req.Nil(words)
}

func TestLoadDictionaries_Embedded(t *testing.T) {
	req := require.New(t)

	dictionaries, err := LoadDictionaries()
	req.NoError(err)
	req.Contains(dictionaries, "en")
	req.Contains(dictionaries, "fr")
	req.Contains(dictionaries, "vi")
	req.Contains(dictionaries.Words(), "idiot")
}

func TestLoadDictionaries_Skips_Empty_Files(t *testing.T) {
	req := require.New(t)
	fsys := fstest.MapFS{
		"censored/en.txt":    {Data: []byte("badger\r\n\r\nsnake\n")},
		"censored/fr.txt":    {Data: []byte("\n  \n")},
		"censored/README.md": {Data: []byte("not a dictionary")},
	}

	dictionaries, err := loadDictionaries(fsys, "censored")
	req.NoError(err)
	req.Equal(Dictionaries{"en": {"badger", "snake"}}, dictionaries)

	_, err = loadDictionaries(fstest.MapFS{"censored/en.txt": {Data: []byte("\n")}}, "censored")
	req.Error(err)
}

func TestLanguageModerator_Censor(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	dictionaries := Dictionaries{
		"en": {"idiot"},
		"fr": {"abruti"},
	}
	moderator, err := NewLanguageModerator(dictionaries, replacementChar, log)
	req.NoError(err)
	req.ElementsMatch([]string{"en", "fr"}, moderator.Languages())

	req.Equal("", moderator.Censor(""))
	req.Equal("Hello, how are you doing today my friend?", moderator.Censor("Hello, how are you doing today my friend?"))
	req.Equal("You are such an *****, I cannot believe what you did yesterday evening",
		moderator.Censor("You are such an idiot, I cannot believe what you did yesterday evening"))
	req.Equal("Tu es vraiment un ******, je ne peux pas croire ce que tu as fait hier soir",
		moderator.Censor("Tu es vraiment un abruti, je ne peux pas croire ce que tu as fait hier soir"))
}
