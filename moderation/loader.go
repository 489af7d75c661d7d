package moderation

import (
	"bufio"
	"bytes"
	"chat-hub/errors"
	"embed"
	"io/fs"
	"path"
	"strings"
)

//go:embed censored/*.txt
var censoredFolder embed.FS

// Dictionaries maps an ISO 639-1 language code to its censored words.
type Dictionaries map[string][]string

// Words returns the union of every dictionary, without duplicates.
func (d Dictionaries) Words() []string {
	unique := make(map[string]struct{})
	var words []string
	for _, list := range d {
		for _, w := range list {
			if _, ok := unique[w]; !ok {
				unique[w] = struct{}{}
				words = append(words, w)
			}
		}
	}
	return words
}

// LoadDictionaries reads the embedded word lists, one file per language ("fr.txt" -> "fr").
func LoadDictionaries() (Dictionaries, error) {
	return loadDictionaries(censoredFolder, "censored")
}

func loadDictionaries(fsys fs.FS, dir string) (Dictionaries, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}

	dictionaries := make(Dictionaries)
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".txt" {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}

		// ⚠️Don't use strings.Split, files may come with \r\n
		var words []string
		scanner := bufio.NewScanner(bytes.NewReader(data))
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				words = append(words, line)
			}
		}
		if err = scanner.Err(); err != nil {
			return nil, err
		}
		if len(words) > 0 {
			dictionaries[strings.TrimSuffix(entry.Name(), ".txt")] = words
		}
	}

	if len(dictionaries) == 0 {
		return nil, errors.ErrEmptyWords
	}
	return dictionaries, nil
}
