// Package crisis gates every outgoing user utterance before it reaches
// the generative provider. Detection is a fixed substring policy over a
// static phrase list; a match short-circuits to the static safety reply
// with emergency numbers.
package crisis

import (
	"bufio"
	"bytes"
	"embed"
	"io/fs"
	"strings"

	"svasthya/errors"
)

//go:embed phrases/*
var phraseFS embed.FS

// PhraseData carries the result of the loading process including metadata
// for logging.
type PhraseData struct {
	Phrases   []string
	Languages []string
}

// LoadPhrases scans the embedded phrases directory, treating each .txt
// file as one language's phrase list, and returns the deduplicated union.
// The shipped policy is the fixed English list; additional language files
// are picked up without code changes.
func LoadPhrases() (*PhraseData, error) {
	entries, err := fs.ReadDir(phraseFS, "phrases")
	if err != nil {
		return nil, err
	}

	var languages []string
	unique := make(map[string]struct{})

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		languages = append(languages, strings.TrimSuffix(entry.Name(), ".txt"))

		data, err := phraseFS.ReadFile("phrases/" + entry.Name())
		if err != nil {
			return nil, err
		}

		// Scanner handles both \n and \r\n endings
		scanner := bufio.NewScanner(bytes.NewReader(data))
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line != "" {
				unique[line] = struct{}{}
			}
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}
	}

	if len(unique) == 0 {
		return nil, errors.ErrEmptyPhrases
	}

	phrases := make([]string, 0, len(unique))
	for p := range unique {
		phrases = append(phrases, p)
	}

	return &PhraseData{Phrases: phrases, Languages: languages}, nil
}
