// Package spellcheck checks rendered pages for unknown words.
//
// Documentation packages ship the words their pages legitimately use in a
// known_words.txt file. The integration collects those files from the merged
// file set and removes them so they are not published.
package spellcheck

import (
	"bufio"
	"bytes"
	"log/slog"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"git.home.luguber.info/inful/partialdocs/internal/document"
	"git.home.luguber.info/inful/partialdocs/internal/errors"
	"git.home.luguber.info/inful/partialdocs/internal/integration"
	"git.home.luguber.info/inful/partialdocs/internal/logfields"
)

const (
	// Name is the integration name.
	Name = "spellcheck"
	// KnownWordsFile is the per-package word list file name.
	KnownWordsFile = "known_words.txt"

	metaSpellcheck = "spellcheck"
	metaGenerated  = "generated"
)

// Dictionary reports whether a lower-cased word is spelled correctly.
type Dictionary interface {
	Contains(word string) bool
}

// WordSet is an in-memory Dictionary.
type WordSet map[string]struct{}

func (s WordSet) Contains(word string) bool {
	_, ok := s[strings.ToLower(word)]
	return ok
}

// Add inserts every non-empty line of text.
func (s WordSet) Add(words ...string) {
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			s[w] = struct{}{}
		}
	}
}

// LoadWordList reads a newline separated word list such as /usr/share/dict/words.
func LoadWordList(file string) (WordSet, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound("word list", file)
		}
		return nil, errors.IO("read word list", file, err)
	}
	set := WordSet{}
	set.Add(splitLines(data)...)
	return set, nil
}

// Options configure the checker.
type Options struct {
	Dictionary Dictionary
	// MinLength is the shortest word checked. Defaults to 2.
	MinLength int
	// CheckCode includes code, pre, kbd and samp elements.
	CheckCode bool
}

// Integration implements integration.WantsKnownWords, FileSetHook and PageFilter.
type Integration struct {
	dict      Dictionary
	minLength int
	skipCode  bool
	logger    *slog.Logger

	mu    sync.RWMutex
	known WordSet
}

var (
	_ integration.WantsKnownWords = (*Integration)(nil)
	_ integration.FileSetHook     = (*Integration)(nil)
	_ integration.PageFilter      = (*Integration)(nil)
)

// New creates the integration. A nil Dictionary accepts only known words.
func New(opts Options, logger *slog.Logger) *Integration {
	if logger == nil {
		logger = slog.Default()
	}
	minLength := opts.MinLength
	if minLength <= 0 {
		minLength = 2
	}
	dict := opts.Dictionary
	if dict == nil {
		dict = WordSet{}
	}
	return &Integration{
		dict:      dict,
		minLength: minLength,
		skipCode:  !opts.CheckCode,
		logger:    logger,
		known:     WordSet{},
	}
}

func (s *Integration) Name() string { return Name }

// WantsKnownWords asks the overlay to ship known words files.
func (s *Integration) WantsKnownWords() bool { return true }

// AfterOverlay moves every known words file out of the file set into the
// known word list.
func (s *Integration) AfterOverlay(files integration.Files) error {
	for _, p := range files.Paths() {
		if path.Base(p) != KnownWordsFile {
			continue
		}
		data, ok := files.Data(p)
		if !ok {
			continue
		}
		words := splitLines(data)
		s.AddKnownWords(words...)
		files.Remove(p)
		s.logger.Debug("Collected known words", logfields.Path(p), logfields.Count(len(words)))
	}
	return nil
}

// AddKnownWords extends the known word list.
func (s *Integration) AddKnownWords(words ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.known.Add(words...)
}

// ResetKnownWords forgets collected words. Called before each rebuild.
func (s *Integration) ResetKnownWords() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.known = WordSet{}
}

// Skip excludes pages opting out with "spellcheck: false" and generated pages.
func (s *Integration) Skip(_ string, doc *document.Document) bool {
	if doc == nil {
		return false
	}
	if enabled, ok := doc.Bool(metaSpellcheck); ok && !enabled {
		return true
	}
	generated, ok := doc.Bool(metaGenerated)
	return ok && generated
}

// Misspelling is an unknown word found on a page.
type Misspelling struct {
	Page  string `json:"page"`
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Check reports the unknown words of a page's rendered HTML, sorted by word.
func (s *Integration) Check(page string, html []byte) ([]Misspelling, error) {
	words, err := extractWords(html, s.skipCode)
	if err != nil {
		return nil, errors.Parse(page, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int)
	for _, w := range words {
		if len([]rune(w)) < s.minLength || !checkable(w) {
			continue
		}
		lower := strings.ToLower(w)
		if s.known.Contains(lower) || s.dict.Contains(lower) {
			continue
		}
		counts[lower]++
	}

	out := make([]Misspelling, 0, len(counts))
	for w, n := range counts {
		out = append(out, Misspelling{Page: page, Word: w, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Word < out[j].Word })
	return out, nil
}

func splitLines(data []byte) []string {
	var out []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			out = append(out, line)
		}
	}
	return out
}
