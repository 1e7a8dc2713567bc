//go:build e2e && unix

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DeckOption configures deck creation
type DeckOption func(*deckOptions)

type deckOptions struct {
	deckConfig string
}

// WithDeckConfig writes a .reel.toml next to the deck
func WithDeckConfig(contents string) DeckOption {
	return func(opts *deckOptions) {
		opts.deckConfig = contents
	}
}

// CreateTestWorkspace creates a temporary directory that doubles as $HOME
func (tf *TUITestFramework) CreateTestWorkspace() (string, error) {
	tmpDir := tf.t.TempDir()
	tf.workspace = tmpDir
	return tmpDir, nil
}

// CreateTestDeck writes a markdown deck with one slide per title
func (tf *TUITestFramework) CreateTestDeck(name string, titles []string, options ...DeckOption) (string, error) {
	if tf.workspace == "" {
		return "", fmt.Errorf("workspace not created")
	}

	opts := &deckOptions{}
	for _, opt := range options {
		opt(opts)
	}

	var b strings.Builder
	for i, title := range titles {
		if i > 0 {
			b.WriteString("\n---\n\n")
		}
		fmt.Fprintf(&b, "# %s\n\nBody of %s.\n", title, strings.ToLower(title))
	}

	dir := filepath.Join(tf.workspace, "decks")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return "", err
	}

	if opts.deckConfig != "" {
		if err := os.WriteFile(filepath.Join(dir, ".reel.toml"), []byte(opts.deckConfig), 0644); err != nil {
			return "", err
		}
	}
	return path, nil
}
