// Package questions provides the trivia content that gates encounters:
// question banks, a draw-without-replacement pool and answer checking.
package questions

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed banks/*.yaml
var banksFS embed.FS

// ErrUnknownBank is returned when no embedded bank has the requested name.
var ErrUnknownBank = errors.New("questions: unknown bank")

// Question is a single prompt with its expected answer.
// Choices are optional; when present the player may also answer with the choice number.
type Question struct {
	Prompt  string   `yaml:"prompt"`
	Answer  string   `yaml:"answer"`
	Choices []string `yaml:"choices,omitempty"`
}

// Fallback is used when a pool has nothing to offer, so an encounter can still resolve.
var Fallback = Question{
	Prompt: "Type 'bug' to squash it:",
	Answer: "bug",
}

type bankFile struct {
	Name      string     `yaml:"name"`
	Questions []Question `yaml:"questions"`
}

// Banks returns the names of all embedded banks, sorted.
func Banks() []string {
	entries, err := banksFS.ReadDir("banks")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), path.Ext(e.Name())))
	}
	sort.Strings(names)
	return names
}

// LoadBank returns the questions of an embedded bank.
func LoadBank(name string) ([]Question, error) {
	data, err := banksFS.ReadFile(path.Join("banks", name+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBank, name)
	}
	return parse(data, name)
}

// LoadFile reads a bank from disk, for content kept outside the binary.
func LoadFile(filename string) ([]Question, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("questions: failed to read %s: %w", filename, err)
	}
	return parse(data, filename)
}

func parse(data []byte, source string) ([]Question, error) {
	var f bankFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("questions: failed to parse %s: %w", source, err)
	}
	out := f.Questions[:0]
	for _, q := range f.Questions {
		if strings.TrimSpace(q.Prompt) == "" || strings.TrimSpace(q.Answer) == "" {
			continue
		}
		out = append(out, q)
	}
	return out, nil
}

// Normalize trims and lowercases an answer for comparison.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Check reports whether input answers q.
func Check(q Question, input string) bool {
	got := Normalize(input)
	if got == "" {
		return false
	}
	if got == Normalize(q.Answer) {
		return true
	}
	if len(q.Choices) == 0 {
		return false
	}
	n, err := strconv.Atoi(got)
	if err != nil || n < 1 || n > len(q.Choices) {
		return false
	}
	return Normalize(q.Choices[n-1]) == Normalize(q.Answer)
}
