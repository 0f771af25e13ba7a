// Package logicalid generates and validates the human-readable node
// identifiers used inside variable templates ("form1", "agent2").
//
// All functions are pure over the supplied node snapshot; uniqueness is
// evaluated over the whole graph, not per type.
package logicalid

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/canvasflow/canvasflow/pkg/models"
)

// Validation failures. The mutation that would have caused one is never
// applied; callers surface the reason string inline.
var (
	// ErrEmptyID indicates a logical id that is blank after trimming.
	ErrEmptyID = errors.New("logical id cannot be empty")

	// ErrInvalidFormat indicates a logical id that is not letters followed by digits.
	ErrInvalidFormat = errors.New("logical id must be letters followed by a number")

	// ErrDuplicateID indicates a logical id already used by another node.
	ErrDuplicateID = errors.New("logical id is already in use")
)

var idPattern = regexp.MustCompile(`^[A-Za-z]+[0-9]+$`)

// Generate returns the next free default logical id for a node type:
// the type's prefix followed by one more than the highest numeric suffix
// already used under that prefix. Malformed suffixes are ignored.
func Generate(nodeType models.NodeType, existing []*models.Node) string {
	prefix := nodeType.LogicalPrefix()

	return prefix + strconv.Itoa(maxSuffix(prefix, existing)+1)
}

// IsValidFormat reports whether id matches letters-then-digits with at least
// one digit.
func IsValidFormat(id string) bool {
	return idPattern.MatchString(id)
}

// IsUnique reports whether no node other than the excluded one already uses
// id. Pass an empty excludeSystemID to check against every node.
func IsUnique(id string, existing []*models.Node, excludeSystemID string) bool {
	for _, node := range existing {
		if node.SystemID == excludeSystemID {
			continue
		}

		if node.LogicalID == id {
			return false
		}
	}

	return true
}

// Validate checks id for emptiness, format, and graph-wide uniqueness, in
// that order. The returned error wraps one of the package sentinels.
//
// The id is validated exactly as given: surrounding whitespace fails the
// format check rather than being silently stripped, so the string a caller
// validates is the string it may store.
func Validate(id string, existing []*models.Node, excludeSystemID string) error {
	if strings.TrimSpace(id) == "" {
		return ErrEmptyID
	}

	if !IsValidFormat(id) {
		return fmt.Errorf("%q: %w", id, ErrInvalidFormat)
	}

	if !IsUnique(id, existing, excludeSystemID) {
		return fmt.Errorf("%q: %w", id, ErrDuplicateID)
	}

	return nil
}

// Suggest builds a best-effort valid logical id from free-form user input:
// non-letters are stripped to form the prefix (falling back to the type's
// canonical prefix), then the smallest unused positive suffix is appended.
func Suggest(nodeType models.NodeType, userInput string, existing []*models.Node) string {
	prefix := stripNonLetters(userInput)
	if prefix == "" {
		prefix = nodeType.LogicalPrefix()
	}

	for n := 1; ; n++ {
		candidate := prefix + strconv.Itoa(n)
		if IsUnique(candidate, existing, "") {
			return candidate
		}
	}
}

func maxSuffix(prefix string, existing []*models.Node) int {
	highest := 0

	for _, node := range existing {
		rest, ok := strings.CutPrefix(node.LogicalID, prefix)
		if !ok || rest == "" {
			continue
		}

		n, err := strconv.Atoi(rest)
		if err != nil {
			continue
		}

		if n > highest {
			highest = n
		}
	}

	return highest
}

func stripNonLetters(s string) string {
	var b strings.Builder

	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			b.WriteRune(r)
		}
	}

	return b.String()
}
