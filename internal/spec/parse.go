// SPDX-License-Identifier: MPL-2.0

package spec

import (
	"errors"
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/shell"
)

// ErrMalformedSpec is the sentinel error wrapped by MalformedSpecError.
var ErrMalformedSpec = errors.New("malformed derivation spec")

// MalformedSpecError is returned when a spec token cannot be parsed.
// It wraps ErrMalformedSpec for errors.Is() compatibility.
type MalformedSpecError struct {
	Token  string
	Reason string
}

// Error implements the error interface.
func (e *MalformedSpecError) Error() string {
	return fmt.Sprintf("malformed derivation spec %q: %s", e.Token, e.Reason)
}

// Unwrap returns ErrMalformedSpec so callers can use errors.Is for
// programmatic detection.
func (e *MalformedSpecError) Unwrap() error { return ErrMalformedSpec }

// Parse turns one command-line token into a Spec. It is pure string work:
// no filesystem or subprocess access, so every token can be validated before
// any build activity starts.
func Parse(token string) (Spec, error) {
	base, revs, err := splitRevisions(token)
	if err != nil {
		return Spec{}, err
	}
	loc, err := parseBase(token, base)
	if err != nil {
		return Spec{}, err
	}
	return Spec{Raw: token, Base: base, Locator: loc, Revisions: revs}, nil
}

// splitRevisions splits "base@rev1,rev2" at the last '@'. The last one so
// flake refs that legitimately contain '@' (git+ssh URLs) keep working; a
// revision identifier itself never contains '@'.
func splitRevisions(token string) (string, []string, error) {
	idx := strings.LastIndex(token, "@")
	if idx < 0 {
		return token, nil, nil
	}
	base := token[:idx]
	if strings.TrimSpace(base) == "" {
		return "", nil, &MalformedSpecError{Token: token, Reason: "revision list without a base spec"}
	}
	var revs []string
	for _, rev := range strings.Split(token[idx+1:], ",") {
		rev = strings.TrimSpace(rev)
		if rev == "" {
			return "", nil, &MalformedSpecError{Token: token, Reason: "empty revision entry"}
		}
		revs = append(revs, rev)
	}
	return base, revs, nil
}

// parseBase classifies the revision-free part of a token into one of the
// three locator shapes.
func parseBase(token, base string) (Locator, error) {
	switch {
	case strings.TrimSpace(base) == "":
		return nil, &MalformedSpecError{Token: token, Reason: "empty spec"}
	case strings.Contains(base, "#") && !strings.HasPrefix(base, "-"):
		ref, attr, _ := strings.Cut(base, "#")
		if ref == "" {
			ref = "."
		}
		return Flake{Ref: ref, Attr: attr}, nil
	case base == "-f" || strings.HasPrefix(base, "-f "):
		return parseFileFlags(token, base)
	case strings.HasSuffix(base, ".nix") || strings.Contains(base, "/"):
		return File{Path: base}, nil
	default:
		return Attr{Name: base}, nil
	}
}

// parseFileFlags parses the "-f PATH -A ATTR" form. The base is tokenized
// with shell field splitting so quoted paths containing spaces survive.
func parseFileFlags(token, base string) (Locator, error) {
	fields, err := shell.Fields(base, nil)
	if err != nil {
		return nil, &MalformedSpecError{Token: token, Reason: fmt.Sprintf("cannot tokenize file spec: %v", err)}
	}
	if len(fields) < 2 || strings.HasPrefix(fields[1], "-") {
		return nil, &MalformedSpecError{Token: token, Reason: "missing file path after -f"}
	}
	if len(fields) < 3 {
		return nil, &MalformedSpecError{Token: token, Reason: "missing attribute selector (-A) after the file path"}
	}
	if fields[2] != "-A" {
		return nil, &MalformedSpecError{Token: token, Reason: fmt.Sprintf("expected -A after the file path, got %q", fields[2])}
	}
	if len(fields) < 4 {
		return nil, &MalformedSpecError{Token: token, Reason: "missing attribute after -A"}
	}
	if len(fields) > 4 {
		return nil, &MalformedSpecError{Token: token, Reason: fmt.Sprintf("unexpected trailing tokens after the attribute: %s", strings.Join(fields[4:], " "))}
	}
	return File{Path: fields[1], Attr: fields[3]}, nil
}
