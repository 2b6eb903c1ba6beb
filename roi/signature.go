package roi

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrInvalidSign     = errors.New("invalid sign")
	ErrSignatureLength = errors.New("signature length does not match boundary count")
	ErrDuplicateROI    = errors.New("duplicate ROI name")
	ErrEmptyROIName    = errors.New("empty ROI name")
	ErrNoBoundaries    = errors.New("no boundary surfaces")
	ErrNoLabels        = errors.New("no ROI labels")
	ErrMalformedLabel  = errors.New("malformed ROI label, want name=signature")
)

// Sign is the constraint one boundary surface places on an ROI
type Sign byte

const (
	Inside        Sign = '-'
	Outside       Sign = '+'
	Unconstrained Sign = '*'
)

func (s Sign) String() string {
	switch s {
	case Inside:
		return "inside"
	case Outside:
		return "outside"
	case Unconstrained:
		return "unconstrained"
	}
	return fmt.Sprintf("Sign(%q)", byte(s))
}

// Signature holds one sign per boundary surface, in boundary order
type Signature []Sign

// ParseSignature parses a string over the alphabet {-, +, *}
func ParseSignature(str string) (Signature, error) {
	sig := make(Signature, len(str))
	for i := 0; i < len(str); i++ {
		switch s := Sign(str[i]); s {
		case Inside, Outside, Unconstrained:
			sig[i] = s
		default:
			return nil, fmt.Errorf("%w %q at position %d of %q", ErrInvalidSign, str[i], i, str)
		}
	}
	return sig, nil
}

func (sig Signature) String() string {
	b := make([]byte, len(sig))
	for i, s := range sig {
		b[i] = byte(s)
	}
	return string(b)
}

// Label names an ROI and gives its signature
type Label struct {
	Name      string
	Signature Signature
}

// ParseLabel parses "name=signature"
func ParseLabel(str string) (Label, error) {
	name, sig, ok := strings.Cut(str, "=")
	if !ok {
		return Label{}, fmt.Errorf("%w: %q", ErrMalformedLabel, str)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Label{}, fmt.Errorf("%w: %q", ErrEmptyROIName, str)
	}
	s, err := ParseSignature(strings.TrimSpace(sig))
	if err != nil {
		return Label{}, fmt.Errorf("ROI %s: %w", name, err)
	}
	return Label{Name: name, Signature: s}, nil
}

// ParseLabels parses a list of "name=signature" strings, keeping their order
func ParseLabels(strs []string) ([]Label, error) {
	labels := make([]Label, 0, len(strs))
	for _, str := range strs {
		l, err := ParseLabel(str)
		if err != nil {
			return nil, err
		}
		labels = append(labels, l)
	}
	return labels, nil
}

// LabelsFromMap converts a name to signature map. Map order is undefined so
// the labels are sorted by name.
func LabelsFromMap(m map[string]string) ([]Label, error) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	labels := make([]Label, 0, len(names))
	for _, name := range names {
		l, err := ParseLabel(name + "=" + m[name])
		if err != nil {
			return nil, err
		}
		labels = append(labels, l)
	}
	return labels, nil
}

// ValidateLabels checks that names are unique and non-empty and that every
// signature has one sign per boundary surface
func ValidateLabels(labels []Label, surfaceCount int) error {
	if surfaceCount == 0 {
		return ErrNoBoundaries
	}
	if len(labels) == 0 {
		return ErrNoLabels
	}
	seen := make(map[string]bool, len(labels))
	for _, l := range labels {
		if l.Name == "" {
			return ErrEmptyROIName
		}
		if seen[l.Name] {
			return fmt.Errorf("%w: %s", ErrDuplicateROI, l.Name)
		}
		seen[l.Name] = true
		if len(l.Signature) != surfaceCount {
			return fmt.Errorf("ROI %s: %w: signature %q has %d signs, %d boundaries",
				l.Name, ErrSignatureLength, l.Signature, len(l.Signature), surfaceCount)
		}
		for i, s := range l.Signature {
			switch s {
			case Inside, Outside, Unconstrained:
			default:
				return fmt.Errorf("ROI %s: %w %q at position %d", l.Name, ErrInvalidSign, byte(s), i)
			}
		}
	}
	return nil
}
