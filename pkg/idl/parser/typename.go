package parser

import (
	"fmt"
	"strings"
	"unicode"

	"idlwrap/pkg/idl/ast"
)

// ParseTypename parses a textual type reference such as
// "gtsam::BetweenFactor<gtsam::Pose3, double>" into a Typename. A leading "::"
// is accepted and ignored.
func ParseTypename(text string) (ast.Typename, error) {
	s := &typenameScanner{src: text}
	tn, err := s.typename()
	if err != nil {
		return ast.Typename{}, err
	}
	s.skipSpace()
	if s.pos != len(s.src) {
		return ast.Typename{}, fmt.Errorf("invalid typename %q: unexpected %q at offset %d", text, s.src[s.pos:], s.pos)
	}
	return tn, nil
}

type typenameScanner struct {
	src string
	pos int
}

func (s *typenameScanner) typename() (ast.Typename, error) {
	s.skipSpace()
	if strings.HasPrefix(s.src[s.pos:], "::") {
		s.pos += 2
	}

	var segments []string
	for {
		ident, err := s.ident()
		if err != nil {
			return ast.Typename{}, err
		}
		segments = append(segments, ident)

		s.skipSpace()
		if !strings.HasPrefix(s.src[s.pos:], "::") {
			break
		}
		s.pos += 2
	}

	tn := ast.Typename{
		Namespaces: segments[:len(segments)-1],
		Name:       segments[len(segments)-1],
	}
	if len(tn.Namespaces) == 0 {
		tn.Namespaces = nil
	}

	s.skipSpace()
	if s.pos < len(s.src) && s.src[s.pos] == '<' {
		s.pos++
		for {
			arg, err := s.typename()
			if err != nil {
				return ast.Typename{}, err
			}
			tn.Instantiations = append(tn.Instantiations, arg)

			s.skipSpace()
			if s.pos >= len(s.src) {
				return ast.Typename{}, fmt.Errorf("invalid typename %q: unterminated template arguments", s.src)
			}
			if s.src[s.pos] == ',' {
				s.pos++
				continue
			}
			if s.src[s.pos] == '>' {
				s.pos++
				break
			}
			return ast.Typename{}, fmt.Errorf("invalid typename %q: unexpected %q at offset %d", s.src, s.src[s.pos], s.pos)
		}
	}

	return tn, nil
}

// ident reads an identifier. Builtin multi-word names ("unsigned int") are
// read as one identifier.
func (s *typenameScanner) ident() (string, error) {
	s.skipSpace()
	start := s.pos
	for s.pos < len(s.src) {
		r := rune(s.src[s.pos])
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			s.pos++
			continue
		}
		break
	}
	if start == s.pos {
		return "", fmt.Errorf("invalid typename %q: expected identifier at offset %d", s.src, start)
	}

	word := s.src[start:s.pos]
	if word == "unsigned" || word == "signed" || word == "long" || word == "short" {
		save := s.pos
		if next, err := s.ident(); err == nil && isBuiltinWord(next) {
			return word + " " + next, nil
		}
		s.pos = save
	}
	return word, nil
}

// isBuiltinWord reports whether w continues a multi-word builtin type name.
func isBuiltinWord(w string) bool {
	first, _, _ := strings.Cut(w, " ")
	switch first {
	case "int", "char", "long", "short", "double":
		return true
	}
	return false
}

func (s *typenameScanner) skipSpace() {
	for s.pos < len(s.src) && (s.src[s.pos] == ' ' || s.src[s.pos] == '\t' || s.src[s.pos] == '\n') {
		s.pos++
	}
}
