package correios

import (
	"fmt"
	"strings"
)

// QueryType selects how the service interprets the objetos field.
type QueryType int

const (
	// QueryList treats objetos as a list of tracking codes.
	QueryList QueryType = iota
)

// Token returns the wire value sent in the tipo element.
// Unknown values fall back to "L".
func (t QueryType) Token() string {
	switch t {
	case QueryList:
		return "L"
	default:
		return "L"
	}
}

func (t QueryType) String() string {
	switch t {
	case QueryList:
		return "list"
	default:
		return fmt.Sprintf("QueryType(%d)", int(t))
	}
}

// ResultScope selects which events the service returns per object.
type ResultScope int

const (
	// ScopeAll returns every event.
	ScopeAll ResultScope = iota
	// ScopeLast returns only the most recent event.
	ScopeLast
	// ScopeFirst returns only the first event.
	ScopeFirst
)

// Token returns the wire value sent in the resultado element.
// Unknown values fall back to "T".
func (s ResultScope) Token() string {
	switch s {
	case ScopeAll:
		return "T"
	case ScopeLast:
		return "U"
	case ScopeFirst:
		return "P"
	default:
		return "T"
	}
}

func (s ResultScope) String() string {
	switch s {
	case ScopeAll:
		return "all"
	case ScopeLast:
		return "last"
	case ScopeFirst:
		return "first"
	default:
		return fmt.Sprintf("ResultScope(%d)", int(s))
	}
}

// Language selects the language of event descriptions.
type Language int

const (
	LanguagePortuguese Language = iota
	LanguageEnglish
	LanguageSpanish
)

// Token returns the wire value sent in the lingua element.
// Unknown values fall back to "101".
func (l Language) Token() string {
	switch l {
	case LanguagePortuguese:
		return "101"
	case LanguageEnglish:
		return "102"
	case LanguageSpanish:
		return "103"
	default:
		return "101"
	}
}

func (l Language) String() string {
	switch l {
	case LanguagePortuguese:
		return "pt"
	case LanguageEnglish:
		return "en"
	case LanguageSpanish:
		return "es"
	default:
		return fmt.Sprintf("Language(%d)", int(l))
	}
}

// ParseResultScope parses "all", "last", "first" or a raw token.
func ParseResultScope(s string) (ResultScope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "all", "t":
		return ScopeAll, nil
	case "last", "u":
		return ScopeLast, nil
	case "first", "p":
		return ScopeFirst, nil
	default:
		return ScopeAll, fmt.Errorf("unknown result scope %q", s)
	}
}

// ParseLanguage parses "pt", "en", "es" or a raw token.
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pt", "pt-br", "portuguese", "101":
		return LanguagePortuguese, nil
	case "en", "english", "102":
		return LanguageEnglish, nil
	case "es", "spanish", "103":
		return LanguageSpanish, nil
	default:
		return LanguagePortuguese, fmt.Errorf("unknown language %q", s)
	}
}

// Credentials are the service account the requests are sent with.
type Credentials struct {
	Username string
	Password string
}

// QueryParameters are the per-client query options.
type QueryParameters struct {
	Type     QueryType
	Scope    ResultScope
	Language Language
}

// DefaultQueryParameters returns {List, All, Portuguese}.
func DefaultQueryParameters() QueryParameters {
	return QueryParameters{
		Type:     QueryList,
		Scope:    ScopeAll,
		Language: LanguagePortuguese,
	}
}
