package validate

import (
	"errors"
	"regexp"
	"strings"

	"github.com/vovakirdan/roomrelay-server/internal/moderation"
)

// Rejection reasons. The hub maps these to unicast error events; none of them
// mutate any state.
var (
	ErrNameTooShort = errors.New("display name too short")
	ErrNameTooLong  = errors.New("display name too long")
	ErrChannelEmpty = errors.New("channel name empty")
	ErrBodyEmpty    = errors.New("message empty")
	ErrBodyTooLong  = errors.New("message too long")
	ErrDenylisted   = errors.New("message contains a blocked word")
)

// Limits holds the validation bounds.
type Limits struct {
	NameMin       int
	NameMax       int
	BodyMax       int
	ReplyQuoteMax int
}

// DefaultLimits returns the base policy bounds.
func DefaultLimits() Limits {
	return Limits{
		NameMin:       2,
		NameMax:       20,
		BodyMax:       500,
		ReplyQuoteMax: 100,
	}
}

var (
	channelAllowed = regexp.MustCompile(`[^A-Za-z0-9_-]+`)
	angleBrackets  = strings.NewReplacer("<", "", ">", "")
	emoteToken     = regexp.MustCompile(`:([A-Za-z0-9_]+):`)
)

// Validator normalizes and rejects malformed client input.
type Validator struct {
	limits   Limits
	denylist *moderation.Matcher
}

// New builds a validator. The matcher may be nil when no denylist is configured.
func New(limits Limits, denylist *moderation.Matcher) *Validator {
	return &Validator{limits: limits, denylist: denylist}
}

// DisplayName trims and length-checks the raw name, then strips angle
// brackets against markup injection. The stripped result is final: it is not
// re-validated for length.
func (v *Validator) DisplayName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if len([]rune(name)) < v.limits.NameMin {
		return "", ErrNameTooShort
	}
	if len([]rune(name)) > v.limits.NameMax {
		return "", ErrNameTooLong
	}
	return angleBrackets.Replace(name), nil
}

// ChannelName trims, strips everything outside [A-Za-z0-9_-], and lowercases.
// Two raw inputs that normalize identically are the same channel.
func (v *Validator) ChannelName(raw string) (string, error) {
	name := channelAllowed.ReplaceAllString(strings.TrimSpace(raw), "")
	name = strings.ToLower(name)
	if name == "" {
		return "", ErrChannelEmpty
	}
	return name, nil
}

// MessageBody trims the raw body and rejects empty, oversized, or denylisted
// content.
func (v *Validator) MessageBody(raw string) (string, error) {
	body := strings.TrimSpace(raw)
	if body == "" {
		return "", ErrBodyEmpty
	}
	if len([]rune(body)) > v.limits.BodyMax {
		return "", ErrBodyTooLong
	}
	if v.denylist.Match(body) {
		return "", ErrDenylisted
	}
	return body, nil
}

// ReplyQuote sanitizes a client-supplied quote. Replies are best effort: the
// quote is never matched against stored history, only cleaned and truncated.
func (v *Validator) ReplyQuote(name, body string) (string, string) {
	name = angleBrackets.Replace(strings.TrimSpace(name))
	body = strings.TrimSpace(body)
	if runes := []rune(body); len(runes) > v.limits.ReplyQuoteMax {
		body = string(runes[:v.limits.ReplyQuoteMax])
	}
	return name, body
}

// CountEmoteTokens counts :name: references whose name the catalog knows.
// Unknown tokens do not count toward the embedded-token ceiling.
func CountEmoteTokens(body string, known func(string) bool) int {
	if known == nil {
		return 0
	}
	count := 0
	for _, m := range emoteToken.FindAllStringSubmatch(body, -1) {
		if known(m[1]) {
			count++
		}
	}
	return count
}
