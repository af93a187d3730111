package domain

import (
	"fmt"
	"strings"
)

// ResourceKind identifies the kind of entity an engagement targets.
// The set is closed: adding a kind means adding a strategy for it.
type ResourceKind string

const (
	KindUser    ResourceKind = "user"
	KindForum   ResourceKind = "forum"
	KindTopic   ResourceKind = "topic"
	KindComment ResourceKind = "comment"
)

// ResourceKinds lists every kind in a stable order.
func ResourceKinds() []ResourceKind {
	return []ResourceKind{KindUser, KindForum, KindTopic, KindComment}
}

// ParseResourceKind accepts the singular or plural form, case-insensitively
// ("topic", "Topics").
func ParseResourceKind(s string) (ResourceKind, error) {
	k := ResourceKind(strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "s"))
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownResourceKind, s)
	}
	return k, nil
}

// Valid reports whether k is one of the known kinds.
func (k ResourceKind) Valid() bool {
	switch k {
	case KindUser, KindForum, KindTopic, KindComment:
		return true
	}
	return false
}

func (k ResourceKind) String() string { return string(k) }
