package transaction

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownKind = errors.New("unknown transaction kind")

// Kind names a transaction operation. The All forms apply the base
// operation to many targets and only change which message keys are used.
type Kind int

const (
	KindAdd Kind = iota + 1
	KindSet
	KindTake
	KindPay
	KindRedeem
	KindAddAll
	KindSetAll
	KindTakeAll
	KindRedeemAll
)

var kindNames = map[Kind]string{
	KindAdd:       "add",
	KindSet:       "set",
	KindTake:      "take",
	KindPay:       "pay",
	KindRedeem:    "redeem",
	KindAddAll:    "add-all",
	KindSetAll:    "set-all",
	KindTakeAll:   "take-all",
	KindRedeemAll: "redeem-all",
}

// ParseKind accepts "add", "take-all", "TAKE_ALL" or "takeall".
func ParseKind(raw string) (Kind, error) {
	name := normalizeKind(raw)

	for k, n := range kindNames {
		if normalizeKind(n) == name {
			return k, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, raw)
}

func normalizeKind(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("-", "", "_", "").Replace(s)
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}

	return fmt.Sprintf("kind(%d)", int(k))
}

func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// Base strips the All form.
func (k Kind) Base() Kind {
	switch k {
	case KindAddAll:
		return KindAdd
	case KindSetAll:
		return KindSet
	case KindTakeAll:
		return KindTake
	case KindRedeemAll:
		return KindRedeem
	default:
		return k
	}
}

// All returns the many-targets form of k. Pay has none.
func (k Kind) All() Kind {
	switch k.Base() {
	case KindAdd:
		return KindAddAll
	case KindSet:
		return KindSetAll
	case KindTake:
		return KindTakeAll
	case KindRedeem:
		return KindRedeemAll
	default:
		return k
	}
}

func (k Kind) IsAll() bool { return k != k.Base() }

func (k Kind) IsRedeem() bool { return k.Base() == KindRedeem }

// notEnoughCredits is the failure reported for an insufficient or
// overflowing balance under this kind.
func (k Kind) notEnoughCredits() FailureReason {
	if k.IsAll() {
		return NotEnoughCreditsOther
	}

	return NotEnoughCredits
}

// userMessageKey is shared between the single and All forms.
func (k Kind) userMessageKey() string {
	return "credits-" + kindNames[k.Base()] + "-user"
}
