package transaction

// FailureReason tags why a transaction, or one of its targets, cannot be
// executed. The zero value means it can.
type FailureReason int

const (
	NoFailure FailureReason = iota
	NotEnoughCredits
	NotEnoughCreditsOther
	McMMOProfileFail
	McMMOSkillCap
	SameUser
)

var failureKeys = map[FailureReason]string{
	NotEnoughCredits:      "not-enough-credits",
	NotEnoughCreditsOther: "not-enough-credits-other",
	McMMOProfileFail:      "mcmmo-profile-fail",
	McMMOSkillCap:         "mcmmo-skill-cap",
	SameUser:              "credits-pay-same-user",
}

func (f FailureReason) Failed() bool { return f != NoFailure }

// Key is the message key presented to the initiating user. It is empty for
// NoFailure.
func (f FailureReason) Key() string { return failureKeys[f] }

func (f FailureReason) String() string {
	if !f.Failed() {
		return "ok"
	}

	return f.Key()
}
