package skills

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownSkill = errors.New("unknown skill")
	ErrChildSkill   = errors.New("child skills cannot be redeemed")
)

// Skill names a primary skill of the external progression system.
type Skill string

const (
	Acrobatics  Skill = "ACROBATICS"
	Alchemy     Skill = "ALCHEMY"
	Archery     Skill = "ARCHERY"
	Axes        Skill = "AXES"
	Crossbows   Skill = "CROSSBOWS"
	Excavation  Skill = "EXCAVATION"
	Fishing     Skill = "FISHING"
	Herbalism   Skill = "HERBALISM"
	Maces       Skill = "MACES"
	Mining      Skill = "MINING"
	Repair      Skill = "REPAIR"
	Swords      Skill = "SWORDS"
	Taming      Skill = "TAMING"
	Tridents    Skill = "TRIDENTS"
	Unarmed     Skill = "UNARMED"
	Woodcutting Skill = "WOODCUTTING"

	// Child skills level through their parents and are never redeemable.
	Salvage  Skill = "SALVAGE"
	Smelting Skill = "SMELTING"
)

var redeemable = []Skill{
	Acrobatics, Alchemy, Archery, Axes, Crossbows, Excavation, Fishing, Herbalism,
	Maces, Mining, Repair, Swords, Taming, Tridents, Unarmed, Woodcutting,
}

// All returns the redeemable (non-child) skills.
func All() []Skill {
	out := make([]Skill, len(redeemable))
	copy(out, redeemable)

	return out
}

// Parse resolves a case-insensitive skill name, rejecting child skills.
func Parse(raw string) (Skill, error) {
	s := Skill(strings.ToUpper(strings.TrimSpace(raw)))

	switch s {
	case Salvage, Smelting:
		return "", fmt.Errorf("%w: %s", ErrChildSkill, raw)
	}

	for _, known := range redeemable {
		if s == known {
			return s, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownSkill, raw)
}

func (s Skill) String() string { return strings.ToLower(string(s)) }
