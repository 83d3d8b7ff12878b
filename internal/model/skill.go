package model

// Skill is the name of a combatant skill as reported by the hiscores.
type Skill string

const (
	SkillAttack    Skill = "Attack"
	SkillDefence   Skill = "Defence"
	SkillStrength  Skill = "Strength"
	SkillHitpoints Skill = "Hitpoints"
	SkillRanged    Skill = "Ranged"
	SkillPrayer    Skill = "Prayer"
	SkillMagic     Skill = "Magic"
	SkillSlayer    Skill = "Slayer"
)

// HiscoreSkillOrder is the row order of the hiscores CSV.
var HiscoreSkillOrder = []Skill{
	"Overall", SkillAttack, SkillDefence, SkillStrength, SkillHitpoints, SkillRanged,
	SkillPrayer, SkillMagic, "Cooking", "Woodcutting", "Fletching", "Fishing",
	"Firemaking", "Crafting", "Smithing", "Mining", "Herblore", "Agility",
	"Thieving", SkillSlayer, "Farming", "Runecraft", "Hunter", "Construction",
}

// Buff is an active prayer, potion or task flag.
type Buff uint8

const (
	BuffPiety Buff = 1 << iota
	BuffRigour
	BuffSuperCombat
	BuffRanging
	BuffOnTask
	BuffKandarinHard // hard Kandarin diary: enchanted bolt procs ×1.1
)

// String returns the buff name used in config files and reports.
func (b Buff) String() string {
	switch b {
	case BuffPiety:
		return "piety"
	case BuffRigour:
		return "rigour"
	case BuffSuperCombat:
		return "super_combat"
	case BuffRanging:
		return "ranging"
	case BuffOnTask:
		return "on_task"
	case BuffKandarinHard:
		return "kandarin_hard"
	default:
		return "unknown"
	}
}

// ParseBuff returns the buff for its config name.
func ParseBuff(name string) (Buff, bool) {
	for _, b := range []Buff{BuffPiety, BuffRigour, BuffSuperCombat, BuffRanging, BuffOnTask, BuffKandarinHard} {
		if b.String() == name {
			return b, true
		}
	}
	return 0, false
}
