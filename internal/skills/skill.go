// Package skills defines the arithmetic skill catalog and difficulty tiers
// shared by the question generator, mastery policy, and session engine.
package skills

// Skill is an arithmetic operation category a learner practices.
type Skill string

const (
	Addition       Skill = "Addition"
	Subtraction    Skill = "Subtraction"
	Multiplication Skill = "Multiplication"
	Division       Skill = "Division"
)

// All returns the supported skills in display order.
func All() []Skill {
	return []Skill{Addition, Subtraction, Multiplication, Division}
}

// Parse validates a skill name. The name must match exactly; there is no
// case folding because the client sends the canonical names it was given.
func Parse(name string) (Skill, bool) {
	switch Skill(name) {
	case Addition, Subtraction, Multiplication, Division:
		return Skill(name), true
	}
	return "", false
}

// Difficulty is a question difficulty tier. It determines the operand
// ranges the generator draws from.
type Difficulty string

const (
	Easy   Difficulty = "Easy"
	Medium Difficulty = "Medium"
	Hard   Difficulty = "Hard"
)
