// Package problemgen produces arithmetic questions from randomized
// templates. Operand ranges are fixed per skill and difficulty tier.
package problemgen

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/abhisek/mathdrill/internal/skills"
)

// Question is a generated math question ready for display.
type Question struct {
	// Text is the prompt shown to the learner, e.g. "12 + 7 = ?".
	Text string

	// Answer is the canonical correct answer.
	Answer int
}

// Generator produces a question for a (skill, difficulty) pair.
type Generator interface {
	Generate(skill skills.Skill, difficulty skills.Difficulty) Question
}

// TemplateGenerator draws operands uniformly from per-tier ranges. Safe
// for concurrent use; sessions share one rng.
type TemplateGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewTemplateGenerator creates a generator seeded from the clock.
func NewTemplateGenerator() *TemplateGenerator {
	now := uint64(time.Now().UnixNano())
	return &TemplateGenerator{rng: rand.New(rand.NewPCG(now, now>>32))}
}

// NewSeededGenerator creates a generator with a fixed seed, for tests.
func NewSeededGenerator(seed uint64) *TemplateGenerator {
	return &TemplateGenerator{rng: rand.New(rand.NewPCG(seed, seed))}
}

var _ Generator = (*TemplateGenerator)(nil)

// Generate builds a question. Division questions are constructed as
// (a*b) ÷ b so the answer is always a whole number.
func (g *TemplateGenerator) Generate(skill skills.Skill, difficulty skills.Difficulty) Question {
	switch skill {
	case skills.Addition:
		a, b := g.operands(difficulty, span{1, 10}, span{10, 50}, span{50, 200})
		return Question{Text: fmt.Sprintf("%d + %d = ?", a, b), Answer: a + b}

	case skills.Subtraction:
		var a, b int
		switch difficulty {
		case skills.Easy:
			a, b = g.between(5, 15), g.between(1, 10)
		case skills.Medium:
			a, b = g.between(20, 100), g.between(10, 50)
		default:
			a, b = g.between(100, 500), g.between(50, 300)
		}
		return Question{Text: fmt.Sprintf("%d - %d = ?", a, b), Answer: a - b}

	case skills.Multiplication:
		a, b := g.operands(difficulty, span{1, 5}, span{6, 12}, span{13, 20})
		return Question{Text: fmt.Sprintf("%d × %d = ?", a, b), Answer: a * b}

	case skills.Division:
		var a, b int
		switch difficulty {
		case skills.Easy:
			a, b = g.between(1, 5), g.between(1, 5)
		case skills.Medium:
			a, b = g.between(6, 20), g.between(1, 5)
		default:
			a, b = g.between(21, 50), g.between(6, 10)
		}
		return Question{Text: fmt.Sprintf("%d ÷ %d = ?", a*b, b), Answer: a}
	}

	// Unreachable for validated skills; return a trivial question rather
	// than panic inside a request handler.
	return Question{Text: "1 + 1 = ?", Answer: 2}
}

type span struct{ lo, hi int }

// operands draws both operands from the tier's range for the symmetric
// skills (addition, multiplication).
func (g *TemplateGenerator) operands(d skills.Difficulty, easy, medium, hard span) (int, int) {
	s := easy
	switch d {
	case skills.Medium:
		s = medium
	case skills.Hard:
		s = hard
	}
	return g.between(s.lo, s.hi), g.between(s.lo, s.hi)
}

// between returns a uniform integer in [lo, hi].
func (g *TemplateGenerator) between(lo, hi int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return lo + g.rng.IntN(hi-lo+1)
}
