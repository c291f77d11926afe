package problemgen

import (
	"fmt"
	"testing"

	"github.com/abhisek/mathdrill/internal/skills"
)

func TestGenerate_AnswerMatchesText(t *testing.T) {
	g := NewSeededGenerator(42)

	for _, skill := range skills.All() {
		for _, diff := range []skills.Difficulty{skills.Easy, skills.Medium, skills.Hard} {
			t.Run(fmt.Sprintf("%s/%s", skill, diff), func(t *testing.T) {
				for range 200 {
					q := g.Generate(skill, diff)

					var a, b int
					var op string
					if _, err := fmt.Sscanf(q.Text, "%d %s %d = ?", &a, &op, &b); err != nil {
						t.Fatalf("unparseable question %q: %v", q.Text, err)
					}

					var want int
					switch op {
					case "+":
						want = a + b
					case "-":
						want = a - b
					case "×":
						want = a * b
					case "÷":
						if b == 0 || a%b != 0 {
							t.Fatalf("division question %q is not whole", q.Text)
						}
						want = a / b
					default:
						t.Fatalf("unexpected operator %q in %q", op, q.Text)
					}

					if q.Answer != want {
						t.Fatalf("question %q has answer %d, want %d", q.Text, q.Answer, want)
					}
				}
			})
		}
	}
}

func TestGenerate_OperandRanges(t *testing.T) {
	g := NewSeededGenerator(7)

	tests := []struct {
		skill      skills.Skill
		difficulty skills.Difficulty
		minAnswer  int
		maxAnswer  int
	}{
		{skills.Addition, skills.Easy, 2, 20},
		{skills.Addition, skills.Medium, 20, 100},
		{skills.Addition, skills.Hard, 100, 400},
		{skills.Multiplication, skills.Easy, 1, 25},
		{skills.Multiplication, skills.Medium, 36, 144},
		{skills.Multiplication, skills.Hard, 169, 400},
		{skills.Division, skills.Easy, 1, 5},
		{skills.Division, skills.Medium, 6, 20},
		{skills.Division, skills.Hard, 21, 50},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%s", tt.skill, tt.difficulty), func(t *testing.T) {
			for range 200 {
				q := g.Generate(tt.skill, tt.difficulty)
				if q.Answer < tt.minAnswer || q.Answer > tt.maxAnswer {
					t.Fatalf("answer %d for %q outside [%d, %d]", q.Answer, q.Text, tt.minAnswer, tt.maxAnswer)
				}
			}
		})
	}
}

func TestGenerate_SubtractionOperandRanges(t *testing.T) {
	g := NewSeededGenerator(11)

	tests := []struct {
		difficulty         skills.Difficulty
		aLo, aHi, bLo, bHi int
	}{
		{skills.Easy, 5, 15, 1, 10},
		{skills.Medium, 20, 100, 10, 50},
		{skills.Hard, 100, 500, 50, 300},
	}

	for _, tt := range tests {
		t.Run(string(tt.difficulty), func(t *testing.T) {
			for range 200 {
				q := g.Generate(skills.Subtraction, tt.difficulty)

				var a, b int
				if _, err := fmt.Sscanf(q.Text, "%d - %d = ?", &a, &b); err != nil {
					t.Fatalf("unparseable question %q: %v", q.Text, err)
				}
				if a < tt.aLo || a > tt.aHi {
					t.Fatalf("minuend %d outside [%d, %d]", a, tt.aLo, tt.aHi)
				}
				if b < tt.bLo || b > tt.bHi {
					t.Fatalf("subtrahend %d outside [%d, %d]", b, tt.bLo, tt.bHi)
				}
			}
		})
	}
}
