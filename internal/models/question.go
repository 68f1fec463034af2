package models

import "time"

type QuestionType string

const (
	CodingQuestion     QuestionType = "CodingQuestion"
	BehavioralQuestion QuestionType = "BehavioralQuestion"
)

func (t QuestionType) Valid() bool {
	return t == CodingQuestion || t == BehavioralQuestion
}

type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// single testcase
type TestCase struct {
	ID       string `json:"id" bson:"id" yaml:"id"`
	Input    string `json:"input" bson:"input" yaml:"input"`
	Output   string `json:"output" bson:"output" yaml:"output"`
	IsHidden bool   `json:"isHidden" bson:"isHidden" yaml:"isHidden"`
}

type Example struct {
	Input       string `json:"input" bson:"input" yaml:"input"`
	Output      string `json:"output" bson:"output" yaml:"output"`
	Explanation string `json:"explanation,omitempty" bson:"explanation,omitempty" yaml:"explanation"`
}

// Question is a catalog entry. Coding questions use difficulty, examples,
// starter code and test cases; behavioral ones use category.
type Question struct {
	ID          string            `gorm:"primaryKey;size:36" json:"id" bson:"_id" yaml:"id"`
	Type        QuestionType      `gorm:"not null;index" json:"type" bson:"type" yaml:"type"`
	Title       string            `gorm:"not null" json:"title" bson:"title" yaml:"title"`
	Description string            `gorm:"type:text" json:"description" bson:"description" yaml:"description"`
	Difficulty  Difficulty        `json:"difficulty,omitempty" bson:"difficulty,omitempty" yaml:"difficulty"`
	Category    string            `json:"category,omitempty" bson:"category,omitempty" yaml:"category"`
	Examples    []Example         `gorm:"serializer:json;type:text" json:"examples,omitempty" bson:"examples,omitempty" yaml:"examples"`
	StarterCode map[string]string `gorm:"serializer:json;type:text" json:"starterCode,omitempty" bson:"starterCode,omitempty" yaml:"starterCode"`
	TestCases   []TestCase        `gorm:"serializer:json;type:text" json:"testCases,omitempty" bson:"testCases,omitempty" yaml:"testCases"`
	CreatedAt   time.Time         `json:"createdAt" bson:"createdAt" yaml:"-"`
	UpdatedAt   time.Time         `json:"updatedAt" bson:"updatedAt" yaml:"-"`
}

// Public returns a copy safe to show candidates: hidden test cases removed.
func (q Question) Public() Question {
	visible := make([]TestCase, 0, len(q.TestCases))
	for _, tc := range q.TestCases {
		if !tc.IsHidden {
			visible = append(visible, tc)
		}
	}
	q.TestCases = visible
	return q
}
