package judge

import (
	"context"
	"strings"

	"github.com/mockwiseai/backend/internal/models"
)

// Grade runs source against every test case of a coding question. Hidden
// cases are graded too but their expected output is not echoed back.
func Grade(ctx context.Context, runner Runner, q *models.Question, source, language string) ([]models.TestCaseResult, error) {
	results := make([]models.TestCaseResult, 0, len(q.TestCases))
	for _, tc := range q.TestCases {
		res, err := runner.Run(ctx, source, language, tc.Input)
		if err != nil {
			return nil, err
		}

		output := res.Stdout
		if !res.Accepted() {
			output = res.ErrorText()
		}
		r := models.TestCaseResult{
			TestCaseID:     tc.ID,
			IsPassed:       res.Accepted() && sameOutput(res.Stdout, tc.Output),
			ExpectedOutput: tc.Output,
			UserOutput:     output,
		}
		if tc.IsHidden {
			r.ExpectedOutput = ""
			r.UserOutput = ""
		}
		results = append(results, r)
	}
	return results, nil
}

// sameOutput ignores trailing whitespace on each line and at the end.
func sameOutput(got, want string) bool {
	return normalize(got) == normalize(want)
}

func normalize(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}
