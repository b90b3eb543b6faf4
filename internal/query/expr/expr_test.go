package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/cfhelper/internal/models"
	"github.com/iudanet/cfhelper/internal/query"
)

func intPtr(v int) *int { return &v }

func testProblems() []models.Problem {
	return []models.Problem{
		models.NewProblem(1850, "A", "To My Critics", intPtr(800), []string{"implementation"}),
		models.NewProblem(1703, "F", "Pairs", intPtr(1600), []string{"binary search", "dp"}),
		models.NewProblem(1204, "C", "Unrated DP", nil, []string{"dp"}),
	}
}

func TestCompile_Eval(t *testing.T) {
	problems := testProblems()

	tests := []struct {
		name string
		src  string
		want []bool
	}{
		{name: "rating bound", src: "rating >= 1600", want: []bool{false, true, false}},
		{name: "tag membership", src: `"dp" in tags`, want: []bool{false, true, true}},
		{name: "combined", src: `rating >= 1600 && "dp" in tags`, want: []bool{false, true, false}},
		{name: "unrated", src: "!rated", want: []bool{false, false, true}},
		{name: "division", src: `division == "Div1"`, want: []bool{false, false, true}},
		{name: "name function", src: `name.startsWith("To")`, want: []bool{true, false, false}},
		{name: "contest id", src: "contest_id > 1700", want: []bool{true, true, false}},
		{name: "difficulty", src: `difficulty == "Hard"`, want: []bool{false, true, false}},
		{name: "exists macro", src: `tags.exists(t, t.contains("search"))`, want: []bool{false, true, false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program, err := Compile(tt.src)
			require.NoError(t, err)

			for i, p := range problems {
				got, err := program.Eval(p)
				require.NoError(t, err)
				assert.Equal(t, tt.want[i], got, p.ID)
			}
		})
	}
}

func TestCompile_Invalid(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "empty", src: "   "},
		{name: "syntax error", src: "rating >="},
		{name: "unknown variable", src: "votes > 3"},
		{name: "not boolean", src: "rating + 1"},
		{name: "type mismatch", src: `rating == "high"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program, err := Compile(tt.src)
			assert.ErrorIs(t, err, ErrInvalid)
			assert.Nil(t, program)
		})
	}
}

func TestPredicate_EvalErrorIsNoMatch(t *testing.T) {
	program, err := Compile(`tags[0] == "dp"`)
	require.NoError(t, err)

	pred := program.Predicate()
	assert.False(t, pred(models.NewProblem(1, "A", "No tags", nil, nil)))
	assert.True(t, pred(models.NewProblem(1, "B", "Tagged", nil, []string{"dp"})))
}

func TestApply(t *testing.T) {
	spec := query.FilterSpec{}

	require.NoError(t, Apply(&spec, ` rating > 1000 `))
	assert.Equal(t, "rating > 1000", spec.Expr)
	require.NotNil(t, spec.Where)

	filtered := query.Apply(testProblems(), spec, nil, true)
	require.Len(t, filtered, 1)
	assert.Equal(t, "1703-F", filtered[0].ID)

	// Ошибка компиляции не трогает текущий фильтр
	assert.Error(t, Apply(&spec, "rating >"))
	assert.Equal(t, "rating > 1000", spec.Expr)

	require.NoError(t, Apply(&spec, ""))
	assert.Empty(t, spec.Expr)
	assert.Nil(t, spec.Where)
	assert.True(t, spec.IsEmpty())
}
