package sosa_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-lineage/internal/sosa"
)

// mustNew builds a Sosa number from an int64 or fails the test.
func mustNew(t *testing.T, v int64) sosa.Sosa {
	t.Helper()
	s, err := sosa.New(v)
	require.NoError(t, err)
	return s
}

func TestNew_RejectsNegative(t *testing.T) {
	_, err := sosa.New(-1)
	assert.ErrorIs(t, err, sosa.ErrInvalidValue)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "zero sentinel", input: "0", want: "0"},
		{name: "root", input: "1", want: "1"},
		{name: "plain number", input: "38", want: "38"},
		{name: "beyond 64 bits", input: "36893488147419103232", want: "36893488147419103232"}, // 2^65
		{name: "empty string", input: "", wantErr: sosa.ErrParse},
		{name: "trailing garbage", input: "12a", wantErr: sosa.ErrParse},
		{name: "sign rejected", input: "+12", wantErr: sosa.ErrParse},
		{name: "separator rejected", input: "1,000", wantErr: sosa.ErrParse},
		{name: "whitespace rejected", input: " 1", wantErr: sosa.ErrParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sosa.Parse(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestParse_ZeroEqualsSentinel(t *testing.T) {
	parsed, err := sosa.Parse("0")
	require.NoError(t, err)
	assert.True(t, parsed.Equal(sosa.Zero()))
	assert.True(t, parsed.IsZero())
}

// TestGeneration_FirstFifteen pins the generation of Sosa numbers 1-15,
// which must equal the bit length of the value.
func TestGeneration_FirstFifteen(t *testing.T) {
	expected := []int{1, 2, 2, 3, 3, 3, 3, 4, 4, 4, 4, 4, 4, 4, 4}

	for i, want := range expected {
		n := mustNew(t, int64(i+1))
		gen, err := n.Generation()
		require.NoError(t, err)
		assert.Equal(t, want, gen, "generation of %d", i+1)
	}
}

func TestGeneration_DeepAncestor(t *testing.T) {
	// 2^65 sits in generation 66, far past the 64-bit boundary.
	n, err := sosa.Parse("36893488147419103232")
	require.NoError(t, err)

	gen, err := n.Generation()
	require.NoError(t, err)
	assert.Equal(t, 66, gen)
}

func TestGeneration_ZeroFails(t *testing.T) {
	_, err := sosa.Zero().Generation()
	assert.ErrorIs(t, err, sosa.ErrInvalidValue)
}

func TestBranchPath(t *testing.T) {
	tests := []struct {
		name  string
		value int64
		want  []sosa.Branch
	}{
		{name: "root has empty path", value: 1, want: []sosa.Branch{}},
		{name: "father", value: 2, want: []sosa.Branch{sosa.Father}},
		{name: "mother", value: 3, want: []sosa.Branch{sosa.Mother}},
		{name: "father then mother", value: 5, want: []sosa.Branch{sosa.Father, sosa.Mother}},
		{
			// 38 = binary 100110 -> drop leading bit -> 00110
			name:  "five generations",
			value: 38,
			want:  []sosa.Branch{sosa.Father, sosa.Father, sosa.Mother, sosa.Mother, sosa.Father},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := mustNew(t, tt.value).BranchPath()
			require.NoError(t, err)
			assert.Equal(t, tt.want, path)
		})
	}
}

func TestBranchPath_ZeroFails(t *testing.T) {
	_, err := sosa.Zero().BranchPath()
	assert.ErrorIs(t, err, sosa.ErrInvalidValue)
}

// TestBranchPath_MatchesParentSteps cross-checks the decomposition against
// the defining relations: replaying the path with Father()/Mother() from
// the root must land on the original number.
func TestBranchPath_MatchesParentSteps(t *testing.T) {
	for _, v := range []int64{1, 2, 3, 5, 38, 1024, 987654321} {
		n := mustNew(t, v)
		path, err := n.BranchPath()
		require.NoError(t, err)

		cur := sosa.Root()
		for _, step := range path {
			if step == sosa.Father {
				cur = cur.Father()
			} else {
				cur = cur.Mother()
			}
		}
		assert.True(t, cur.Equal(n), "replaying path of %d", v)
	}
}

func TestStringSep(t *testing.T) {
	tests := []struct {
		value int64
		want  string
	}{
		{1, "1"},
		{10, "10"},
		{100, "100"},
		{1000, "1,000"},
		{10000, "10,000"},
		{100000, "100,000"},
		{1000000, "1,000,000"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, mustNew(t, tt.value).StringSep(","))
		})
	}
}

func TestStringSep_CustomSeparatorAndBigValue(t *testing.T) {
	n, err := sosa.Parse("36893488147419103232")
	require.NoError(t, err)
	assert.Equal(t, "36 893 488 147 419 103 232", n.StringSep(" "))

	// An empty separator leaves the rendering untouched.
	assert.Equal(t, "36893488147419103232", n.StringSep(""))
}

func TestArithmetic(t *testing.T) {
	a := mustNew(t, 1000)

	sum := a.Add(mustNew(t, 234))
	assert.Equal(t, "1234", sum.String())

	doubled, err := a.Mul(2)
	require.NoError(t, err)
	assert.Equal(t, "2000", doubled.String())

	q, err := a.Div(1000)
	require.NoError(t, err)
	assert.True(t, q.Equal(mustNew(t, 1)))

	q, err = mustNew(t, 234000).Div(1000)
	require.NoError(t, err)
	assert.True(t, q.Equal(mustNew(t, 234)))

	// Truncating division drops the remainder.
	q, err = mustNew(t, 7).Div(2)
	require.NoError(t, err)
	assert.Equal(t, "3", q.String())
}

func TestArithmetic_Errors(t *testing.T) {
	a := mustNew(t, 42)

	_, err := a.Mul(-1)
	assert.ErrorIs(t, err, sosa.ErrInvalidValue)

	_, err = a.Div(0)
	assert.ErrorIs(t, err, sosa.ErrDivisionByZero)

	_, err = a.Div(-2)
	assert.ErrorIs(t, err, sosa.ErrInvalidValue)
}

func TestFamilyRelations(t *testing.T) {
	n := mustNew(t, 19)

	assert.Equal(t, "38", n.Father().String())
	assert.Equal(t, "39", n.Mother().String())
	assert.Equal(t, "19", n.Father().Child().String())
	assert.Equal(t, "19", n.Mother().Child().String())

	// The root's child and the sentinel's parents stay at the sentinel.
	assert.True(t, sosa.Root().Child().IsZero())
	assert.True(t, sosa.Zero().Father().IsZero())
	assert.True(t, sosa.Zero().Mother().IsZero())
}

// TestImmutability verifies that operations never mutate their operands.
func TestImmutability(t *testing.T) {
	a := mustNew(t, 1000)
	b := mustNew(t, 24)

	_ = a.Add(b)
	_, _ = a.Mul(7)
	_, _ = a.Div(3)
	_ = a.Father()

	assert.Equal(t, "1000", a.String())
	assert.Equal(t, "24", b.String())
}
