package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/tally/internal/model"
)

func newTestPrompter(input string) (*Prompter, *bytes.Buffer) {
	var out bytes.Buffer
	return NewPrompter(strings.NewReader(input), &out), &out
}

func TestPrompter_PromptString(t *testing.T) {
	p, out := newTestPrompter("\n   \nGroceries\n")

	got, err := p.PromptString(context.Background(), "Category")
	require.NoError(t, err)
	assert.Equal(t, "Groceries", got)
	assert.Equal(t, 2, strings.Count(out.String(), "cannot be empty"))
}

func TestPrompter_PromptAmount(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   float64
		errors int
	}{
		{name: "plain", input: "12.50\n", want: 12.5},
		{name: "thousands separator", input: "1,200\n", want: 1200},
		{name: "rejects zero and negatives", input: "0\n-5\n7\n", want: 7, errors: 2},
		{name: "rejects text and NaN", input: "abc\nNaN\nInf\n3\n", want: 3, errors: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, out := newTestPrompter(tt.input)

			got, err := p.PromptAmount(context.Background(), "Amount")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.errors, strings.Count(out.String(), "greater than zero"))
		})
	}
}

func TestPrompter_PromptNonNegative(t *testing.T) {
	p, _ := newTestPrompter("-1\n0\n")

	got, err := p.PromptNonNegative(context.Background(), "Interest rate")
	require.NoError(t, err)
	assert.Zero(t, got)
}

func TestPrompter_PromptInt(t *testing.T) {
	p, out := newTestPrompter("0\n2.5\n12\n")

	got, err := p.PromptInt(context.Background(), "Months", 1)
	require.NoError(t, err)
	assert.Equal(t, 12, got)
	assert.Equal(t, 2, strings.Count(out.String(), "at least 1"))
}

func TestPrompter_PromptYesNo(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"maybe\nno\n", false},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			p, _ := newTestPrompter(tt.input)
			got, err := p.PromptYesNo(context.Background(), "Set one now?")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrompter_PromptKind(t *testing.T) {
	p, out := newTestPrompter("x\ne\n")

	got, err := p.PromptKind(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.KindExpense, got)
	assert.Contains(t, out.String(), "Please enter I or E.")
}

func TestPrompter_InputClosed(t *testing.T) {
	p, _ := newTestPrompter("abc\n")

	_, err := p.PromptAmount(context.Background(), "Amount")
	assert.ErrorIs(t, err, ErrInputClosed)
}

func TestPrompter_CanceledContext(t *testing.T) {
	p, _ := newTestPrompter("value\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.PromptString(ctx, "Anything")
	assert.ErrorIs(t, err, context.Canceled)
}
