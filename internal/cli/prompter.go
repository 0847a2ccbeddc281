package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/Veraticus/tally/internal/model"
)

// ErrInputClosed is returned when input ends before a valid answer is given.
var ErrInputClosed = errors.New("input terminated")

// Prompter asks for values on a line-oriented terminal and re-prompts until
// the answer is valid.
type Prompter struct {
	writer io.Writer
	reader *NonBlockingReader
}

// NewPrompter creates a new prompter with the given reader and writer.
func NewPrompter(reader io.Reader, writer io.Writer) *Prompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}

	return &Prompter{
		reader: NewNonBlockingReader(reader),
		writer: writer,
	}
}

// Writer returns the output the prompter writes to.
func (p *Prompter) Writer() io.Writer {
	return p.writer
}

// Println writes a line of user-facing output.
func (p *Prompter) Println(a ...any) {
	if _, err := fmt.Fprintln(p.writer, a...); err != nil {
		slog.Warn("Failed to write output", "error", err)
	}
}

func (p *Prompter) ask(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if _, err := fmt.Fprint(p.writer, FormatPrompt(prompt)); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}

	line, err := p.reader.ReadLine(ctx)
	if errors.Is(err, io.EOF) {
		return "", ErrInputClosed
	}
	return line, err
}

func (p *Prompter) retry(message string) {
	if _, err := fmt.Fprintln(p.writer, FormatError(message)); err != nil {
		slog.Warn("Failed to write error message", "error", err)
	}
}

// PromptString asks for a non-empty line of text.
func (p *Prompter) PromptString(ctx context.Context, prompt string) (string, error) {
	for {
		input, err := p.ask(ctx, prompt)
		if err != nil {
			return "", err
		}
		if input != "" {
			return input, nil
		}
		p.retry("Value cannot be empty. Please try again.")
	}
}

// PromptAmount asks for a finite number strictly greater than zero.
func (p *Prompter) PromptAmount(ctx context.Context, prompt string) (float64, error) {
	return p.promptFloat(ctx, prompt, func(v float64) bool { return v > 0 },
		"Please enter a number greater than zero.")
}

// PromptNonNegative asks for a finite number that is zero or more.
func (p *Prompter) PromptNonNegative(ctx context.Context, prompt string) (float64, error) {
	return p.promptFloat(ctx, prompt, func(v float64) bool { return v >= 0 },
		"Please enter a number that is zero or more.")
}

func (p *Prompter) promptFloat(ctx context.Context, prompt string, ok func(float64) bool, message string) (float64, error) {
	for {
		input, err := p.ask(ctx, prompt)
		if err != nil {
			return 0, err
		}

		v, parseErr := strconv.ParseFloat(strings.ReplaceAll(input, ",", ""), 64)
		if parseErr == nil && !math.IsNaN(v) && !math.IsInf(v, 0) && ok(v) {
			return v, nil
		}
		p.retry(message)
	}
}

// PromptInt asks for a whole number of at least minimum.
func (p *Prompter) PromptInt(ctx context.Context, prompt string, minimum int) (int, error) {
	for {
		input, err := p.ask(ctx, prompt)
		if err != nil {
			return 0, err
		}

		v, parseErr := strconv.Atoi(input)
		if parseErr == nil && v >= minimum {
			return v, nil
		}
		p.retry(fmt.Sprintf("Please enter a whole number of at least %d.", minimum))
	}
}

// PromptYesNo asks a yes/no question.
func (p *Prompter) PromptYesNo(ctx context.Context, prompt string) (bool, error) {
	choice, err := p.PromptChoice(ctx, prompt+" (y/n)", []string{"y", "yes", "n", "no"})
	if err != nil {
		return false, err
	}
	return choice == "y" || choice == "yes", nil
}

// PromptKind asks whether a transaction is income or expense.
func (p *Prompter) PromptKind(ctx context.Context) (model.Kind, error) {
	for {
		input, err := p.ask(ctx, "Type (I for income, E for expense)")
		if err != nil {
			return "", err
		}
		if kind, parseErr := model.ParseKind(input); parseErr == nil {
			return kind, nil
		}
		p.retry("Please enter I or E.")
	}
}

// PromptChoice asks until the lower-cased answer is one of validChoices.
func (p *Prompter) PromptChoice(ctx context.Context, prompt string, validChoices []string) (string, error) {
	for {
		input, err := p.ask(ctx, prompt)
		if err != nil {
			return "", err
		}

		choice := strings.ToLower(input)
		for _, valid := range validChoices {
			if choice == valid {
				return choice, nil
			}
		}
		p.retry("Invalid choice. Please try again.")
	}
}
