package helpers

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/doeshing/foodscan/internal/domain"
)

// PromptForString prompts the user for a line of text with an optional default value.
func PromptForString(out io.Writer, reader *bufio.Reader, promptText string, defaultValue string) string {
	fmt.Fprintf(out, "%s ", promptText)

	if defaultValue != "" {
		fmt.Fprintf(out, "(default: %s)", defaultValue)
	}

	fmt.Fprint(out, ": ")
	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(line)

	if line == "" {
		return defaultValue
	}
	return line
}

// PromptForStars asks for a 1..5 rating until the answer is valid or input ends.
func PromptForStars(out io.Writer, reader *bufio.Reader, defaultValue int) (int, error) {
	for {
		label := ""
		if defaultValue > 0 {
			label = strconv.Itoa(defaultValue)
		}
		fmt.Fprintf(out, "Stars %d-%d [%s]: ", domain.MinStarCount, domain.MaxStarCount, label)
		line, err := reader.ReadString('\n')
		line = strings.TrimSpace(line)
		if line == "" && defaultValue > 0 {
			return defaultValue, nil
		}
		if stars, convErr := strconv.Atoi(line); convErr == nil && domain.ValidateStarCount(stars) == nil {
			return stars, nil
		}
		if err != nil {
			return 0, domain.ErrInvalidStarCount
		}
		fmt.Fprintln(out, domain.ErrInvalidStarCount.Error())
	}
}

// PromptForYesNo prompts the user for a yes/no question.
// Returns the default value if no input is given.
func PromptForYesNo(out io.Writer, reader *bufio.Reader, promptText string, defaultValue bool) bool {
	label := buildYesNoLabel(defaultValue)
	fmt.Fprintf(out, "%s [%s]: ", promptText, label)

	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(strings.ToLower(line))

	if line == "" {
		return defaultValue
	}

	return IsAffirmativeResponse(line)
}

func buildYesNoLabel(defaultIsYes bool) string {
	if defaultIsYes {
		return "Y/n"
	}
	return "y/N"
}

// IsAffirmativeResponse checks if a response is affirmative (yes).
func IsAffirmativeResponse(response string) bool {
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}
