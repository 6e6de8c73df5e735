package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"dirscan/internal/models"
	"dirscan/internal/services"

	"github.com/spf13/cobra"
)

const (
	promptText        = "Enter absolute path of directory: "
	pathNotFoundText  = "Given path does not exist. Please enter a valid path."
	notADirectoryText = "Please enter a path to a directory, and not a file."
)

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Ask for directory paths on stdin and print their children by size",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunPrompt(cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(promptCmd)
}

// RunPrompt reads one path per line from in and prints the scan of each to
// out. Missing paths and files are reported and the prompt is shown again;
// any other failure ends the loop. End of input ends it successfully.
func RunPrompt(in io.Reader, out io.Writer) error {
	lines := bufio.NewScanner(in)

	for {
		fmt.Fprint(out, promptText)

		if !lines.Scan() {
			fmt.Fprintln(out)
			if err := lines.Err(); err != nil {
				return fmt.Errorf("failed to read path: %w", err)
			}
			return nil
		}

		path := strings.TrimSuffix(lines.Text(), "\r")
		if strings.TrimSpace(path) == "" {
			continue
		}

		elements, err := services.Scan(path)
		switch {
		case errors.Is(err, services.ErrPathNotFound):
			fmt.Fprintln(out, pathNotFoundText)
		case errors.Is(err, services.ErrNotADirectory):
			fmt.Fprintln(out, notADirectoryText)
		case err != nil:
			return err
		default:
			printElements(out, elements)
		}
	}
}

func printElements(out io.Writer, elements []models.DirectoryElement) {
	for _, element := range elements {
		fmt.Fprintln(out, element.String())
	}
}
