package debugger

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// RunCLI runs the line-mode REPL of spec §6: prompt, read a line,
// dispatch it, print whatever output the command produced, repeat until
// quit or EOF.
func RunCLI(d *Debugger, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(out, "(dianac) ")

		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())

		err := d.ExecuteCommand(line)

		if output := d.GetOutput(); output != "" {
			fmt.Fprint(out, output)
		}

		if errors.Is(err, ErrQuit) {
			break
		}
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}
	}

	return scanner.Err()
}
