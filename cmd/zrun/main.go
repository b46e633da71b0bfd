// Command zrun loads a flat Z80-like binary image and runs it to
// completion on the emulator in pkg/emulator.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/stillinbeta/zeerust/pkg/emulator"
)

var rootCmd = &cobra.Command{
	Use:   "zrun [binary file]",
	Short: "Run a program image on the zeerust Z80-like emulator",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(args[0])
	},
	SilenceUsage: true,
}

func run(path string) (err error) {
	program, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			panic(r)
		}
	}()

	cpu := emulator.New()
	cpu.Load(program)
	cpu.InstallOutput(0x00, stdoutDevice{})
	cpu.Run()
	return nil
}

// stdoutDevice writes every byte it receives directly to standard output,
// installed on port 0x00.
type stdoutDevice struct{}

func (stdoutDevice) Output(v uint8) {
	os.Stdout.Write([]byte{v})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
