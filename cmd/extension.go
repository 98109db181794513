package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
)

// Environment passed to extensions. EnvDataFile is also read by the
// configuration, so an extension loading it opens the same ledger.
const (
	EnvDataFile   = "VENDAS_DATA_FILE"
	EnvConfigFile = "VENDAS_CONFIG_FILE"
	EnvVerbose    = "VENDAS_VERBOSE"
)

// RunExtension attempts to find and execute an external vendas-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found or executed.
func RunExtension(subcommand string, args []string) (bool, int) {
	name := "vendas-" + subcommand

	lp, err := exec.LookPath(name)
	if err != nil {
		return false, 0
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = stdout
	cmd.Stderr = os.Stderr

	// Pass global flags as environment variables
	cmd.Env = os.Environ()
	if *dataFile != "" {
		cmd.Env = append(cmd.Env, EnvDataFile+"="+*dataFile)
	}
	cmd.Env = append(cmd.Env, EnvConfigFile+"="+*configFile)
	cmd.Env = append(cmd.Env, EnvVerbose+"="+strconv.FormatBool(*Verbose))

	if err := cmd.Run(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return true, exitError.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", name, err)
		return true, 1
	}
	return true, 0
}
