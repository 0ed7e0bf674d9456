package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strconv"
)

// RunExtension attempts to find and execute an external cb-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found or executed.
//
// The resolved storage configuration is passed to the extension as CASHBOOK_*
// environment variables, so that it works on the same books.
func RunExtension(subcommand string, args []string) (bool, int) {
	externalCmdName := "cb-" + subcommand

	lp, err := exec.LookPath(externalCmdName)
	if err != nil {
		log.Printf("extension-not-found name=%q err=%v", externalCmdName, err)
		return false, 0
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(), extensionEnv(LoadConfig())...)

	if err := cmd.Run(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return true, exitError.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", externalCmdName, err)
		return true, 1
	}
	return true, 0
}

// extensionEnv returns cfg as environment variables.
func extensionEnv(cfg Config) []string {
	return []string{
		EnvBackend + "=" + cfg.Backend,
		EnvFile + "=" + cfg.File,
		EnvDir + "=" + cfg.Dir,
		EnvRedisAddr + "=" + cfg.RedisAddr,
		EnvSQLDriver + "=" + cfg.SQLDriver,
		EnvSQLDSN + "=" + cfg.SQLDSN,
		EnvSQLTable + "=" + cfg.SQLTable,
		EnvVerbose + "=" + strconv.FormatBool(cfg.Verbose),
	}
}
