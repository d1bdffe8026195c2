package cli

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"nbserve/internal/auth"
)

// HashPasswordCommand generates a bcrypt hash for the AUTH_PASSWORD_HASH
// environment variable.
type HashPasswordCommand struct {
	Cost int
}

func NewHashPasswordCommand() *HashPasswordCommand {
	return &HashPasswordCommand{}
}

func (cmd *HashPasswordCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("hash-password", flag.ExitOnError)

	fs.IntVar(&cmd.Cost, "cost", 12, "bcrypt cost factor")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s hash-password [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Read a password from stdin and print its bcrypt hash.\n")
		fmt.Fprintf(os.Stderr, "Set the result as AUTH_PASSWORD_HASH to enable password login.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *HashPasswordCommand) Run() error {
	fmt.Fprint(os.Stderr, "Password: ")

	reader := bufio.NewReader(os.Stdin)
	password, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	password = strings.TrimRight(password, "\r\n")

	hash, err := auth.HashPassword(password, cmd.Cost)
	if err != nil {
		return err
	}

	fmt.Println(hash)
	return nil
}
