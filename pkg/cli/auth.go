package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	urfave "github.com/urfave/cli/v3"
	"github.com/zalando/go-keyring"
)

const (
	keyringService = appName
	keyringUser    = "input_token"
)

var (
	tokenFlag = &urfave.StringFlag{
		Name:  "token",
		Usage: "Bearer token used to fetch http(s) input",
	}

	deleteTokenFlag = &urfave.BoolFlag{
		Name:  "delete",
		Usage: "Remove the stored token",
	}

	authCmd = &urfave.Command{
		Name:            "auth",
		Usage:           "Store the remote input token in the OS keychain",
		UsageText:       `drafttag auth --token $TOKEN   # save
   drafttag auth --delete          # remove`,
		HideHelpCommand: true,
		Flags: []urfave.Flag{
			tokenFlag,
			deleteTokenFlag,
		},
		Action: cmdAuth,
	}
)

func cmdAuth(_ context.Context, cmd *urfave.Command) error {
	if cmd.Bool(deleteTokenFlag.Name) {
		if err := deleteInputToken(); err != nil {
			return fmt.Errorf("deleting token: %w", err)
		}
		fmt.Println("Token removed from OS keychain")
		return nil
	}

	token := cmd.String(tokenFlag.Name)
	if token == "" {
		return urfave.ShowSubcommandHelp(cmd)
	}

	if err := saveInputToken(token); err != nil {
		return fmt.Errorf("saving token: %w", err)
	}

	fmt.Println("Token saved to OS keychain")
	return nil
}

func saveInputToken(token string) error {
	return keyring.Set(keyringService, keyringUser, token)
}

func deleteInputToken() error {
	err := keyring.Delete(keyringService, keyringUser)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

// getInputToken returns the stored token, or empty when none is available.
func getInputToken() string {
	token, err := keyring.Get(keyringService, keyringUser)
	if err != nil {
		if !errors.Is(err, keyring.ErrNotFound) {
			slog.Debug("keychain unavailable", "error", err)
		}
		return ""
	}
	return token
}
